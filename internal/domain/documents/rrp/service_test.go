package rrp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/types"
	"gims/internal/domain"
	"gims/pkg/numerator"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	byID map[id.ID]*Header
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[id.ID]*Header)}
}

func (r *mockRepo) Create(_ context.Context, h *Header) error {
	r.byID[h.ID] = h
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, headerID id.ID) (*Header, error) {
	h, ok := r.byID[headerID]
	if !ok {
		return nil, apperror.NewNotFound("rrp", headerID)
	}
	copied := *h
	copied.Lines = make([]*Line, len(h.Lines))
	for i, line := range h.Lines {
		lc := *line
		copied.Lines[i] = &lc
	}
	return &copied, nil
}

func (r *mockRepo) Update(_ context.Context, h *Header) error {
	r.byID[h.ID] = h
	return nil
}

func (r *mockRepo) Delete(_ context.Context, headerID id.ID) error {
	delete(r.byID, headerID)
	return nil
}

func (r *mockRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*Header], error) {
	return domain.ListResult[*Header]{}, nil
}

func (r *mockRepo) ExistsByNumber(_ context.Context, rrpNumber string) (bool, error) {
	for _, h := range r.byID {
		if h.RrpNumber == rrpNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockRepo) GetLineForUpdate(_ context.Context, lineID id.ID) (*Line, error) {
	for _, h := range r.byID {
		for _, line := range h.Lines {
			if line.ID == lineID {
				lc := *line
				return &lc, nil
			}
		}
	}
	return nil, apperror.NewNotFound("rrp line", lineID)
}

func (r *mockRepo) SetLineApprovalStatus(_ context.Context, lineID id.ID, status string) error {
	for _, h := range r.byID {
		for _, line := range h.Lines {
			if line.ID == lineID {
				line.ApprovalStatus = entity.ApprovalStatus(status)
				return nil
			}
		}
	}
	return apperror.NewNotFound("rrp line", lineID)
}

func localHeader() *Header {
	h := NewHeader(SupplierLocal)
	h.SupplierName = "Local Vendor"
	h.RrpDate = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	h.Lines = []*Line{costedLine("10", "2", "0", "0")}
	return h
}

func TestCreate_GeneratesNumberAndComputesTotals(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, fakeTxManager{}, numerator.NewMock())
	ctx := context.Background()

	h := localHeader()
	require.NoError(t, svc.Create(ctx, h))
	assert.Equal(t, fmt.Sprintf("RRP-%d-00001", time.Now().Year()), h.RrpNumber)
	assert.True(t, h.Lines[0].TotalAmount.Equal(types.MustMoney("20")),
		"got %s", h.Lines[0].TotalAmount)
	assert.Equal(t, entity.ApprovalPending, h.Lines[0].ApprovalStatus)
	assert.Equal(t, h.ID, h.Lines[0].HeaderFk)
}

func TestCreate_DuplicateNumber(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, fakeTxManager{}, numerator.NewMock())
	ctx := context.Background()

	first := localHeader()
	first.RrpNumber = "RRP-2026-00042"
	require.NoError(t, svc.Create(ctx, first))

	second := localHeader()
	second.RrpNumber = "RRP-2026-00042"
	err := svc.Create(ctx, second)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestUpdate_NumberIsImmutable(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, fakeTxManager{}, numerator.NewMock())
	ctx := context.Background()

	h := localHeader()
	require.NoError(t, svc.Create(ctx, h))

	updated := *h
	updated.RrpNumber = "RRP-2026-00099"
	err := svc.Update(ctx, &updated)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Equal(t, h.RrpNumber, appErr.Details["rrpNumber"])
}

func TestUpdate_ApprovedLineIsFrozen(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, fakeTxManager{}, numerator.NewMock())
	ctx := context.Background()

	h := localHeader()
	require.NoError(t, svc.Create(ctx, h))
	require.NoError(t, repo.SetLineApprovalStatus(ctx, h.Lines[0].ID, string(entity.ApprovalApproved)))

	updated, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	updated.Lines[0].ItemPrice = types.MustMoney("999")

	err = svc.Update(ctx, updated)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Equal(t, 0, appErr.Details["line"])
}

func TestUpdate_RecomputesTotals(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, fakeTxManager{}, numerator.NewMock())
	ctx := context.Background()

	h := localHeader()
	require.NoError(t, svc.Create(ctx, h))

	updated, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	updated.Lines[0].ItemPrice = types.MustMoney("25")

	require.NoError(t, svc.Update(ctx, updated))
	stored := repo.byID[h.ID]
	assert.True(t, stored.Lines[0].TotalAmount.Equal(types.MustMoney("50")),
		"got %s", stored.Lines[0].TotalAmount)
}

func TestDelete_BlockedWithApprovedLines(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, fakeTxManager{}, numerator.NewMock())
	ctx := context.Background()

	h := localHeader()
	h.Lines = append(h.Lines, costedLine("5", "1", "0", "0"))
	require.NoError(t, svc.Create(ctx, h))
	require.NoError(t, repo.SetLineApprovalStatus(ctx, h.Lines[1].ID, string(entity.ApprovalApproved)))

	err := svc.Delete(ctx, h.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Contains(t, repo.byID, h.ID)
}

func TestDelete_PendingLinesOnly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, fakeTxManager{}, numerator.NewMock())
	ctx := context.Background()

	h := localHeader()
	require.NoError(t, svc.Create(ctx, h))
	require.NoError(t, svc.Delete(ctx, h.ID))
	assert.NotContains(t, repo.byID, h.ID)
}
