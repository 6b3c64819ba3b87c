package issue

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

type fakeStock struct{ known map[string]bool }

func (f fakeStock) ExistsByNacCode(_ context.Context, nacCode string) (bool, error) {
	return f.known[nacCode], nil
}

type mockRepo struct {
	byID map[id.ID]*Issue
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[id.ID]*Issue)}
}

func (r *mockRepo) Create(_ context.Context, iss *Issue) error {
	r.byID[iss.ID] = iss
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, issID id.ID) (*Issue, error) {
	iss, ok := r.byID[issID]
	if !ok {
		return nil, apperror.NewNotFound("issue", issID)
	}
	copied := *iss
	return &copied, nil
}

func (r *mockRepo) Update(_ context.Context, iss *Issue) error {
	r.byID[iss.ID] = iss
	return nil
}

func (r *mockRepo) Delete(_ context.Context, issID id.ID) error {
	delete(r.byID, issID)
	return nil
}

func (r *mockRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Issue], error) {
	return domain.ListResult[*Issue]{}, nil
}

func (r *mockRepo) GetForUpdate(ctx context.Context, issID id.ID) (*Issue, error) {
	return r.GetByID(ctx, issID)
}

func (r *mockRepo) SetApprovalStatus(_ context.Context, issID id.ID, status string) error {
	r.byID[issID].ApprovalStatus = entity.ApprovalStatus(status)
	return nil
}

func newTestService(repo *mockRepo, stock fakeStock) *Service {
	return NewService(repo, stock, fakeTxManager{}, numerator.NewMock())
}

func validIssue() *Issue {
	iss := NewIssue()
	iss.NacCode = "GT04552"
	iss.IssueDate = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	iss.IssuedQuantity = types.NewQuantityFromFloat64(3)
	iss.EquipmentNumber = "GSE-114"
	iss.IssuedBy = "storekeeper@example.com"
	return iss
}

func TestCreate_GeneratesNumber(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, fakeStock{known: map[string]bool{"GT04552": true}})
	ctx := context.Background()

	year := time.Now().Year()

	iss := validIssue()
	require.NoError(t, svc.Create(ctx, iss))
	assert.Equal(t, fmt.Sprintf("ISS-%d-00001", year), iss.IssueNumber)
	assert.Equal(t, entity.ApprovalPending, iss.ApprovalStatus)

	second := validIssue()
	require.NoError(t, svc.Create(ctx, second))
	assert.Equal(t, fmt.Sprintf("ISS-%d-00002", year), second.IssueNumber)
}

func TestCreate_KeepsProvidedNumber(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, fakeStock{known: map[string]bool{"GT04552": true}})

	iss := validIssue()
	iss.IssueNumber = "ISS-2025-00777"
	require.NoError(t, svc.Create(context.Background(), iss))
	assert.Equal(t, "ISS-2025-00777", iss.IssueNumber)
}

func TestCreate_UnknownStockItem(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, fakeStock{known: map[string]bool{}})

	iss := validIssue()
	err := svc.Create(context.Background(), iss)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.byID)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(newMockRepo(), fakeStock{known: map[string]bool{"GT04552": true}})
	ctx := context.Background()

	iss := validIssue()
	iss.IssuedQuantity = types.Quantity(0)
	err := svc.Create(ctx, iss)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "issuedQuantity", appErr.Details["field"])

	iss = validIssue()
	iss.IssuedBy = ""
	err = svc.Create(ctx, iss)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "issuedBy", appErr.Details["field"])
}

func TestUpdate_ApprovedIsFrozen(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, fakeStock{known: map[string]bool{"GT04552": true}})
	ctx := context.Background()

	iss := validIssue()
	require.NoError(t, svc.Create(ctx, iss))
	repo.byID[iss.ID].ApprovalStatus = entity.ApprovalApproved

	updated := *iss
	updated.Remarks = "late edit"
	err := svc.Update(ctx, &updated)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestUpdate_PreservesNumberAndStatus(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, fakeStock{known: map[string]bool{"GT04552": true}})
	ctx := context.Background()

	iss := validIssue()
	require.NoError(t, svc.Create(ctx, iss))

	updated := *iss
	updated.IssueNumber = "ISS-2026-99999"
	updated.ApprovalStatus = entity.ApprovalApproved
	updated.Remarks = "quantity corrected"
	require.NoError(t, svc.Update(ctx, &updated))

	stored := repo.byID[iss.ID]
	assert.Equal(t, iss.IssueNumber, stored.IssueNumber)
	assert.Equal(t, entity.ApprovalPending, stored.ApprovalStatus)
	assert.Equal(t, "quantity corrected", stored.Remarks)
}

func TestDelete_ApprovedIsBlocked(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, fakeStock{known: map[string]bool{"GT04552": true}})
	ctx := context.Background()

	iss := validIssue()
	require.NoError(t, svc.Create(ctx, iss))
	repo.byID[iss.ID].ApprovalStatus = entity.ApprovalApproved

	err := svc.Delete(ctx, iss.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Contains(t, repo.byID, iss.ID)

	repo.byID[iss.ID].ApprovalStatus = entity.ApprovalRejected
	require.NoError(t, svc.Delete(ctx, iss.ID))
	assert.NotContains(t, repo.byID, iss.ID)
}
