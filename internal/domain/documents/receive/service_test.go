package receive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
	"gims/internal/core/types"
	"gims/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRequests struct{ exists bool }

func (f fakeRequests) Exists(_ context.Context, _ id.ID) (bool, error) {
	return f.exists, nil
}

type mockRepo struct {
	byID map[id.ID]*Receive
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[id.ID]*Receive)}
}

func (r *mockRepo) Create(_ context.Context, rcv *Receive) error {
	r.byID[rcv.ID] = rcv
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, rcvID id.ID) (*Receive, error) {
	rcv, ok := r.byID[rcvID]
	if !ok {
		return nil, apperror.NewNotFound("receive", rcvID)
	}
	copied := *rcv
	return &copied, nil
}

func (r *mockRepo) Update(_ context.Context, rcv *Receive) error {
	r.byID[rcv.ID] = rcv
	return nil
}

func (r *mockRepo) Delete(_ context.Context, rcvID id.ID) error {
	delete(r.byID, rcvID)
	return nil
}

func (r *mockRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Receive], error) {
	return domain.ListResult[*Receive]{}, nil
}

func (r *mockRepo) ListByRequest(_ context.Context, _ id.ID) ([]*Receive, error) {
	return nil, nil
}

func (r *mockRepo) GetForUpdate(ctx context.Context, rcvID id.ID) (*Receive, error) {
	return r.GetByID(ctx, rcvID)
}

func (r *mockRepo) SetApprovalStatus(_ context.Context, rcvID id.ID, status string) error {
	r.byID[rcvID].ApprovalStatus = entity.ApprovalStatus(status)
	return nil
}

func (r *mockRepo) SetBorrowStatus(_ context.Context, rcvID id.ID, status string) error {
	s := entity.BorrowStatus(status)
	r.byID[rcvID].BorrowStatus = &s
	return nil
}

func validReceive(source Source) *Receive {
	rcv := NewReceive(id.New(), source)
	rcv.ReceiveDate = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	rcv.ReceivedQuantity, _ = types.NewQuantityFromString("5")
	rcv.Unit = "EA"
	if source == SourceBorrow {
		borrowID := id.New()
		rcv.BorrowSourceID = &borrowID
	}
	return rcv
}

func TestCreate_RejectsMissingRequest(t *testing.T) {
	ctx := context.Background()
	service := NewService(newMockRepo(), fakeRequests{exists: false}, fakeTxManager{})

	err := service.Create(ctx, validReceive(SourcePurchase))
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_BorrowRequiresSource(t *testing.T) {
	ctx := context.Background()
	service := NewService(newMockRepo(), fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourceBorrow)
	rcv.BorrowSourceID = nil

	err := service.Create(ctx, rcv)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_BorrowFieldsOnlyForBorrow(t *testing.T) {
	ctx := context.Background()
	service := NewService(newMockRepo(), fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourcePurchase)
	borrowID := id.New()
	rcv.BorrowSourceID = &borrowID

	err := service.Create(ctx, rcv)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_BorrowStartsActive(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourceBorrow)
	require.NoError(t, service.Create(ctx, rcv))

	require.NotNil(t, rcv.BorrowStatus)
	assert.Equal(t, entity.BorrowActive, *rcv.BorrowStatus)
	assert.Equal(t, entity.ApprovalPending, rcv.ApprovalStatus)
}

func TestUpdate_ApprovedIsFrozen(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourcePurchase)
	require.NoError(t, service.Create(ctx, rcv))
	require.NoError(t, repo.SetApprovalStatus(ctx, rcv.ID, string(entity.ApprovalApproved)))

	update := *rcv
	update.ReceivedQuantity, _ = types.NewQuantityFromString("9")
	err := service.Update(ctx, &update)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestDelete_ApprovedIsBlocked(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourcePurchase)
	require.NoError(t, service.Create(ctx, rcv))
	require.NoError(t, repo.SetApprovalStatus(ctx, rcv.ID, string(entity.ApprovalApproved)))

	err := service.Delete(ctx, rcv.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Contains(t, repo.byID, rcv.ID)
}

func TestRequestReturn_Transitions(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourceBorrow)
	require.NoError(t, service.Create(ctx, rcv))
	require.NoError(t, repo.SetApprovalStatus(ctx, rcv.ID, string(entity.ApprovalApproved)))

	require.NoError(t, service.RequestReturn(ctx, rcv.ID))
	assert.Equal(t, entity.BorrowReturnPending, *repo.byID[rcv.ID].BorrowStatus)

	// A second return request finds the borrow no longer active.
	err := service.RequestReturn(ctx, rcv.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBorrowNotActive, appErr.Code)
}

func TestRequestReturn_PendingReceiveBlocked(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourceBorrow)
	require.NoError(t, service.Create(ctx, rcv))

	// The loan exists but the stock has not been accepted yet.
	err := service.RequestReturn(ctx, rcv.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Equal(t, string(entity.ApprovalPending), appErr.Details["approvalStatus"])
	assert.Equal(t, entity.BorrowActive, *repo.byID[rcv.ID].BorrowStatus)

	// Rejected receives cannot open a return either.
	require.NoError(t, repo.SetApprovalStatus(ctx, rcv.ID, string(entity.ApprovalRejected)))
	err = service.RequestReturn(ctx, rcv.ID)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestRequestReturn_NotABorrow(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeRequests{exists: true}, fakeTxManager{})

	rcv := validReceive(SourceTender)
	require.NoError(t, service.Create(ctx, rcv))

	err := service.RequestReturn(ctx, rcv.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestBorrowStatusOutstanding(t *testing.T) {
	assert.True(t, entity.BorrowActive.Outstanding())
	assert.True(t, entity.BorrowReturnPending.Outstanding())
	assert.False(t, entity.BorrowReturned.Outstanding())
}
