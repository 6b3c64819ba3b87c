package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/core/types"
	"gims/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	byID        map[id.ID]*Request
	receivedSum types.Quantity
	deleted     []id.ID
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[id.ID]*Request)}
}

func (r *mockRepo) Create(_ context.Context, req *Request) error {
	r.byID[req.ID] = req
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, reqID id.ID) (*Request, error) {
	req, ok := r.byID[reqID]
	if !ok {
		return nil, apperror.NewNotFound("request", reqID)
	}
	copied := *req
	return &copied, nil
}

func (r *mockRepo) Update(_ context.Context, req *Request) error {
	r.byID[req.ID] = req
	return nil
}

func (r *mockRepo) Delete(_ context.Context, reqID id.ID) error {
	delete(r.byID, reqID)
	r.deleted = append(r.deleted, reqID)
	return nil
}

func (r *mockRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*ListItem], error) {
	return domain.ListResult[*ListItem]{}, nil
}

func (r *mockRepo) GetForUpdate(ctx context.Context, reqID id.ID) (*Request, error) {
	return r.GetByID(ctx, reqID)
}

func (r *mockRepo) ApprovedReceivedSum(_ context.Context, _ id.ID) (types.Quantity, error) {
	return r.receivedSum, nil
}

func (r *mockRepo) MarkReceived(_ context.Context, reqID id.ID, receiveID id.ID) error {
	req := r.byID[reqID]
	req.IsReceived = true
	req.ReceiveFk = &receiveID
	return nil
}

func (r *mockRepo) SetApprovalStatus(_ context.Context, reqID id.ID, status string) error {
	return nil
}

type noopFiles struct{ removed []string }

func (f *noopFiles) Remove(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	return nil
}

func validRequest() *Request {
	req := NewRequest()
	req.RequestNumber = "REQ-2026-00001"
	req.NacCode = "GT04552"
	req.RequestDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	req.PartNumber = "PN-100"
	req.ItemName = "Towbar head"
	req.Unit = "EA"
	req.EquipmentNumber = "GSE-778"
	req.RequestedBy = "j.doe"
	req.RequestedQuantity, _ = types.NewQuantityFromString("10")
	return req
}

func TestCreate_RequiresPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	service := NewService(newMockRepo(), fakeTxManager{}, nil)

	req := validRequest()
	req.RequestedQuantity = 0

	err := service.Create(ctx, req)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdate_QuantityFloorWhenReceived(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{}, nil)

	req := validRequest()
	require.NoError(t, service.Create(ctx, req))

	receiveID := id.New()
	require.NoError(t, repo.MarkReceived(ctx, req.ID, receiveID))
	repo.receivedSum, _ = types.NewQuantityFromString("5")

	// Lowering below the received sum is rejected.
	update := *req
	update.RequestedQuantity, _ = types.NewQuantityFromString("4")
	err := service.Update(ctx, &update)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Contains(t, appErr.Message, "Received quantity: 5.0000")

	// Lowering to exactly the received sum is allowed.
	update.RequestedQuantity = repo.receivedSum
	require.NoError(t, service.Update(ctx, &update))
}

func TestUpdate_PreservesLinkageFlags(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{}, nil)

	req := validRequest()
	require.NoError(t, service.Create(ctx, req))

	receiveID := id.New()
	require.NoError(t, repo.MarkReceived(ctx, req.ID, receiveID))

	update := *req
	update.IsReceived = false
	update.ReceiveFk = nil
	update.RequestedQuantity, _ = types.NewQuantityFromString("20")
	require.NoError(t, service.Update(ctx, &update))

	stored, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsReceived, "client cannot clear linkage flags")
	require.NotNil(t, stored.ReceiveFk)
	assert.Equal(t, receiveID, *stored.ReceiveFk)
}

func TestUpdate_RemovesReplacedImage(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	files := &noopFiles{}
	service := NewService(repo, fakeTxManager{}, files)

	req := validRequest()
	req.ImagePath = "old.jpg"
	require.NoError(t, service.Create(ctx, req))

	update := *req
	update.ImagePath = "new.jpg"
	require.NoError(t, service.Update(ctx, &update))

	assert.Equal(t, []string{"old.jpg"}, files.removed)
}

func TestDelete_BlockedWhenReceived(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{}, nil)

	req := validRequest()
	require.NoError(t, service.Create(ctx, req))
	require.NoError(t, repo.MarkReceived(ctx, req.ID, id.New()))

	err := service.Delete(ctx, req.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRequestReceived, appErr.Code)
	assert.Empty(t, repo.deleted)
}

func TestDelete_RemovesImage(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	files := &noopFiles{}
	service := NewService(repo, fakeTxManager{}, files)

	req := validRequest()
	req.ImagePath = "att.png"
	require.NoError(t, service.Create(ctx, req))

	require.NoError(t, service.Delete(ctx, req.ID))
	assert.Equal(t, []string{"att.png"}, files.removed)
}

func TestReceiveStatusLabel(t *testing.T) {
	req := validRequest()

	zero := types.Quantity(0)
	half, _ := types.NewQuantityFromString("5")
	full, _ := types.NewQuantityFromString("10")
	over, _ := types.NewQuantityFromString("12")

	assert.Equal(t, "Not Received", req.ReceiveStatusLabel(zero))
	assert.Equal(t, "Partially Received", req.ReceiveStatusLabel(half))
	assert.Equal(t, "Received", req.ReceiveStatusLabel(full))
	assert.Equal(t, "Received", req.ReceiveStatusLabel(over))
}
