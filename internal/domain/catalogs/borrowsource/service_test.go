package borrowsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	byID        map[id.ID]*BorrowSource
	outstanding int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[id.ID]*BorrowSource)}
}

func (r *mockRepo) Create(_ context.Context, source *BorrowSource) error {
	r.byID[source.ID] = source
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, sourceID id.ID) (*BorrowSource, error) {
	source, ok := r.byID[sourceID]
	if !ok {
		return nil, apperror.NewNotFound("borrow source", sourceID)
	}
	copied := *source
	return &copied, nil
}

func (r *mockRepo) Update(_ context.Context, source *BorrowSource) error {
	r.byID[source.ID] = source
	return nil
}

func (r *mockRepo) SetActive(_ context.Context, sourceID id.ID, active bool) error {
	r.byID[sourceID].IsActive = active
	return nil
}

func (r *mockRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*BorrowSource], error) {
	return domain.ListResult[*BorrowSource]{}, nil
}

func (r *mockRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, s := range r.byID {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockRepo) CountOutstandingBorrows(_ context.Context, _ id.ID) (int64, error) {
	return r.outstanding, nil
}

func TestCreate_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{})

	require.NoError(t, service.Create(ctx, NewBorrowSource("Biman Airlines")))

	err := service.Create(ctx, NewBorrowSource("Biman Airlines"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreate_NameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{})

	require.NoError(t, service.Create(ctx, NewBorrowSource("Biman Airlines")))
	require.NoError(t, service.Create(ctx, NewBorrowSource("BIMAN AIRLINES")))
}

func TestUpdate_RenameCheckedForUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{})

	first := NewBorrowSource("Emirates Engineering")
	second := NewBorrowSource("Qatar Tech")
	require.NoError(t, service.Create(ctx, first))
	require.NoError(t, service.Create(ctx, second))

	second.Name = "Emirates Engineering"
	err := service.Update(ctx, second)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)

	// Saving without a rename does not trip the check.
	first.Remarks = "updated"
	require.NoError(t, service.Update(ctx, first))
}

func TestDeactivate_BlockedWithOutstandingBorrows(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{})

	source := NewBorrowSource("Biman Airlines")
	require.NoError(t, service.Create(ctx, source))

	repo.outstanding = 2
	err := service.Deactivate(ctx, source.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBorrowSourceInUse, appErr.Code)
	assert.Equal(t, int64(2), appErr.Details["outstandingBorrows"])
	assert.True(t, repo.byID[source.ID].IsActive)
}

func TestDeactivate_AllowedWhenSettled(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	service := NewService(repo, fakeTxManager{})

	source := NewBorrowSource("Biman Airlines")
	require.NoError(t, service.Create(ctx, source))

	repo.outstanding = 0
	require.NoError(t, service.Deactivate(ctx, source.ID))
	assert.False(t, repo.byID[source.ID].IsActive)
}
