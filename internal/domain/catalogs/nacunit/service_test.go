package nacunit

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	"gims/internal/domain"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRepo keeps unit bindings in memory keyed by nac code.
type memRepo struct {
	units map[string][]*NacUnit
}

func newMemRepo() *memRepo {
	return &memRepo{units: make(map[string][]*NacUnit)}
}

func (r *memRepo) ListByNacCode(_ context.Context, nacCode string) ([]*NacUnit, error) {
	return r.units[nacCode], nil
}

func (r *memRepo) GetDefault(_ context.Context, nacCode string) (*NacUnit, error) {
	for _, u := range r.units[nacCode] {
		if u.IsDefault {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("nac unit default", nacCode)
}

func (r *memRepo) ClearDefault(_ context.Context, nacCode string) error {
	for _, u := range r.units[nacCode] {
		u.IsDefault = false
	}
	return nil
}

func (r *memRepo) Upsert(_ context.Context, nacCode, unit string, isDefault bool) (*NacUnit, error) {
	for _, u := range r.units[nacCode] {
		if u.Unit == unit {
			u.IsDefault = isDefault
			return u, nil
		}
	}
	binding := NewNacUnit(nacCode, unit)
	binding.IsDefault = isDefault
	r.units[nacCode] = append(r.units[nacCode], binding)
	return binding, nil
}

func (r *memRepo) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[*NacUnit], error) {
	var all []*NacUnit
	for _, units := range r.units {
		for _, u := range units {
			if filter.Search != "" &&
				!strings.Contains(u.NacCode, filter.Search) &&
				!strings.Contains(u.Unit, filter.Search) {
				continue
			}
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].NacCode != all[j].NacCode {
			return all[i].NacCode < all[j].NacCode
		}
		return all[i].Unit < all[j].Unit
	})

	result := domain.ListResult[*NacUnit]{
		TotalCount: int64(len(all)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if filter.Offset < len(all) {
		all = all[filter.Offset:]
	} else {
		all = nil
	}
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	result.Items = all
	return result, nil
}

func (r *memRepo) Delete(_ context.Context, nacCode, unit string) error {
	kept := r.units[nacCode][:0]
	for _, u := range r.units[nacCode] {
		if u.Unit != unit {
			kept = append(kept, u)
		}
	}
	r.units[nacCode] = kept
	return nil
}

func TestSetDefault_SwapsPreviousDefault(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, fakeTxManager{})

	_, err := service.SetDefault(ctx, "GT04552", "EA")
	require.NoError(t, err)

	def, err := service.GetDefault(ctx, "GT04552")
	require.NoError(t, err)
	assert.Equal(t, "EA", def.Unit)

	// Switching to BOX must clear EA in the same call.
	_, err = service.SetDefault(ctx, "GT04552", "BOX")
	require.NoError(t, err)

	def, err = service.GetDefault(ctx, "GT04552")
	require.NoError(t, err)
	assert.Equal(t, "BOX", def.Unit)

	units, err := service.ListByNacCode(ctx, "GT04552")
	require.NoError(t, err)
	defaults := 0
	for _, u := range units {
		if u.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSave_NonDefaultKeepsCurrentDefault(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, fakeTxManager{})

	_, err := service.SetDefault(ctx, "GT04552", "EA")
	require.NoError(t, err)

	// A plain binding registers without touching the default.
	saved, err := service.Save(ctx, "GT04552", "BOX", false)
	require.NoError(t, err)
	assert.False(t, saved.IsDefault)

	def, err := service.GetDefault(ctx, "GT04552")
	require.NoError(t, err)
	assert.Equal(t, "EA", def.Unit)

	units, err := service.ListByNacCode(ctx, "GT04552")
	require.NoError(t, err)
	assert.Len(t, units, 2)
}

func TestSave_DemoteExistingBinding(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, fakeTxManager{})

	_, err := service.SetDefault(ctx, "GT04552", "EA")
	require.NoError(t, err)

	saved, err := service.Save(ctx, "GT04552", "EA", false)
	require.NoError(t, err)
	assert.False(t, saved.IsDefault)

	_, err = service.GetDefault(ctx, "GT04552")
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_SearchAndPaging(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, fakeTxManager{})

	_, err := service.Save(ctx, "GT04552", "EA", true)
	require.NoError(t, err)
	_, err = service.Save(ctx, "GT04552", "BOX", false)
	require.NoError(t, err)
	_, err = service.Save(ctx, "AB-1234", "KG", true)
	require.NoError(t, err)

	result, err := service.List(ctx, domain.ListFilter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.Len(t, result.Items, 3)

	result, err = service.List(ctx, domain.ListFilter{Search: "GT04552", Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)

	result, err = service.List(ctx, domain.ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount, "total counts all rows, not the page")
	assert.Len(t, result.Items, 1)
}

func TestSetDefault_Validation(t *testing.T) {
	ctx := context.Background()
	service := NewService(newMemRepo(), fakeTxManager{})

	_, err := service.SetDefault(ctx, "", "EA")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = service.SetDefault(ctx, "GT04552", "")
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetDefault_NotSet(t *testing.T) {
	ctx := context.Background()
	service := NewService(newMemRepo(), fakeTxManager{})

	_, err := service.GetDefault(ctx, "GT09999")
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_RemovesBinding(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	service := NewService(repo, fakeTxManager{})

	_, err := service.SetDefault(ctx, "GT04552", "EA")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, "GT04552", "EA"))

	units, err := service.ListByNacCode(ctx, "GT04552")
	require.NoError(t, err)
	assert.Empty(t, units)
}
