package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/repository/memory"
	"github.com/iliyamo/lesson-booking/internal/service"
)

// brokenLessons fails every read.
type brokenLessons struct{ *memory.Store }

func (brokenLessons) ListAll(context.Context, model.LessonSort) ([]model.Lesson, error) {
	return nil, errors.New("server has gone away")
}

func (brokenLessons) Search(context.Context, string) ([]model.Lesson, error) {
	return nil, errors.New("server has gone away")
}

func (brokenLessons) GetByID(context.Context, uint64) (*model.Lesson, error) {
	return nil, errors.New("server has gone away")
}

func catalogFixture() *memory.Store {
	ls := model.SeedLessons()
	ls[1].Price = decimal.NewFromInt(150)
	ls[1].Location = "Oxford"
	ls[2].Price = decimal.NewFromInt(90)
	ls[3].Spaces = 100
	ls[3].Location = "Cambridge"
	return memory.New(ls)
}

func TestListLessons_SortByPriceDesc(t *testing.T) {
	svc := service.NewCatalogService(catalogFixture(), service.WithLogger(quietLogger()))

	out, err := svc.ListLessons(context.Background(), "price", "desc")
	require.NoError(t, err)
	require.Len(t, out, 10)
	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].Price.GreaterThan(out[i-1].Price), "index %d", i)
	}
	assert.Equal(t, uint64(2), out[0].ID)
	assert.Equal(t, uint64(3), out[len(out)-1].ID)
}

func TestListLessons_DefaultsAndValidation(t *testing.T) {
	svc := service.NewCatalogService(catalogFixture(), service.WithLogger(quietLogger()))
	ctx := context.Background()

	out, err := svc.ListLessons(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), out[0].ID)

	out, err = svc.ListLessons(ctx, "Subject", "ASC")
	require.NoError(t, err)
	assert.Equal(t, "Art", out[0].Subject)

	_, err = svc.ListLessons(ctx, "tutor", "")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	_, err = svc.ListLessons(ctx, "price", "sideways")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestSearchLessons(t *testing.T) {
	svc := service.NewCatalogService(catalogFixture(), service.WithLogger(quietLogger()))
	ctx := context.Background()

	out, err := svc.SearchLessons(ctx, "london")
	require.NoError(t, err)
	assert.Len(t, out, 8)
	for _, l := range out {
		assert.Equal(t, "London", l.Location)
	}

	out, err = svc.SearchLessons(ctx, "100")
	require.NoError(t, err)
	got := map[uint64]bool{}
	for _, l := range out {
		got[l.ID] = true
		assert.True(t, l.Price.Equal(decimal.NewFromInt(100)) || l.Spaces == 100)
	}
	assert.True(t, got[4], "spaces 100 in Cambridge")
	assert.False(t, got[2], "price 150")
	assert.False(t, got[3], "price 90")

	all, err := svc.SearchLessons(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestCatalog_StoreErrorsAreUnavailable(t *testing.T) {
	svc := service.NewCatalogService(brokenLessons{memory.New(nil)}, service.WithLogger(quietLogger()))

	_, err := svc.ListLessons(context.Background(), "", "")
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
	_, err = svc.SearchLessons(context.Background(), "art")
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
	_, err = svc.GetLesson(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
}

func TestGetLesson(t *testing.T) {
	svc := service.NewCatalogService(catalogFixture(), service.WithLogger(quietLogger()))
	ctx := context.Background()

	l, err := svc.GetLesson(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Oxford", l.Location)
	assert.Equal(t, "150", l.Price.String())

	_, err = svc.GetLesson(ctx, 0)
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	_, err = svc.GetLesson(ctx, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateLessonSpaces(t *testing.T) {
	store := catalogFixture()
	cache := &countingCache{}
	svc := service.NewCatalogService(store, service.WithLogger(quietLogger()), service.WithCacheInvalidator(cache))
	ctx := context.Background()

	l, err := svc.UpdateLessonSpaces(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Spaces)
	assert.Equal(t, 1, cache.calls)

	_, err = svc.UpdateLessonSpaces(ctx, 1, -1)
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	_, err = svc.UpdateLessonSpaces(ctx, 0, 3)
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
	_, err = svc.UpdateLessonSpaces(ctx, 404, 3)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, 1, cache.calls)
}

func TestUpdateLessonSpaces_RejectsCountsTheColumnCannotHold(t *testing.T) {
	store := catalogFixture()
	svc := service.NewCatalogService(store, service.WithLogger(quietLogger()))

	_, err := svc.UpdateLessonSpaces(context.Background(), 1, 1<<32)
	assert.ErrorIs(t, err, service.ErrInvalidRequest)

	l, err := svc.UpdateLessonSpaces(context.Background(), 1, 1<<32-1)
	require.NoError(t, err)
	assert.Equal(t, 1<<32-1, l.Spaces)
}
