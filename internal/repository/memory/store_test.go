package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/repository"
	"github.com/iliyamo/lesson-booking/internal/service/ports"
)

func fixture() []model.Lesson {
	return []model.Lesson{
		{ID: 1, Subject: "Mathematics", Location: "London", Price: decimal.NewFromInt(100), Spaces: 5},
		{ID: 2, Subject: "Art", Location: "Oxford", Price: decimal.NewFromInt(80), Spaces: 1},
		{ID: 3, Subject: "Drama", Location: "Bristol", Price: decimal.RequireFromString("120.5"), Spaces: 100},
	}
}

func ids(ls []model.Lesson) []uint64 {
	out := make([]uint64, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestStore_ListAll(t *testing.T) {
	s := New(fixture())
	ctx := context.Background()

	cases := []struct {
		sort model.LessonSort
		want []uint64
	}{
		{model.LessonSort{}, []uint64{1, 2, 3}},
		{model.LessonSort{Field: "price"}, []uint64{2, 1, 3}},
		{model.LessonSort{Field: "price", Desc: true}, []uint64{3, 1, 2}},
		{model.LessonSort{Field: "subject"}, []uint64{2, 3, 1}},
		{model.LessonSort{Field: "location", Desc: true}, []uint64{2, 1, 3}},
		{model.LessonSort{Field: "spaces"}, []uint64{2, 1, 3}},
	}
	for _, tc := range cases {
		out, err := s.ListAll(ctx, tc.sort)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ids(out), "%+v", tc.sort)
	}
}

func TestStore_Search(t *testing.T) {
	s := New(fixture())
	ctx := context.Background()

	out, err := s.Search(ctx, "LONDON")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids(out))

	out, err = s.Search(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, ids(out), "price 100 and spaces 100")

	out, err = s.Search(ctx, "120.50")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, ids(out))

	out, err = s.Search(ctx, "nowhere")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStore_GetAndUpdate(t *testing.T) {
	s := New(fixture())
	ctx := context.Background()

	l, err := s.UpdateSpaces(ctx, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, l.Spaces)

	l.Spaces = 99
	got, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Spaces, "returned lessons are copies")

	_, err = s.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)
	_, err = s.UpdateSpaces(ctx, 42, 1)
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)
}

func TestStore_WithinTx_UndoesDecrementsOnError(t *testing.T) {
	s := New(fixture())
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx ports.OrderTx) error {
		ok, err := tx.DecrementSpace(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.InsertOrder(ctx, &model.Order{ID: "o1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	l, _ := s.GetByID(ctx, 1)
	assert.Equal(t, 5, l.Spaces)
	assert.Empty(t, s.Orders())
}

func TestStore_WithinTx_GuardsZeroAndMissing(t *testing.T) {
	s := New(fixture())
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx ports.OrderTx) error {
		ok, _ := tx.DecrementSpace(ctx, 2)
		assert.True(t, ok)
		ok, _ = tx.DecrementSpace(ctx, 2)
		assert.False(t, ok, "second seat on a one-seat lesson")
		ok, _ = tx.DecrementSpace(ctx, 42)
		assert.False(t, ok, "unknown lesson")
		return tx.InsertOrder(ctx, &model.Order{ID: "o1", Lessons: []model.CartLine{{LessonID: 2, Seats: 1}}})
	})
	require.NoError(t, err)

	l, _ := s.GetByID(ctx, 2)
	assert.Equal(t, 0, l.Spaces)
	require.Len(t, s.Orders(), 1)
	assert.Equal(t, "o1", s.Orders()[0].ID)
}
