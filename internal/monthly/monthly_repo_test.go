package monthly

import (
	"context"
	"errors"
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/attendance"
	"github.com/ishiyama1989/koutuhi/internal/kvstore"
	"github.com/ishiyama1989/koutuhi/internal/kvstore/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRepository_SaveKeepsSortedIndex(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := NewRepository(store)

	for _, m := range []string{"2025-06", "2025-04", "2025-05"} {
		replaced, err := repo.Save(ctx, Record{Month: m, Data: []attendance.Fact{{Name: "田中"}}, TotalRecords: 1})
		require.NoError(t, err)
		assert.False(t, replaced)
	}
	replaced, err := repo.Save(ctx, Record{Month: "2025-05", TotalRecords: 3})
	require.NoError(t, err)
	assert.True(t, replaced)

	months, err := repo.Months(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-04", "2025-05", "2025-06"}, months)

	raw, err := store.Get(ctx, KeySavedMonths)
	require.NoError(t, err)
	assert.JSONEq(t, `["2025-04","2025-05","2025-06"]`, raw)

	rec, err := repo.Get(ctx, "2025-05")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.TotalRecords, "overwrite replaces the record")

	_, err = store.Get(ctx, "monthlyData_2025-06")
	assert.NoError(t, err)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(kvstore.NewMemoryStore())

	_, err := repo.Save(ctx, Record{Month: "2025-06"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "2025-06"))
	months, _ := repo.Months(ctx)
	assert.Empty(t, months)

	_, err = repo.Get(ctx, "2025-06")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "2025-06"), ErrRecordNotFound)
}

func TestRepository_CorruptIndex(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeySavedMonths, "not json"))

	_, err := NewRepository(store).Months(ctx)
	assert.ErrorContains(t, err, "decode savedMonths")
}

func TestRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	repo := NewRepository(store)
	boom := errors.New("connection refused")

	store.EXPECT().Get(ctx, KeySavedMonths).Return("", kvstore.ErrNotFound)
	store.EXPECT().Set(ctx, "monthlyData_2025-06", gomock.Any()).Return(boom)

	_, err := repo.Save(ctx, Record{Month: "2025-06"})
	assert.ErrorIs(t, err, boom)

	store.EXPECT().Get(ctx, "monthlyData_2025-06").Return("", boom)
	_, err = repo.Get(ctx, "2025-06")
	assert.ErrorIs(t, err, boom)
}

func TestRepository_SaveIndexFailureRemovesRecord(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	repo := NewRepository(store)
	boom := errors.New("connection refused")

	gomock.InOrder(
		store.EXPECT().Get(ctx, KeySavedMonths).Return(`["2025-05"]`, nil),
		store.EXPECT().Set(ctx, "monthlyData_2025-06", gomock.Any()).Return(nil),
		store.EXPECT().Set(ctx, KeySavedMonths, `["2025-05","2025-06"]`).Return(boom),
		store.EXPECT().Remove(ctx, "monthlyData_2025-06").Return(nil),
	)

	replaced, err := repo.Save(ctx, Record{Month: "2025-06"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, replaced)
}

func TestRepository_DeleteRemoveFailureRestoresIndex(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	repo := NewRepository(store)
	boom := errors.New("connection refused")

	gomock.InOrder(
		store.EXPECT().Get(ctx, KeySavedMonths).Return(`["2025-05","2025-06"]`, nil),
		store.EXPECT().Set(ctx, KeySavedMonths, `["2025-05"]`).Return(nil),
		store.EXPECT().Remove(ctx, "monthlyData_2025-06").Return(boom),
		store.EXPECT().Set(ctx, KeySavedMonths, `["2025-05","2025-06"]`).Return(nil),
	)

	err := repo.Delete(ctx, "2025-06")
	assert.ErrorIs(t, err, boom)
}

func TestRepository_DeleteIndexFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	repo := NewRepository(store)
	boom := errors.New("connection refused")

	store.EXPECT().Get(ctx, KeySavedMonths).Return(`["2025-06"]`, nil)
	store.EXPECT().Set(ctx, KeySavedMonths, `[]`).Return(boom)

	assert.ErrorIs(t, repo.Delete(ctx, "2025-06"), boom)
}
