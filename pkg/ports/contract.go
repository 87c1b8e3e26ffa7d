package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/blink/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultStoreContract runs a suite of tests to verify that a ResultStore
// implementation adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	ctx := context.Background()
	key := "25:contract-" + time.Now().Format("20060102150405")

	newResult := func(total uint64) *domain.Result {
		return &domain.Result{
			Key:        key,
			Total:      total,
			Iterations: 25,
			Stones:     2,
			Strategy:   domain.StrategyMemo,
			Elapsed:    3 * time.Millisecond,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, key, newResult(55312))
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, key, loaded.Key)
		assert.Equal(t, uint64(55312), loaded.Total)
		assert.Equal(t, uint32(25), loaded.Iterations)
		assert.Equal(t, 2, loaded.Stones)
		assert.Equal(t, domain.StrategyMemo, loaded.Strategy)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, newResult(1)))
		require.NoError(t, store.Save(ctx, key, newResult(2)))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), loaded.Total)
	})

	t.Run("Large totals survive", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, newResult(18446744073709551615)))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(18446744073709551615), loaded.Total)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, newResult(7)))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrResultNotFound, "Load after Delete should return ErrResultNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, newResult(1))
		_ = store.Save(ctx, id2, newResult(2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
