package students

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/college/internal/common"
	"github.com/dmitrijs2005/college/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract checks the behaviour every backend must share.
func runContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		got, err := newRepo(t).List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("create then list and get", func(t *testing.T) {
		r := newRepo(t)
		s := &models.Student{ID: 1, Name: "A", Age: 20, Department: "CS"}
		require.NoError(t, r.Create(ctx, s))

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Student{*s}, got)

		one, err := r.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, *s, *one)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, &models.Student{ID: 1, Name: "A", Age: 20, Department: "CS"}))

		err := r.Create(ctx, &models.Student{ID: 1, Name: "B", Age: 30, Department: "EE"})
		assert.ErrorIs(t, err, common.ErrConflict)

		got, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].Name, "first record untouched")
	})

	t.Run("update replaces every field", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, &models.Student{ID: 1, Name: "A", Age: 20, Department: "CS"}))

		upd := &models.Student{ID: 1, Name: "B", Age: 0, Department: "Math"}
		require.NoError(t, r.Update(ctx, upd))

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Student{*upd}, got)
	})

	t.Run("update unknown id", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, &models.Student{ID: 1, Name: "A", Age: 20, Department: "CS"}))

		err := r.Update(ctx, &models.Student{ID: 2, Name: "B", Age: 21, Department: "EE"})
		assert.ErrorIs(t, err, common.ErrNotFound)

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Student{{ID: 1, Name: "A", Age: 20, Department: "CS"}}, got)
	})

	t.Run("delete", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, &models.Student{ID: 1, Name: "A", Age: 20, Department: "CS"}))
		require.NoError(t, r.Create(ctx, &models.Student{ID: 2, Name: "B", Age: 21, Department: "EE"}))

		require.NoError(t, r.Delete(ctx, 1))
		assert.ErrorIs(t, r.Delete(ctx, 1), common.ErrNotFound)

		_, err := r.Get(ctx, 1)
		assert.ErrorIs(t, err, common.ErrNotFound)

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Student{{ID: 2, Name: "B", Age: 21, Department: "EE"}}, got)
	})

	t.Run("delete unknown id leaves collection unchanged", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Create(ctx, &models.Student{ID: 5, Name: "A", Age: 20, Department: "CS"}))

		assert.ErrorIs(t, r.Delete(ctx, 6), common.ErrNotFound)

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("concurrent distinct creates", func(t *testing.T) {
		r := newRepo(t)
		const n = 32

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 1; i <= n; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				errs <- r.Create(ctx, &models.Student{ID: id, Name: fmt.Sprintf("S%d", id), Age: 18, Department: "CS"})
			}(int64(i))
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, n)
	})

	t.Run("concurrent same-id creates", func(t *testing.T) {
		r := newRepo(t)
		const n = 16

		var wg sync.WaitGroup
		var ok, conflicts atomic.Int32
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := r.Create(ctx, &models.Student{ID: 7, Name: fmt.Sprintf("S%d", i), Age: 18, Department: "CS"})
				switch {
				case err == nil:
					ok.Add(1)
				case assert.ErrorIs(t, err, common.ErrConflict):
					conflicts.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.EqualValues(t, 1, ok.Load())
		assert.EqualValues(t, n-1, conflicts.Load())

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
