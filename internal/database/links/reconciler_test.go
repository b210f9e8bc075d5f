package links

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

// setupTestDB returns a reconciler over a fresh database holding one book,
// authors 1..6 and categories 1..3.
func setupTestDB(t *testing.T) (*Reconciler, *database.Database, uint) {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Path:     filepath.Join(t.TempDir(), "links.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for i := 1; i <= 6; i++ {
		require.NoError(t, db.DB.Create(&entities.Author{FirstName: "Author", LastName: fmt.Sprint(i)}).Error)
	}
	for i := 1; i <= 3; i++ {
		require.NoError(t, db.DB.Create(&entities.Category{Name: fmt.Sprintf("Category %d", i)}).Error)
	}
	book := &entities.Book{Title: "Linked"}
	require.NoError(t, db.DB.Create(book).Error)

	return NewReconciler(db.DB), db, book.ID
}

func countRows(t *testing.T, db *database.Database, kind Kind, bookID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Table(kind.Table).Where("book_id = ?", bookID).Count(&n).Error)
	return n
}

func TestReconciler_AddIsIdempotent(t *testing.T) {
	r, db, bookID := setupTestDB(t)
	ctx := context.Background()

	added, err := r.Add(ctx, Authors, bookID, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = r.Add(ctx, Authors, bookID, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	assert.Equal(t, int64(3), countRows(t, db, Authors, bookID))
}

func TestReconciler_AddSkipsExistingAndDuplicates(t *testing.T) {
	r, db, bookID := setupTestDB(t)
	ctx := context.Background()

	_, err := r.Add(ctx, Authors, bookID, []uint{1})
	require.NoError(t, err)

	added, err := r.Add(ctx, Authors, bookID, []uint{1, 2, 2, 3, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	linked, err := r.Linked(ctx, Authors, bookID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, linked)
	assert.Equal(t, int64(3), countRows(t, db, Authors, bookID))
}

func TestReconciler_AddEmptyWritesNothing(t *testing.T) {
	r, db, bookID := setupTestDB(t)

	added, err := r.Add(context.Background(), Categories, bookID, nil)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Zero(t, countRows(t, db, Categories, bookID))
}

func TestReconciler_AddUnknownIDFails(t *testing.T) {
	r, db, bookID := setupTestDB(t)

	_, err := r.Add(context.Background(), Categories, bookID, []uint{99})
	assert.ErrorIs(t, err, database.ErrInvalidReference)
	assert.Zero(t, countRows(t, db, Categories, bookID))
}

func TestReconciler_ReplaceIsDestructive(t *testing.T) {
	r, _, bookID := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.Replace(ctx, Authors, bookID, []uint{1, 2, 3}))
	require.NoError(t, r.Replace(ctx, Authors, bookID, []uint{2, 4}))

	linked, err := r.Linked(ctx, Authors, bookID)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 4}, linked)

	t.Run("empty list clears all links", func(t *testing.T) {
		require.NoError(t, r.Replace(ctx, Authors, bookID, []uint{}))

		linked, err := r.Linked(ctx, Authors, bookID)
		require.NoError(t, err)
		assert.Empty(t, linked)
	})
}

func TestReconciler_ReplaceDoesNotTouchOtherKinds(t *testing.T) {
	r, _, bookID := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.Replace(ctx, Authors, bookID, []uint{1}))
	require.NoError(t, r.Replace(ctx, Categories, bookID, []uint{1, 2}))
	require.NoError(t, r.Replace(ctx, Categories, bookID, []uint{3}))

	authors, err := r.Linked(ctx, Authors, bookID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, authors)

	categories, err := r.Linked(ctx, Categories, bookID)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, categories)
}

func TestReconciler_Remove(t *testing.T) {
	r, db, bookID := setupTestDB(t)
	ctx := context.Background()

	_, err := r.Add(ctx, Authors, bookID, []uint{5})
	require.NoError(t, err)

	// 6 was never linked; removal still succeeds.
	require.NoError(t, r.Remove(ctx, Authors, bookID, []uint{5, 6}))
	assert.Zero(t, countRows(t, db, Authors, bookID))

	require.NoError(t, r.Remove(ctx, Authors, bookID, nil))
}

func TestReconciler_DoesNotBumpBookTimestamp(t *testing.T) {
	r, db, bookID := setupTestDB(t)
	ctx := context.Background()

	var before entities.Book
	require.NoError(t, db.DB.First(&before, bookID).Error)

	_, err := r.Add(ctx, Authors, bookID, []uint{1})
	require.NoError(t, err)
	require.NoError(t, r.Replace(ctx, Categories, bookID, []uint{1}))

	var after entities.Book
	require.NoError(t, db.DB.First(&after, bookID).Error)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestReconciler_WithTxRollback(t *testing.T) {
	r, db, bookID := setupTestDB(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := r.WithTx(tx).Add(ctx, Authors, bookID, []uint{1, 2}); err != nil {
			return err
		}
		return r.WithTx(tx).Replace(ctx, Categories, bookID, []uint{42})
	})
	assert.ErrorIs(t, err, database.ErrInvalidReference)
	assert.Zero(t, countRows(t, db, Authors, bookID))
}

func TestDedupeAndDifference(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, Dedupe([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, Dedupe(nil))
	assert.Equal(t, []uint{4}, Difference([]uint{2, 4}, []uint{1, 2, 3}))
	assert.Equal(t, []uint{1, 2}, Difference([]uint{1, 2}, nil))
}
