package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/categories"
	"github.com/mrlokans/catalog/internal/database/publishers"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/optional"
)

type recorderStub struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorderStub) RecordChange(_ context.Context, change Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func (r *recorderStub) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.changes))
	for _, c := range r.changes {
		out = append(out, c.Action)
	}
	return out
}

type fixture struct {
	svc      *Service
	db       *database.Database
	recorder *recorderStub
	authors  []uint
	cats     []uint
}

// setupTestService seeds three authors and three categories.
func setupTestService(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Path:     filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{db: db, recorder: &recorderStub{}}
	f.svc = NewService(db, f.recorder)

	ctx := context.Background()
	for _, name := range [][2]string{{"Terry", "Pratchett"}, {"Neil", "Gaiman"}, {"Ursula", "Le Guin"}} {
		author, err := f.svc.CreateAuthor(ctx, authors.Input{FirstName: name[0], LastName: name[1]})
		require.NoError(t, err)
		f.authors = append(f.authors, author.ID)
	}
	for _, name := range []string{"Fantasy", "Humour", "Science Fiction"} {
		category, err := f.svc.CreateCategory(ctx, categories.Input{Name: name})
		require.NoError(t, err)
		f.cats = append(f.cats, category.ID)
	}
	return f
}

func (f *fixture) count(t *testing.T, table string, bookID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.DB.Table(table).Where("book_id = ?", bookID).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

func TestService_CreateBookWithAssociations(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, books.Input{
		Title:       "Good Omens",
		AuthorIDs:   []uint{f.authors[0], f.authors[1]},
		CategoryIDs: []uint{f.cats[2]},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), f.count(t, "book_authors", book.ID))
	assert.Equal(t, int64(1), f.count(t, "book_categories", book.ID))

	linked, err := f.svc.AuthorsOfBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, "Pratchett", linked[0].LastName)
	assert.Contains(t, f.recorder.actions(), "book_create")
}

func TestService_CreateBookRollsBackOnInvalidCategory(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	_, err := f.svc.CreateBook(ctx, books.Input{
		Title:       "Doomed",
		AuthorIDs:   []uint{f.authors[0]},
		CategoryIDs: []uint{424242},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrInvalidReference)

	all, err := f.svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	var links int64
	require.NoError(t, f.db.DB.Model(&entities.BookAuthor{}).Count(&links).Error)
	assert.Zero(t, links)
	assert.NotContains(t, f.recorder.actions(), "book_create")
}

func TestService_CreateBookValidation(t *testing.T) {
	f := setupTestService(t)

	_, err := f.svc.CreateBook(context.Background(), books.Input{Title: ""})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "title")
}

func TestService_AddAuthorsIsIdempotent(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, books.Input{Title: "Anthology"})
	require.NoError(t, err)

	result, err := f.svc.AddAuthorsToBook(ctx, book.ID, f.authors)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.AddedCount)
	assert.Equal(t, 3, *result.AddedCount)
	assert.Nil(t, result.RemovedCount)
	assert.Equal(t, `Added 3 author(s) to book "Anthology"`, result.Message)

	result, err = f.svc.AddAuthorsToBook(ctx, book.ID, f.authors)
	require.NoError(t, err)
	assert.Equal(t, 0, *result.AddedCount)
	assert.Equal(t, `Added 0 author(s) to book "Anthology"`, result.Message)

	assert.Equal(t, int64(3), f.count(t, "book_authors", book.ID))
}

func TestService_AddCategoriesMessage(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, books.Input{Title: "Mort", CategoryIDs: []uint{f.cats[0]}})
	require.NoError(t, err)

	result, err := f.svc.AddCategoriesToBook(ctx, book.ID, []uint{f.cats[0], f.cats[1]})
	require.NoError(t, err)
	assert.Equal(t, 1, *result.AddedCount)
	assert.Equal(t, `Added 1 category(ies) to book "Mort"`, result.Message)

	links, err := f.svc.BookCategories(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

// The reported count is the number of ids requested, not rows deleted.
func TestService_RemoveReportsRequestedCount(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, books.Input{Title: "Sparse", AuthorIDs: []uint{f.authors[0]}})
	require.NoError(t, err)

	result, err := f.svc.RemoveAuthorsFromBook(ctx, book.ID, []uint{f.authors[0], f.authors[1]})
	require.NoError(t, err)
	require.NotNil(t, result.RemovedCount)
	assert.Equal(t, 2, *result.RemovedCount)
	assert.Nil(t, result.AddedCount)
	assert.Equal(t, `Removed 2 author(s) from book "Sparse"`, result.Message)
	assert.Zero(t, f.count(t, "book_authors", book.ID))

	result, err = f.svc.RemoveCategoriesFromBook(ctx, book.ID, []uint{f.cats[0]})
	require.NoError(t, err)
	assert.Equal(t, `Removed 1 category(ies) from book "Sparse"`, result.Message)
}

func TestService_MissingBook(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()
	const missing = 999999

	tests := []struct {
		name string
		call func() error
	}{
		{"add authors", func() error {
			_, err := f.svc.AddAuthorsToBook(ctx, missing, []uint{f.authors[0]})
			return err
		}},
		{"remove authors", func() error {
			_, err := f.svc.RemoveAuthorsFromBook(ctx, missing, []uint{f.authors[0]})
			return err
		}},
		{"add categories", func() error {
			_, err := f.svc.AddCategoriesToBook(ctx, missing, []uint{f.cats[0]})
			return err
		}},
		{"remove categories", func() error {
			_, err := f.svc.RemoveCategoriesFromBook(ctx, missing, []uint{f.cats[0]})
			return err
		}},
		{"update", func() error {
			_, err := f.svc.UpdateBook(ctx, missing, books.Patch{
				Title:     optional.Of("Ghost"),
				AuthorIDs: optional.Of([]uint{f.authors[0]}),
			})
			return err
		}},
		{"link rows", func() error {
			_, err := f.svc.BookAuthors(ctx, missing)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, database.ErrNotFound)
			assert.Contains(t, err.Error(), "Book with ID 999999 not found")
		})
	}

	var authorLinks, categoryLinks int64
	require.NoError(t, f.db.DB.Model(&entities.BookAuthor{}).Count(&authorLinks).Error)
	require.NoError(t, f.db.DB.Model(&entities.BookCategory{}).Count(&categoryLinks).Error)
	assert.Zero(t, authorLinks)
	assert.Zero(t, categoryLinks)
}

func TestService_UpdateBook(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	book, err := f.svc.CreateBook(ctx, books.Input{
		Title:       "Draft",
		Description: strPtr("Kept"),
		AuthorIDs:   []uint{f.authors[0], f.authors[1], f.authors[2]},
		CategoryIDs: []uint{f.cats[0]},
	})
	require.NoError(t, err)

	t.Run("title only leaves everything else", func(t *testing.T) {
		updated, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{Title: optional.Of("Final")})
		require.NoError(t, err)
		assert.Equal(t, "Final", updated.Title)
		assert.Equal(t, "Kept", *updated.Description)
		assert.Equal(t, int64(3), f.count(t, "book_authors", book.ID))
		assert.Equal(t, int64(1), f.count(t, "book_categories", book.ID))
	})

	t.Run("present author list replaces links", func(t *testing.T) {
		_, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{AuthorIDs: optional.Of([]uint{f.authors[1]})})
		require.NoError(t, err)

		linked, err := f.svc.AuthorsOfBook(ctx, book.ID)
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.Equal(t, f.authors[1], linked[0].ID)
		assert.Equal(t, int64(1), f.count(t, "book_categories", book.ID))
	})

	t.Run("empty category list clears links", func(t *testing.T) {
		_, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{CategoryIDs: optional.Of([]uint{})})
		require.NoError(t, err)
		assert.Zero(t, f.count(t, "book_categories", book.ID))
	})

	t.Run("failed replace rolls back field changes", func(t *testing.T) {
		_, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{
			Title:     optional.Of("Should not stick"),
			AuthorIDs: optional.Of([]uint{424242}),
		})
		require.ErrorIs(t, err, database.ErrInvalidReference)

		current, err := f.svc.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Final", current.Title)
		assert.Equal(t, int64(1), f.count(t, "book_authors", book.ID))
	})

	t.Run("empty description clears it", func(t *testing.T) {
		updated, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{Description: optional.Of("")})
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
	})

	t.Run("empty price clears it", func(t *testing.T) {
		priced, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{Price: optional.Of(books.Price("19.99"))})
		require.NoError(t, err)
		require.True(t, priced.Price.Valid)

		updated, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{Price: optional.Of(books.Price(""))})
		require.NoError(t, err)
		assert.False(t, updated.Price.Valid)
	})

	t.Run("unparseable price is invalid input", func(t *testing.T) {
		_, err := f.svc.UpdateBook(ctx, book.ID, books.Patch{Price: optional.Of(books.Price("cheap"))})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Relations(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	publisher, err := f.svc.CreatePublisher(ctx, publishers.Input{Name: "Transworld"})
	require.NoError(t, err)

	book, err := f.svc.CreateBook(ctx, books.Input{
		Title:       "Guards! Guards!",
		PublisherID: &publisher.ID,
		AuthorIDs:   []uint{f.authors[0]},
		CategoryIDs: []uint{f.cats[0], f.cats[1]},
	})
	require.NoError(t, err)

	got, err := f.svc.PublisherOfBook(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, "Transworld", got.Name)

	byPublisher, err := f.svc.BooksByPublisher(ctx, publisher.ID)
	require.NoError(t, err)
	assert.Len(t, byPublisher, 1)

	byAuthor, err := f.svc.BooksByAuthor(ctx, f.authors[0])
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)

	byCategory, err := f.svc.BooksByCategory(ctx, f.cats[1])
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	cats, err := f.svc.CategoriesOfBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	none, err := f.svc.PublisherOfBook(ctx, &entities.Book{})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestService_InvalidIDs(t *testing.T) {
	f := setupTestService(t)

	_, err := f.svc.AddAuthorsToBook(context.Background(), 1, []uint{0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewService_NilRecorder(t *testing.T) {
	db, err := database.NewDatabase(config.Database{
		Path:     filepath.Join(t.TempDir(), "nil.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(db, nil)
	_, err = svc.CreateCategory(context.Background(), categories.Input{Name: "Poetry"})
	assert.NoError(t, err)
}
