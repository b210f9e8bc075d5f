// Package catalog is the operation surface shared by the REST and GraphQL
// boundaries. It validates inputs, scopes multi-step writes in a single
// transaction and reports every successful mutation to a Recorder.
//
// # Usage
//
//	svc := catalog.NewService(db, auditService)
//	book, err := svc.CreateBook(ctx, books.Input{Title: "Dune", AuthorIDs: []uint{1}})
//	result, err := svc.AddAuthorsToBook(ctx, book.ID, []uint{2, 3})
package catalog

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/categories"
	"github.com/mrlokans/catalog/internal/database/links"
	"github.com/mrlokans/catalog/internal/database/publishers"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/validate"
)

// ErrInvalidInput wraps every validation failure returned by the service.
// The wrapped validation.Errors carries per-field details.
var ErrInvalidInput = errors.New("invalid input")

// Recorder receives successful mutations. Implementations must not block.
type Recorder interface {
	RecordChange(ctx context.Context, change Change)
}

// Change describes one successful mutation.
type Change struct {
	EventType   entities.AuditEventType
	Action      string
	EntityType  string
	EntityID    uint
	Description string
}

type nopRecorder struct{}

func (nopRecorder) RecordChange(context.Context, Change) {}

// AssociationResult reports the outcome of an add or remove operation.
type AssociationResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AddedCount   *int   `json:"addedCount,omitempty"`
	RemovedCount *int   `json:"removedCount,omitempty"`
}

type Service struct {
	db         *database.Database
	authors    *authors.Repository
	publishers *publishers.Repository
	categories *categories.Repository
	books      *books.Repository
	links      *links.Reconciler
	recorder   Recorder
}

// NewService builds the service over db. A nil recorder discards changes.
func NewService(db *database.Database, recorder Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		db:         db,
		authors:    authors.NewRepository(db.DB),
		publishers: publishers.NewRepository(db.DB),
		categories: categories.NewRepository(db.DB),
		books:      books.NewRepository(db.DB),
		links:      links.NewReconciler(db.DB),
		recorder:   recorder,
	}
}

type validatable interface {
	Validate() error
}

func check(v validatable) error {
	if err := v.Validate(); err != nil {
		return invalid(err)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func (s *Service) record(ctx context.Context, eventType entities.AuditEventType, entityType string, id uint, action, description string) {
	s.recorder.RecordChange(ctx, Change{
		EventType:   eventType,
		Action:      action,
		EntityType:  entityType,
		EntityID:    id,
		Description: description,
	})
}

// Authors

func (s *Service) GetAuthor(ctx context.Context, id uint) (*entities.Author, error) {
	return s.authors.Get(ctx, id)
}

func (s *Service) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	return s.authors.List(ctx)
}

func (s *Service) SearchAuthors(ctx context.Context, query string) ([]entities.Author, error) {
	return s.authors.Search(ctx, query)
}

func (s *Service) CreateAuthor(ctx context.Context, in authors.Input) (*entities.Author, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	author, err := s.authors.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entities.AuditEventCreate, "author", author.ID, "author_create", "Created author "+author.FullName())
	return author, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id uint, patch authors.Patch) (*entities.Author, error) {
	if err := check(patch); err != nil {
		return nil, err
	}
	author, err := s.authors.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entities.AuditEventUpdate, "author", author.ID, "author_update", "Updated author "+author.FullName())
	return author, nil
}

// Publishers

func (s *Service) GetPublisher(ctx context.Context, id uint) (*entities.Publisher, error) {
	return s.publishers.Get(ctx, id)
}

func (s *Service) ListPublishers(ctx context.Context) ([]entities.Publisher, error) {
	return s.publishers.List(ctx)
}

func (s *Service) SearchPublishers(ctx context.Context, query string) ([]entities.Publisher, error) {
	return s.publishers.Search(ctx, query)
}

func (s *Service) CreatePublisher(ctx context.Context, in publishers.Input) (*entities.Publisher, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	publisher, err := s.publishers.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entities.AuditEventCreate, "publisher", publisher.ID, "publisher_create", "Created publisher "+publisher.Name)
	return publisher, nil
}

func (s *Service) UpdatePublisher(ctx context.Context, id uint, patch publishers.Patch) (*entities.Publisher, error) {
	if err := check(patch); err != nil {
		return nil, err
	}
	publisher, err := s.publishers.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entities.AuditEventUpdate, "publisher", publisher.ID, "publisher_update", "Updated publisher "+publisher.Name)
	return publisher, nil
}

// Categories

func (s *Service) GetCategory(ctx context.Context, id uint) (*entities.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]entities.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) SearchCategories(ctx context.Context, query string) ([]entities.Category, error) {
	return s.categories.Search(ctx, query)
}

func (s *Service) CreateCategory(ctx context.Context, in categories.Input) (*entities.Category, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	category, err := s.categories.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entities.AuditEventCreate, "category", category.ID, "category_create", "Created category "+category.Name)
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, patch categories.Patch) (*entities.Category, error) {
	if err := check(patch); err != nil {
		return nil, err
	}
	category, err := s.categories.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, entities.AuditEventUpdate, "category", category.ID, "category_update", "Updated category "+category.Name)
	return category, nil
}

// Books

func (s *Service) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	return s.books.Get(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context) ([]entities.Book, error) {
	return s.books.List(ctx)
}

func (s *Service) SearchBooks(ctx context.Context, query string) ([]entities.Book, error) {
	return s.books.Search(ctx, query)
}

// CreateBook inserts the book and its initial author and category links in
// one transaction. Any failure leaves no trace of the book.
func (s *Service) CreateBook(ctx context.Context, in books.Input) (*entities.Book, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	book, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (*entities.Book, error) {
		book, err := s.books.WithTx(tx).Create(ctx, in)
		if err != nil {
			return nil, err
		}
		reconciler := s.links.WithTx(tx)
		if len(in.AuthorIDs) > 0 {
			if err := reconciler.Replace(ctx, links.Authors, book.ID, in.AuthorIDs); err != nil {
				return nil, err
			}
		}
		if len(in.CategoryIDs) > 0 {
			if err := reconciler.Replace(ctx, links.Categories, book.ID, in.CategoryIDs); err != nil {
				return nil, err
			}
		}
		return book, nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, entities.AuditEventCreate, "book", book.ID, "book_create", fmt.Sprintf("Created book %q", book.Title))
	return book, nil
}

// UpdateBook applies the field patch and, for each id list present in the
// patch, fully replaces the corresponding links. All in one transaction.
func (s *Service) UpdateBook(ctx context.Context, id uint, patch books.Patch) (*entities.Book, error) {
	if err := check(patch); err != nil {
		return nil, err
	}

	book, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (*entities.Book, error) {
		book, err := s.books.WithTx(tx).Update(ctx, id, patch)
		if err != nil {
			return nil, err
		}
		reconciler := s.links.WithTx(tx)
		if patch.AuthorIDs.IsSet() {
			if err := reconciler.Replace(ctx, links.Authors, id, patch.AuthorIDs.Value()); err != nil {
				return nil, err
			}
		}
		if patch.CategoryIDs.IsSet() {
			if err := reconciler.Replace(ctx, links.Categories, id, patch.CategoryIDs.Value()); err != nil {
				return nil, err
			}
		}
		return book, nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, entities.AuditEventUpdate, "book", book.ID, "book_update", fmt.Sprintf("Updated book %q", book.Title))
	return book, nil
}

func (s *Service) AddAuthorsToBook(ctx context.Context, bookID uint, authorIDs []uint) (*AssociationResult, error) {
	return s.addLinks(ctx, links.Authors, bookID, authorIDs, "authorIds")
}

func (s *Service) RemoveAuthorsFromBook(ctx context.Context, bookID uint, authorIDs []uint) (*AssociationResult, error) {
	return s.removeLinks(ctx, links.Authors, bookID, authorIDs, "authorIds")
}

func (s *Service) AddCategoriesToBook(ctx context.Context, bookID uint, categoryIDs []uint) (*AssociationResult, error) {
	return s.addLinks(ctx, links.Categories, bookID, categoryIDs, "categoryIds")
}

func (s *Service) RemoveCategoriesFromBook(ctx context.Context, bookID uint, categoryIDs []uint) (*AssociationResult, error) {
	return s.removeLinks(ctx, links.Categories, bookID, categoryIDs, "categoryIds")
}

func validateIDs(key string, ids []uint) error {
	if err := validation.Validate(ids, validate.PositiveIDs); err != nil {
		return invalid(validation.Errors{key: err})
	}
	return nil
}

func (s *Service) addLinks(ctx context.Context, kind links.Kind, bookID uint, ids []uint, key string) (*AssociationResult, error) {
	if err := validateIDs(key, ids); err != nil {
		return nil, err
	}

	var title string
	added, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (int, error) {
		book, err := s.books.WithTx(tx).Get(ctx, bookID)
		if err != nil {
			return 0, err
		}
		title = book.Title
		return s.links.WithTx(tx).Add(ctx, kind, bookID, ids)
	})
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf(`Added %d %s to book "%s"`, added, kind.Label, title)
	s.record(ctx, entities.AuditEventLink, "book", bookID, "book_add_"+kind.Name, message)
	return &AssociationResult{Success: true, Message: message, AddedCount: &added}, nil
}

// removeLinks reports the number of ids requested, not the number of rows
// actually deleted.
func (s *Service) removeLinks(ctx context.Context, kind links.Kind, bookID uint, ids []uint, key string) (*AssociationResult, error) {
	if err := validateIDs(key, ids); err != nil {
		return nil, err
	}

	var title string
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		book, err := s.books.WithTx(tx).Get(ctx, bookID)
		if err != nil {
			return err
		}
		title = book.Title
		return s.links.WithTx(tx).Remove(ctx, kind, bookID, ids)
	})
	if err != nil {
		return nil, err
	}

	removed := len(ids)
	message := fmt.Sprintf(`Removed %d %s from book "%s"`, removed, kind.Label, title)
	s.record(ctx, entities.AuditEventUnlink, "book", bookID, "book_remove_"+kind.Name, message)
	return &AssociationResult{Success: true, Message: message, RemovedCount: &removed}, nil
}

// BookAuthors returns the link rows of an existing book.
func (s *Service) BookAuthors(ctx context.Context, bookID uint) ([]entities.BookAuthor, error) {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, err
	}
	return s.books.AuthorLinks(ctx, bookID)
}

// BookCategories returns the link rows of an existing book.
func (s *Service) BookCategories(ctx context.Context, bookID uint) ([]entities.BookCategory, error) {
	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, err
	}
	return s.books.CategoryLinks(ctx, bookID)
}

// Relations

func (s *Service) AuthorsOfBook(ctx context.Context, bookID uint) ([]entities.Author, error) {
	return s.authors.ListByBook(ctx, bookID)
}

func (s *Service) CategoriesOfBook(ctx context.Context, bookID uint) ([]entities.Category, error) {
	return s.categories.ListByBook(ctx, bookID)
}

// PublisherOfBook returns nil without error when the book has no publisher.
func (s *Service) PublisherOfBook(ctx context.Context, book *entities.Book) (*entities.Publisher, error) {
	if book.PublisherID == nil {
		return nil, nil
	}
	return s.publishers.Get(ctx, *book.PublisherID)
}

func (s *Service) BooksByAuthor(ctx context.Context, authorID uint) ([]entities.Book, error) {
	return s.books.ListByAuthor(ctx, authorID)
}

func (s *Service) BooksByCategory(ctx context.Context, categoryID uint) ([]entities.Book, error) {
	return s.books.ListByCategory(ctx, categoryID)
}

func (s *Service) BooksByPublisher(ctx context.Context, publisherID uint) ([]entities.Book, error) {
	return s.books.ListByPublisher(ctx, publisherID)
}
