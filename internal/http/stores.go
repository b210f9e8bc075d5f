package http

import (
	"context"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/categories"
	"github.com/mrlokans/catalog/internal/database/publishers"
	"github.com/mrlokans/catalog/internal/entities"
)

// Each controller depends only on the operations it serves. *catalog.Service
// satisfies all of them.

type AuthorStore interface {
	GetAuthor(ctx context.Context, id uint) (*entities.Author, error)
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	SearchAuthors(ctx context.Context, query string) ([]entities.Author, error)
	CreateAuthor(ctx context.Context, in authors.Input) (*entities.Author, error)
	UpdateAuthor(ctx context.Context, id uint, patch authors.Patch) (*entities.Author, error)
}

type PublisherStore interface {
	GetPublisher(ctx context.Context, id uint) (*entities.Publisher, error)
	ListPublishers(ctx context.Context) ([]entities.Publisher, error)
	SearchPublishers(ctx context.Context, query string) ([]entities.Publisher, error)
	CreatePublisher(ctx context.Context, in publishers.Input) (*entities.Publisher, error)
	UpdatePublisher(ctx context.Context, id uint, patch publishers.Patch) (*entities.Publisher, error)
}

type CategoryStore interface {
	GetCategory(ctx context.Context, id uint) (*entities.Category, error)
	ListCategories(ctx context.Context) ([]entities.Category, error)
	SearchCategories(ctx context.Context, query string) ([]entities.Category, error)
	CreateCategory(ctx context.Context, in categories.Input) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id uint, patch categories.Patch) (*entities.Category, error)
}

type BookStore interface {
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	ListBooks(ctx context.Context) ([]entities.Book, error)
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)
	CreateBook(ctx context.Context, in books.Input) (*entities.Book, error)
	UpdateBook(ctx context.Context, id uint, patch books.Patch) (*entities.Book, error)

	BookAuthors(ctx context.Context, bookID uint) ([]entities.BookAuthor, error)
	BookCategories(ctx context.Context, bookID uint) ([]entities.BookCategory, error)
	AddAuthorsToBook(ctx context.Context, bookID uint, authorIDs []uint) (*catalog.AssociationResult, error)
	RemoveAuthorsFromBook(ctx context.Context, bookID uint, authorIDs []uint) (*catalog.AssociationResult, error)
	AddCategoriesToBook(ctx context.Context, bookID uint, categoryIDs []uint) (*catalog.AssociationResult, error)
	RemoveCategoriesFromBook(ctx context.Context, bookID uint, categoryIDs []uint) (*catalog.AssociationResult, error)
}

type AuditReader interface {
	GetEvents(ctx context.Context, filter audit.Filter) ([]entities.AuditEvent, int64, error)
	GetEvent(ctx context.Context, id uint) (*entities.AuditEvent, error)
}
