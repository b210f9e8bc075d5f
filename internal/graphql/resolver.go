package graphql

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/authors"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/database/categories"
	"github.com/mrlokans/catalog/internal/database/publishers"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/logger"
)

// CatalogService is the catalog surface the resolvers use.
// *catalog.Service satisfies it.
type CatalogService interface {
	GetBook(ctx context.Context, id uint) (*entities.Book, error)
	ListBooks(ctx context.Context) ([]entities.Book, error)
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)
	CreateBook(ctx context.Context, in books.Input) (*entities.Book, error)
	UpdateBook(ctx context.Context, id uint, patch books.Patch) (*entities.Book, error)

	GetAuthor(ctx context.Context, id uint) (*entities.Author, error)
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	SearchAuthors(ctx context.Context, query string) ([]entities.Author, error)
	CreateAuthor(ctx context.Context, in authors.Input) (*entities.Author, error)
	UpdateAuthor(ctx context.Context, id uint, patch authors.Patch) (*entities.Author, error)

	GetPublisher(ctx context.Context, id uint) (*entities.Publisher, error)
	ListPublishers(ctx context.Context) ([]entities.Publisher, error)
	SearchPublishers(ctx context.Context, query string) ([]entities.Publisher, error)
	CreatePublisher(ctx context.Context, in publishers.Input) (*entities.Publisher, error)
	UpdatePublisher(ctx context.Context, id uint, patch publishers.Patch) (*entities.Publisher, error)

	GetCategory(ctx context.Context, id uint) (*entities.Category, error)
	ListCategories(ctx context.Context) ([]entities.Category, error)
	SearchCategories(ctx context.Context, query string) ([]entities.Category, error)
	CreateCategory(ctx context.Context, in categories.Input) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id uint, patch categories.Patch) (*entities.Category, error)

	AddAuthorsToBook(ctx context.Context, bookID uint, authorIDs []uint) (*catalog.AssociationResult, error)
	RemoveAuthorsFromBook(ctx context.Context, bookID uint, authorIDs []uint) (*catalog.AssociationResult, error)
	AddCategoriesToBook(ctx context.Context, bookID uint, categoryIDs []uint) (*catalog.AssociationResult, error)
	RemoveCategoriesFromBook(ctx context.Context, bookID uint, categoryIDs []uint) (*catalog.AssociationResult, error)

	AuthorsOfBook(ctx context.Context, bookID uint) ([]entities.Author, error)
	CategoriesOfBook(ctx context.Context, bookID uint) ([]entities.Category, error)
	PublisherOfBook(ctx context.Context, book *entities.Book) (*entities.Publisher, error)
	BooksByAuthor(ctx context.Context, authorID uint) ([]entities.Book, error)
	BooksByCategory(ctx context.Context, categoryID uint) ([]entities.Book, error)
	BooksByPublisher(ctx context.Context, publisherID uint) ([]entities.Book, error)
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	catalog CatalogService
	auth    *auth.Service
	logger  zerolog.Logger
}

func NewResolver(catalog CatalogService, authService *auth.Service) *Resolver {
	return &Resolver{
		catalog: catalog,
		auth:    authService,
		logger:  logger.Component("graphql"),
	}
}

func (r *Resolver) fail(err error) error {
	return toError(r.logger, err)
}

// lookup turns a missing row into a null result.
func lookup[T any, R any](r *Resolver, id graphql.ID, get func(uint) (*T, error), wrap func(*T) R) (R, error) {
	var zero R
	uid, err := parseID(id)
	if err != nil {
		return zero, err
	}
	v, err := get(uid)
	if errors.Is(err, database.ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		return zero, r.fail(err)
	}
	return wrap(v), nil
}

type idArgs struct {
	ID graphql.ID
}

type searchArgs struct {
	Query string
}

// --- Queries ---

func (r *Resolver) Books(ctx context.Context) ([]*bookResolver, error) {
	items, err := r.catalog.ListBooks(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapBooks(items), nil
}

func (r *Resolver) Book(ctx context.Context, args idArgs) (*bookResolver, error) {
	return lookup(r, args.ID,
		func(id uint) (*entities.Book, error) { return r.catalog.GetBook(ctx, id) },
		func(b *entities.Book) *bookResolver { return &bookResolver{r: r, book: b} })
}

func (r *Resolver) SearchBooks(ctx context.Context, args searchArgs) ([]*bookResolver, error) {
	items, err := r.catalog.SearchBooks(ctx, args.Query)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapBooks(items), nil
}

func (r *Resolver) Authors(ctx context.Context) ([]*authorResolver, error) {
	items, err := r.catalog.ListAuthors(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapAuthors(items), nil
}

func (r *Resolver) Author(ctx context.Context, args idArgs) (*authorResolver, error) {
	return lookup(r, args.ID,
		func(id uint) (*entities.Author, error) { return r.catalog.GetAuthor(ctx, id) },
		func(a *entities.Author) *authorResolver { return &authorResolver{r: r, author: a} })
}

func (r *Resolver) SearchAuthors(ctx context.Context, args searchArgs) ([]*authorResolver, error) {
	items, err := r.catalog.SearchAuthors(ctx, args.Query)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapAuthors(items), nil
}

func (r *Resolver) Publishers(ctx context.Context) ([]*publisherResolver, error) {
	items, err := r.catalog.ListPublishers(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapPublishers(items), nil
}

func (r *Resolver) Publisher(ctx context.Context, args idArgs) (*publisherResolver, error) {
	return lookup(r, args.ID,
		func(id uint) (*entities.Publisher, error) { return r.catalog.GetPublisher(ctx, id) },
		func(p *entities.Publisher) *publisherResolver { return &publisherResolver{r: r, publisher: p} })
}

func (r *Resolver) SearchPublishers(ctx context.Context, args searchArgs) ([]*publisherResolver, error) {
	items, err := r.catalog.SearchPublishers(ctx, args.Query)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapPublishers(items), nil
}

func (r *Resolver) Categories(ctx context.Context) ([]*categoryResolver, error) {
	items, err := r.catalog.ListCategories(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapCategories(items), nil
}

func (r *Resolver) Category(ctx context.Context, args idArgs) (*categoryResolver, error) {
	return lookup(r, args.ID,
		func(id uint) (*entities.Category, error) { return r.catalog.GetCategory(ctx, id) },
		func(c *entities.Category) *categoryResolver { return &categoryResolver{r: r, category: c} })
}

func (r *Resolver) SearchCategories(ctx context.Context, args searchArgs) ([]*categoryResolver, error) {
	items, err := r.catalog.SearchCategories(ctx, args.Query)
	if err != nil {
		return nil, r.fail(err)
	}
	return r.wrapCategories(items), nil
}

func (r *Resolver) Me(ctx context.Context) *userResolver {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil
	}
	return &userResolver{user: user}
}

func (r *Resolver) Ping(ctx context.Context) (bool, error) {
	if _, err := auth.RequireRole(ctx, entities.RoleAdmin); err != nil {
		return false, r.fail(err)
	}
	return true, nil
}
