package graphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
)

// --- Books ---

func (r *Resolver) CreateBook(ctx context.Context, args struct{ Input createBookInput }) (*bookResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	in, err := args.Input.toInput()
	if err != nil {
		return nil, err
	}
	book, err := r.catalog.CreateBook(ctx, in)
	if err != nil {
		return nil, r.fail(err)
	}
	return &bookResolver{r: r, book: book}, nil
}

func (r *Resolver) UpdateBook(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateBookInput
}) (*bookResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	patch, err := args.Input.toPatch()
	if err != nil {
		return nil, err
	}
	book, err := r.catalog.UpdateBook(ctx, id, patch)
	if err != nil {
		return nil, r.fail(err)
	}
	return &bookResolver{r: r, book: book}, nil
}

// --- Book associations ---

type authorLinkArgs struct {
	BookID    graphql.ID
	AuthorIDs []int32
}

type categoryLinkArgs struct {
	BookID      graphql.ID
	CategoryIDs []int32
}

type linkFunc func(ctx context.Context, bookID uint, ids []uint) (*catalog.AssociationResult, error)

func (r *Resolver) link(ctx context.Context, fn linkFunc, bookID graphql.ID, field string, rawIDs []int32) (*associationResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	id, err := parseID(bookID)
	if err != nil {
		return nil, err
	}
	ids, err := parseIDs(field, rawIDs)
	if err != nil {
		return nil, err
	}
	result, err := fn(ctx, id, ids)
	if err != nil {
		return nil, r.fail(err)
	}
	return &associationResolver{result: result}, nil
}

func (r *Resolver) AddAuthorsToBook(ctx context.Context, args authorLinkArgs) (*associationResolver, error) {
	return r.link(ctx, r.catalog.AddAuthorsToBook, args.BookID, "authorIds", args.AuthorIDs)
}

func (r *Resolver) RemoveAuthorsFromBook(ctx context.Context, args authorLinkArgs) (*associationResolver, error) {
	return r.link(ctx, r.catalog.RemoveAuthorsFromBook, args.BookID, "authorIds", args.AuthorIDs)
}

func (r *Resolver) AddCategoriesToBook(ctx context.Context, args categoryLinkArgs) (*associationResolver, error) {
	return r.link(ctx, r.catalog.AddCategoriesToBook, args.BookID, "categoryIds", args.CategoryIDs)
}

func (r *Resolver) RemoveCategoriesFromBook(ctx context.Context, args categoryLinkArgs) (*associationResolver, error) {
	return r.link(ctx, r.catalog.RemoveCategoriesFromBook, args.BookID, "categoryIds", args.CategoryIDs)
}

// --- Authors ---

func (r *Resolver) CreateAuthor(ctx context.Context, args struct{ Input createAuthorInput }) (*authorResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	author, err := r.catalog.CreateAuthor(ctx, args.Input.toInput())
	if err != nil {
		return nil, r.fail(err)
	}
	return &authorResolver{r: r, author: author}, nil
}

func (r *Resolver) UpdateAuthor(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateAuthorInput
}) (*authorResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	author, err := r.catalog.UpdateAuthor(ctx, id, args.Input.toPatch())
	if err != nil {
		return nil, r.fail(err)
	}
	return &authorResolver{r: r, author: author}, nil
}

// --- Publishers ---

func (r *Resolver) CreatePublisher(ctx context.Context, args struct{ Input createPublisherInput }) (*publisherResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	publisher, err := r.catalog.CreatePublisher(ctx, args.Input.toInput())
	if err != nil {
		return nil, r.fail(err)
	}
	return &publisherResolver{r: r, publisher: publisher}, nil
}

func (r *Resolver) UpdatePublisher(ctx context.Context, args struct {
	ID    graphql.ID
	Input updatePublisherInput
}) (*publisherResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	publisher, err := r.catalog.UpdatePublisher(ctx, id, args.Input.toPatch())
	if err != nil {
		return nil, r.fail(err)
	}
	return &publisherResolver{r: r, publisher: publisher}, nil
}

// --- Categories ---

func (r *Resolver) CreateCategory(ctx context.Context, args struct{ Input createCategoryInput }) (*categoryResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	category, err := r.catalog.CreateCategory(ctx, args.Input.toInput())
	if err != nil {
		return nil, r.fail(err)
	}
	return &categoryResolver{r: r, category: category}, nil
}

func (r *Resolver) UpdateCategory(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateCategoryInput
}) (*categoryResolver, error) {
	if err := r.auth.AuthorizeWrite(ctx); err != nil {
		return nil, r.fail(err)
	}
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	category, err := r.catalog.UpdateCategory(ctx, id, args.Input.toPatch())
	if err != nil {
		return nil, r.fail(err)
	}
	return &categoryResolver{r: r, category: category}, nil
}

// --- Session ---

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*userResolver, error) {
	session, err := r.auth.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, r.fail(err)
	}
	if w := responseWriterFrom(ctx); w != nil {
		auth.SetAuthCookie(w, session.Token, r.auth.TokenExpiry(), r.auth.SecureCookies())
	}
	return &userResolver{user: session.User}, nil
}

func (r *Resolver) Logout(ctx context.Context) bool {
	r.auth.Logout(ctx)
	if w := responseWriterFrom(ctx); w != nil {
		auth.ClearAuthCookie(w, r.auth.SecureCookies())
	}
	return true
}
