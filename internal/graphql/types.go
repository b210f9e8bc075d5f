package graphql

import (
	"context"
	"strconv"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/entities"
)

const dateLayout = "2006-01-02"

func toID(id uint) graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(id), 10))
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func date(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}

// --- Book ---

type bookResolver struct {
	r    *Resolver
	book *entities.Book
}

func (r *Resolver) wrapBooks(items []entities.Book) []*bookResolver {
	out := make([]*bookResolver, len(items))
	for i := range items {
		out[i] = &bookResolver{r: r, book: &items[i]}
	}
	return out
}

func (b *bookResolver) ID() graphql.ID           { return toID(b.book.ID) }
func (b *bookResolver) Title() string            { return b.book.Title }
func (b *bookResolver) ISBN() *string            { return b.book.ISBN }
func (b *bookResolver) PublicationDate() *string { return date(b.book.PublicationDate) }
func (b *bookResolver) Description() *string     { return b.book.Description }
func (b *bookResolver) PageCount() *int32        { return int32Ptr(b.book.PageCount) }
func (b *bookResolver) Language() *string        { return b.book.Language }
func (b *bookResolver) CreatedAt() string        { return timestamp(b.book.CreatedAt) }
func (b *bookResolver) UpdatedAt() string        { return timestamp(b.book.UpdatedAt) }

func (b *bookResolver) Price() *string { return b.book.PriceText() }

func (b *bookResolver) PublisherID() *int32 {
	if b.book.PublisherID == nil {
		return nil
	}
	id := int32(*b.book.PublisherID)
	return &id
}

func (b *bookResolver) Publisher(ctx context.Context) (*publisherResolver, error) {
	p, err := b.r.catalog.PublisherOfBook(ctx, b.book)
	if err != nil {
		return nil, b.r.fail(err)
	}
	if p == nil {
		return nil, nil
	}
	return &publisherResolver{r: b.r, publisher: p}, nil
}

func (b *bookResolver) Authors(ctx context.Context) ([]*authorResolver, error) {
	items, err := b.r.catalog.AuthorsOfBook(ctx, b.book.ID)
	if err != nil {
		return nil, b.r.fail(err)
	}
	return b.r.wrapAuthors(items), nil
}

func (b *bookResolver) Categories(ctx context.Context) ([]*categoryResolver, error) {
	items, err := b.r.catalog.CategoriesOfBook(ctx, b.book.ID)
	if err != nil {
		return nil, b.r.fail(err)
	}
	return b.r.wrapCategories(items), nil
}

// --- Author ---

type authorResolver struct {
	r      *Resolver
	author *entities.Author
}

func (r *Resolver) wrapAuthors(items []entities.Author) []*authorResolver {
	out := make([]*authorResolver, len(items))
	for i := range items {
		out[i] = &authorResolver{r: r, author: &items[i]}
	}
	return out
}

func (a *authorResolver) ID() graphql.ID       { return toID(a.author.ID) }
func (a *authorResolver) FirstName() string    { return a.author.FirstName }
func (a *authorResolver) LastName() string     { return a.author.LastName }
func (a *authorResolver) BirthDate() *string   { return date(a.author.BirthDate) }
func (a *authorResolver) Biography() *string   { return a.author.Biography }
func (a *authorResolver) Nationality() *string { return a.author.Nationality }
func (a *authorResolver) CreatedAt() string    { return timestamp(a.author.CreatedAt) }
func (a *authorResolver) UpdatedAt() string    { return timestamp(a.author.UpdatedAt) }

func (a *authorResolver) Books(ctx context.Context) ([]*bookResolver, error) {
	items, err := a.r.catalog.BooksByAuthor(ctx, a.author.ID)
	if err != nil {
		return nil, a.r.fail(err)
	}
	return a.r.wrapBooks(items), nil
}

// --- Publisher ---

type publisherResolver struct {
	r         *Resolver
	publisher *entities.Publisher
}

func (r *Resolver) wrapPublishers(items []entities.Publisher) []*publisherResolver {
	out := make([]*publisherResolver, len(items))
	for i := range items {
		out[i] = &publisherResolver{r: r, publisher: &items[i]}
	}
	return out
}

func (p *publisherResolver) ID() graphql.ID    { return toID(p.publisher.ID) }
func (p *publisherResolver) Name() string      { return p.publisher.Name }
func (p *publisherResolver) Address() *string  { return p.publisher.Address }
func (p *publisherResolver) City() *string     { return p.publisher.City }
func (p *publisherResolver) Country() *string  { return p.publisher.Country }
func (p *publisherResolver) Website() *string  { return p.publisher.Website }
func (p *publisherResolver) CreatedAt() string { return timestamp(p.publisher.CreatedAt) }
func (p *publisherResolver) UpdatedAt() string { return timestamp(p.publisher.UpdatedAt) }

func (p *publisherResolver) Books(ctx context.Context) ([]*bookResolver, error) {
	items, err := p.r.catalog.BooksByPublisher(ctx, p.publisher.ID)
	if err != nil {
		return nil, p.r.fail(err)
	}
	return p.r.wrapBooks(items), nil
}

// --- Category ---

type categoryResolver struct {
	r        *Resolver
	category *entities.Category
}

func (r *Resolver) wrapCategories(items []entities.Category) []*categoryResolver {
	out := make([]*categoryResolver, len(items))
	for i := range items {
		out[i] = &categoryResolver{r: r, category: &items[i]}
	}
	return out
}

func (c *categoryResolver) ID() graphql.ID       { return toID(c.category.ID) }
func (c *categoryResolver) Name() string         { return c.category.Name }
func (c *categoryResolver) Description() *string { return c.category.Description }
func (c *categoryResolver) CreatedAt() string    { return timestamp(c.category.CreatedAt) }
func (c *categoryResolver) UpdatedAt() string    { return timestamp(c.category.UpdatedAt) }

func (c *categoryResolver) Books(ctx context.Context) ([]*bookResolver, error) {
	items, err := c.r.catalog.BooksByCategory(ctx, c.category.ID)
	if err != nil {
		return nil, c.r.fail(err)
	}
	return c.r.wrapBooks(items), nil
}

// --- User ---

type userResolver struct {
	user *entities.User
}

func (u *userResolver) ID() graphql.ID    { return toID(u.user.ID) }
func (u *userResolver) Email() string     { return u.user.Email }
func (u *userResolver) Name() string      { return u.user.Name }
func (u *userResolver) Role() string      { return string(u.user.Role) }
func (u *userResolver) CreatedAt() string { return timestamp(u.user.CreatedAt) }
func (u *userResolver) UpdatedAt() string { return timestamp(u.user.UpdatedAt) }

// --- BookAuthorResult ---

type associationResolver struct {
	result *catalog.AssociationResult
}

func (a *associationResolver) Success() bool   { return a.result.Success }
func (a *associationResolver) Message() string { return a.result.Message }
func (a *associationResolver) AddedCount() *int32 {
	return int32Ptr(a.result.AddedCount)
}
func (a *associationResolver) RemovedCount() *int32 {
	return int32Ptr(a.result.RemovedCount)
}
