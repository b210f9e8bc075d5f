// Package books provides database operations for catalog books.
//
// Links to authors and categories are maintained by the links package; this
// repository only reads them back.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Get(ctx, 123)
//	byAuthor, err := repo.ListByAuthor(ctx, authorID)
package books

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/optional"
	"github.com/mrlokans/catalog/internal/utils"
	"github.com/mrlokans/catalog/internal/validate"
)

const entityName = "Book"

// Input holds the fields accepted when creating a book. AuthorIDs and
// CategoryIDs, when non-empty, become the book's initial links.
type Input struct {
	Title           string  `json:"title"`
	ISBN            *string `json:"isbn"`
	PublicationDate *string `json:"publicationDate"`
	Price           *Price  `json:"price"`
	Description     *string `json:"description"`
	PageCount       *int    `json:"pageCount"`
	Language        *string `json:"language"`
	PublisherID     *uint   `json:"publisherId"`
	AuthorIDs       []uint  `json:"authorIds"`
	CategoryIDs     []uint  `json:"categoryIds"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.ISBN, validation.Length(10, 13)),
		validation.Field(&in.PublicationDate, validate.Date),
		validation.Field(&in.Price, validate.Money),
		validation.Field(&in.PageCount, validation.Min(0)),
		validation.Field(&in.Language, validation.Length(0, 50)),
		validation.Field(&in.AuthorIDs, validate.PositiveIDs),
		validation.Field(&in.CategoryIDs, validate.PositiveIDs),
	)
}

// Patch is a partial update. A present AuthorIDs or CategoryIDs list
// replaces the book's links wholesale; null is treated as an empty list.
type Patch struct {
	Title           optional.Field[string] `json:"title"`
	ISBN            optional.Field[string] `json:"isbn"`
	PublicationDate optional.Field[string] `json:"publicationDate"`
	Price           optional.Field[Price]  `json:"price"`
	Description     optional.Field[string] `json:"description"`
	PageCount       optional.Field[int]    `json:"pageCount"`
	Language        optional.Field[string] `json:"language"`
	PublisherID     optional.Field[uint]   `json:"publisherId"`
	AuthorIDs       optional.Field[[]uint] `json:"authorIds"`
	CategoryIDs     optional.Field[[]uint] `json:"categoryIds"`
}

func (p Patch) Validate() error {
	errs := validation.Errors{}
	validate.Present(errs, "title", p.Title, validation.Length(1, 255))
	validate.Optional(errs, "isbn", p.ISBN, validation.Length(10, 13))
	validate.Optional(errs, "publicationDate", p.PublicationDate, validate.Date)
	validate.Optional(errs, "price", p.Price, validate.Money)
	validate.Optional(errs, "pageCount", p.PageCount, validation.Min(0))
	validate.Optional(errs, "language", p.Language, validation.Length(0, 50))
	validate.Optional(errs, "authorIds", p.AuthorIDs, validate.PositiveIDs)
	validate.Optional(errs, "categoryIds", p.CategoryIDs, validate.PositiveIDs)
	return errs.Filter()
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get retrieves a book by ID.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NotFound(entityName, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}
	return &book, nil
}

// List returns every book.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("id").Find(&books).Error
	return books, err
}

// Search matches the query against title, ISBN and description (case-insensitive).
func (r *Repository) Search(ctx context.Context, query string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := database.ContainsPattern(query)
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(isbn) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Limit(database.SearchLimit).
		Find(&books).Error
	return books, err
}

// ListByAuthor returns the books linked to an author.
func (r *Repository) ListByAuthor(ctx context.Context, authorID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN book_authors ON book_authors.book_id = books.id").
		Where("book_authors.author_id = ?", authorID).
		Order("books.id").
		Find(&books).Error
	return books, err
}

// ListByCategory returns the books linked to a category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN book_categories ON book_categories.book_id = books.id").
		Where("book_categories.category_id = ?", categoryID).
		Order("books.id").
		Find(&books).Error
	return books, err
}

func (r *Repository) ListByPublisher(ctx context.Context, publisherID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Where("publisher_id = ?", publisherID).
		Order("id").
		Find(&books).Error
	return books, err
}

// AuthorLinks returns the raw book_authors rows of a book.
func (r *Repository) AuthorLinks(ctx context.Context, bookID uint) ([]entities.BookAuthor, error) {
	var links []entities.BookAuthor
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("author_id").Find(&links).Error
	return links, err
}

// CategoryLinks returns the raw book_categories rows of a book.
func (r *Repository) CategoryLinks(ctx context.Context, bookID uint) ([]entities.BookCategory, error) {
	var links []entities.BookCategory
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("category_id").Find(&links).Error
	return links, err
}

// Create inserts the book row only. Author and category ids on the input
// are ignored here.
func (r *Repository) Create(ctx context.Context, in Input) (*entities.Book, error) {
	publicationDate, err := utils.ParseOptionalDate(in.PublicationDate)
	if err != nil {
		return nil, err
	}

	price, err := priceColumn(in.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	book := &entities.Book{
		Title:           in.Title,
		ISBN:            utils.EmptyToNil(in.ISBN),
		PublicationDate: publicationDate,
		Price:           price,
		Description:     utils.EmptyToNil(in.Description),
		PageCount:       nonZero(in.PageCount),
		Language:        utils.EmptyToNil(in.Language),
		PublisherID:     nonZero(in.PublisherID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", database.Translate(err))
	}
	return book, nil
}

// Update applies the field part of a patch and returns the stored row.
// Empty strings (price included) and zero counts or ids clear the column. Link lists are
// ignored here.
func (r *Repository) Update(ctx context.Context, id uint, patch Patch) (*entities.Book, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Title.IsSet() {
		updates["title"] = patch.Title.Value()
	}
	if patch.ISBN.IsSet() {
		updates["isbn"] = utils.NullIfEmpty(patch.ISBN.Ptr())
	}
	if patch.PublicationDate.IsSet() {
		publicationDate, err := utils.ParseOptionalDate(patch.PublicationDate.Ptr())
		if err != nil {
			return nil, err
		}
		updates["publication_date"] = utils.NullableTime(publicationDate)
	}
	if patch.Price.IsSet() {
		price, err := priceColumn(patch.Price.Ptr())
		if err != nil {
			return nil, err
		}
		updates["price"] = price
	}
	if patch.Description.IsSet() {
		updates["description"] = utils.NullIfEmpty(patch.Description.Ptr())
	}
	if patch.PageCount.IsSet() {
		updates["page_count"] = nullIfZero(patch.PageCount.Ptr())
	}
	if patch.Language.IsSet() {
		updates["language"] = utils.NullIfEmpty(patch.Language.Ptr())
	}
	if patch.PublisherID.IsSet() {
		updates["publisher_id"] = nullIfZero(patch.PublisherID.Ptr())
	}

	err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update book %d: %w", id, database.Translate(err))
	}
	return r.Get(ctx, id)
}

func nonZero[T comparable](v *T) *T {
	var zero T
	if v == nil || *v == zero {
		return nil
	}
	return v
}

func nullIfZero[T comparable](v *T) interface{} {
	if p := nonZero(v); p != nil {
		return *p
	}
	return nil
}
