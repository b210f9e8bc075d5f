// Package authors provides database operations for catalog authors.
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.Create(ctx, authors.Input{FirstName: "Ursula", LastName: "Le Guin"})
//	matches, err := repo.Search(ctx, "guin")
package authors

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

const entityName = "Author"

// Input holds the fields accepted when creating an author.
type Input struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	BirthDate   *string `json:"birthDate"`
	Biography   *string `json:"biography"`
	Nationality *string `json:"nationality"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.BirthDate, validate.Date),
		validation.Field(&in.Nationality, validation.Length(0, 100)),
	)
}

// Patch is a partial update. Absent fields are left untouched; present
// optional fields that are null or empty are cleared.
type Patch struct {
	FirstName   optional.Field[string] `json:"firstName"`
	LastName    optional.Field[string] `json:"lastName"`
	BirthDate   optional.Field[string] `json:"birthDate"`
	Biography   optional.Field[string] `json:"biography"`
	Nationality optional.Field[string] `json:"nationality"`
}

func (p Patch) Validate() error {
	errs := validation.Errors{}
	validate.Present(errs, "firstName", p.FirstName, validation.Length(1, 100))
	validate.Present(errs, "lastName", p.LastName, validation.Length(1, 100))
	validate.Optional(errs, "birthDate", p.BirthDate, validate.Date)
	validate.Optional(errs, "nationality", p.Nationality, validation.Length(0, 100))
	return errs.Filter()
}

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get retrieves an author by ID.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).First(&author, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NotFound(entityName, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author %d: %w", id, err)
	}
	return &author, nil
}

// List returns every author.
func (r *Repository) List(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.WithContext(ctx).Order("id").Find(&authors).Error
	return authors, err
}

// Search finds authors whose first or last name contains the query (case-insensitive).
func (r *Repository) Search(ctx context.Context, query string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := database.ContainsPattern(query)
	err := r.db.WithContext(ctx).
		Where("LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)", pattern, pattern).
		Limit(database.SearchLimit).
		Find(&authors).Error
	return authors, err
}

// ListByBook returns the authors linked to a book.
func (r *Repository) ListByBook(ctx context.Context, bookID uint) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.WithContext(ctx).
		Joins("JOIN book_authors ON book_authors.author_id = authors.id").
		Where("book_authors.book_id = ?", bookID).
		Order("authors.id").
		Find(&authors).Error
	return authors, err
}

// Create inserts a new author with both timestamps set to now.
func (r *Repository) Create(ctx context.Context, in Input) (*entities.Author, error) {
	birthDate, err := utils.ParseOptionalDate(in.BirthDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	author := &entities.Author{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		BirthDate:   birthDate,
		Biography:   utils.EmptyToNil(in.Biography),
		Nationality: utils.EmptyToNil(in.Nationality),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.WithContext(ctx).Create(author).Error; err != nil {
		return nil, fmt.Errorf("failed to create author: %w", database.Translate(err))
	}
	return author, nil
}

// Update applies a partial update and returns the stored row.
func (r *Repository) Update(ctx context.Context, id uint, patch Patch) (*entities.Author, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.FirstName.IsSet() {
		updates["first_name"] = patch.FirstName.Value()
	}
	if patch.LastName.IsSet() {
		updates["last_name"] = patch.LastName.Value()
	}
	if patch.BirthDate.IsSet() {
		birthDate, err := utils.ParseOptionalDate(patch.BirthDate.Ptr())
		if err != nil {
			return nil, err
		}
		updates["birth_date"] = utils.NullableTime(birthDate)
	}
	if patch.Biography.IsSet() {
		updates["biography"] = utils.NullIfEmpty(patch.Biography.Ptr())
	}
	if patch.Nationality.IsSet() {
		updates["nationality"] = utils.NullIfEmpty(patch.Nationality.Ptr())
	}

	err := r.db.WithContext(ctx).Model(&entities.Author{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update author %d: %w", id, database.Translate(err))
	}
	return r.Get(ctx, id)
}
