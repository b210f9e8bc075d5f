// Package categories provides database operations for book categories.
//
// # Usage
//
//	repo := categories.NewRepository(db)
//	category, err := repo.Create(ctx, categories.Input{Name: "Fiction"})
//	forBook, err := repo.ListByBook(ctx, bookID)
package categories

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

const entityName = "Category"

type Input struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
	)
}

type Patch struct {
	Name        optional.Field[string] `json:"name"`
	Description optional.Field[string] `json:"description"`
}

func (p Patch) Validate() error {
	errs := validation.Errors{}
	validate.Present(errs, "name", p.Name, validation.Length(1, 100))
	return errs.Filter()
}

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get retrieves a category by ID.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NotFound(entityName, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return &category, nil
}

// List returns every category.
func (r *Repository) List(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

// Search finds categories whose name contains the query (case-insensitive).
func (r *Repository) Search(ctx context.Context, query string) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", database.ContainsPattern(query)).
		Limit(database.SearchLimit).
		Find(&categories).Error
	return categories, err
}

// ListByBook returns the categories linked to a book.
func (r *Repository) ListByBook(ctx context.Context, bookID uint) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN book_categories ON book_categories.category_id = categories.id").
		Where("book_categories.book_id = ?", bookID).
		Order("categories.id").
		Find(&categories).Error
	return categories, err
}

// Create inserts a category. A duplicate name yields database.ErrConflict.
func (r *Repository) Create(ctx context.Context, in Input) (*entities.Category, error) {
	now := time.Now()
	category := &entities.Category{
		Name:        in.Name,
		Description: utils.EmptyToNil(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", database.Translate(err))
	}
	return category, nil
}

// Update applies a partial update and returns the stored row.
func (r *Repository) Update(ctx context.Context, id uint, patch Patch) (*entities.Category, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Name.IsSet() {
		updates["name"] = patch.Name.Value()
	}
	if patch.Description.IsSet() {
		updates["description"] = utils.NullIfEmpty(patch.Description.Ptr())
	}

	err := r.db.WithContext(ctx).Model(&entities.Category{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", id, database.Translate(err))
	}
	return r.Get(ctx, id)
}
