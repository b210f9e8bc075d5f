// Package publishers provides database operations for publishers.
//
// # Usage
//
//	repo := publishers.NewRepository(db)
//	publisher, err := repo.Get(ctx, id)
package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/optional"
	"github.com/mrlokans/catalog/internal/utils"
	"github.com/mrlokans/catalog/internal/validate"
)

const entityName = "Publisher"

type Input struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Website *string `json:"website"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.City, validation.Length(0, 100)),
		validation.Field(&in.Country, validation.Length(0, 100)),
		validation.Field(&in.Website, validation.Length(0, 255), is.URL),
	)
}

type Patch struct {
	Name    optional.Field[string] `json:"name"`
	Address optional.Field[string] `json:"address"`
	City    optional.Field[string] `json:"city"`
	Country optional.Field[string] `json:"country"`
	Website optional.Field[string] `json:"website"`
}

func (p Patch) Validate() error {
	errs := validation.Errors{}
	validate.Present(errs, "name", p.Name, validation.Length(1, 255))
	validate.Optional(errs, "city", p.City, validation.Length(0, 100))
	validate.Optional(errs, "country", p.Country, validation.Length(0, 100))
	validate.Optional(errs, "website", p.Website, validation.Length(0, 255), is.URL)
	return errs.Filter()
}

// Repository handles all publisher database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new publishers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get retrieves a publisher by ID.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.Publisher, error) {
	var publisher entities.Publisher
	err := r.db.WithContext(ctx).First(&publisher, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NotFound(entityName, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher %d: %w", id, err)
	}
	return &publisher, nil
}

func (r *Repository) List(ctx context.Context) ([]entities.Publisher, error) {
	var publishers []entities.Publisher
	err := r.db.WithContext(ctx).Order("id").Find(&publishers).Error
	return publishers, err
}

// Search finds publishers whose name contains the query (case-insensitive).
func (r *Repository) Search(ctx context.Context, query string) ([]entities.Publisher, error) {
	var publishers []entities.Publisher
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", database.ContainsPattern(query)).
		Limit(database.SearchLimit).
		Find(&publishers).Error
	return publishers, err
}

func (r *Repository) Create(ctx context.Context, in Input) (*entities.Publisher, error) {
	now := time.Now()
	publisher := &entities.Publisher{
		Name:      in.Name,
		Address:   utils.EmptyToNil(in.Address),
		City:      utils.EmptyToNil(in.City),
		Country:   utils.EmptyToNil(in.Country),
		Website:   utils.EmptyToNil(in.Website),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.db.WithContext(ctx).Create(publisher).Error; err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", database.Translate(err))
	}
	return publisher, nil
}

func (r *Repository) Update(ctx context.Context, id uint, patch Patch) (*entities.Publisher, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Name.IsSet() {
		updates["name"] = patch.Name.Value()
	}
	for column, field := range map[string]optional.Field[string]{
		"address": patch.Address,
		"city":    patch.City,
		"country": patch.Country,
		"website": patch.Website,
	} {
		if field.IsSet() {
			updates[column] = utils.NullIfEmpty(field.Ptr())
		}
	}

	err := r.db.WithContext(ctx).Model(&entities.Publisher{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update publisher %d: %w", id, database.Translate(err))
	}
	return r.Get(ctx, id)
}
