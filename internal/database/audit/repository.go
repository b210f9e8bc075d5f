package audit

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

const defaultLimit = 50

// Filter narrows an event listing. Zero values match everything.
type Filter struct {
	UserID     uint
	EventType  entities.AuditEventType
	EntityType string
	EntityID   uint
	Limit      int
	Offset     int
}

// where applies the non-zero filter fields.
func (f Filter) where(db *gorm.DB) *gorm.DB {
	if f.UserID > 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.EventType != "" {
		db = db.Where("event_type = ?", f.EventType)
	}
	if f.EntityType != "" {
		db = db.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	return db
}

func (f Filter) page(db *gorm.DB) *gorm.DB {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return db.Limit(limit).Offset(max(f.Offset, 0))
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent inserts event, stamping CreatedAt when unset.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEvents returns one page of matching events, newest first, and the
// number of matches across all pages.
func (r *Repository) GetEvents(ctx context.Context, f Filter) ([]entities.AuditEvent, int64, error) {
	base := f.where(r.db.WithContext(ctx).Model(&entities.AuditEvent{}))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []entities.AuditEvent
	err := f.page(base.Order("created_at DESC, id DESC")).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents deletes events created before olderThan and reports
// how many went.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}

// GetEventByID returns database.ErrNotFound for an unknown id.
func (r *Repository) GetEventByID(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	var event entities.AuditEvent
	err := r.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NotFound("Audit event", id)
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}
