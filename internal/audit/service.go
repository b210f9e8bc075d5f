// Package audit records who changed what in the catalog.
//
// The service implements catalog.Recorder; every successful mutation is
// persisted in the background so recording never fails or slows down the
// request that caused it.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/logger"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo   *audit.Repository
	logger zerolog.Logger
	wg     sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{
		repo:   repo,
		logger: logger.Component("audit"),
	}
}

// Log records an audit event synchronously.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			s.logger.Error().Err(err).Str("action", event.Action).Msg("failed to log audit event")
		}
	}()
}

// Wait blocks until every pending LogAsync call has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// RecordChange stores a catalog mutation, attributing it to the user and
// client found in ctx.
func (s *Service) RecordChange(ctx context.Context, change catalog.Change) {
	event := &entities.AuditEvent{
		EventType:   change.EventType,
		Action:      change.Action,
		Description: truncate(change.Description, 500),
		EntityType:  change.EntityType,
		Status:      entities.AuditStatusSuccess,
	}
	if change.EntityID != 0 {
		id := change.EntityID
		event.EntityID = &id
	}
	if user := auth.UserFromContext(ctx); user != nil {
		event.UserID = user.ID
	}
	client := auth.ClientFromContext(ctx)
	event.IPAddress = client.IP
	event.UserAgent = truncate(client.UserAgent, 500)

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(ctx context.Context, userID uint, action, email string, success bool) {
	client := auth.ClientFromContext(ctx)
	event := &entities.AuditEvent{
		UserID:     userID,
		EventType:  entities.AuditEventAuth,
		Action:     action,
		EntityType: "user",
		IPAddress:  client.IP,
		UserAgent:  truncate(client.UserAgent, 500),
		Status:     entities.AuditStatusSuccess,
	}
	if userID != 0 {
		id := userID
		event.EntityID = &id
	}
	if email != "" {
		if md, err := json.Marshal(map[string]string{"email": email}); err == nil {
			event.Metadata = string(md)
		}
	}
	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, filter audit.Filter) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, filter)
}

// GetEvent retrieves one audit event.
func (s *Service) GetEvent(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	return s.repo.GetEventByID(ctx, id)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
