package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"

	"github.com/mrlokans/catalog/internal/logger"
)

const (
	// CleanupAuditEventsQueue is the backlite queue name for audit retention.
	CleanupAuditEventsQueue = "cleanup_audit_events"

	defaultAuditRetentionDays = 30
)

var errNoCleaner = errors.New("audit event cleaner not configured")

// AuditEventCleaner deletes audit events older than retention.
type AuditEventCleaner interface {
	DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupAuditEventsTask is one retention run. Zero RetentionDays means
// the 30 day default.
type CleanupAuditEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupAuditEventsTask) retention() (days int, d time.Duration) {
	days = t.RetentionDays
	if days <= 0 {
		days = defaultAuditRetentionDays
	}
	return days, time.Duration(days) * 24 * time.Hour
}

// Config keeps successful runs for a day; payloads survive only for
// failures.
func (CleanupAuditEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupAuditEventsQueue,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

type auditCleanup struct {
	cleaner AuditEventCleaner
	log     zerolog.Logger
}

func (a auditCleanup) run(ctx context.Context, task CleanupAuditEventsTask) error {
	if a.cleaner == nil {
		return errNoCleaner
	}

	days, retention := task.retention()
	started := time.Now()
	deleted, err := a.cleaner.DeleteOldEvents(ctx, retention)
	if err != nil {
		return fmt.Errorf("cleanup audit events older than %d days: %w", days, err)
	}

	a.log.Info().
		Int64("deleted", deleted).
		Int("retention_days", days).
		Dur("took", time.Since(started)).
		Msg("Audit events pruned")
	return nil
}

// CleanupAuditEventsProcessor returns the queue processor deleting events
// through cleaner.
func CleanupAuditEventsProcessor(cleaner AuditEventCleaner) backlite.QueueProcessor[CleanupAuditEventsTask] {
	return auditCleanup{cleaner: cleaner, log: logger.Component("tasks")}.run
}

func NewCleanupAuditEventsQueue(cleaner AuditEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupAuditEventsProcessor(cleaner))
}

// EnqueueAuditCleanup adds one retention run and returns its task id.
func (c *Client) EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error) {
	ids, err := c.Add(CleanupAuditEventsTask{RetentionDays: retentionDays}).Ctx(ctx).Save()
	switch {
	case err != nil:
		return "", fmt.Errorf("enqueue audit cleanup: %w", err)
	case len(ids) == 0:
		return "", nil
	}
	return ids[0], nil
}
