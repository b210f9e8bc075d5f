package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/config"
)

func newTestClient(t *testing.T, queues ...backlite.Queue) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "tasks.db")
	cfg.Workers = 1

	client, err := NewClient(cfg, queues...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("creates queue database", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DatabasePath = filepath.Join(t.TempDir(), "catalog-tasks.db")

		client, err := NewClient(cfg)
		require.NoError(t, err)

		_, err = os.Stat(cfg.DatabasePath)
		assert.NoError(t, err)
		assert.NoError(t, client.Shutdown(context.Background()))
	})

	t.Run("requires path", func(t *testing.T) {
		_, err := NewClient(Config{Workers: 1})
		assert.Error(t, err)
	})
}

func TestClientShutdown(t *testing.T) {
	t.Run("after start", func(t *testing.T) {
		client := newTestClient(t)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client.Start(ctx)
		client.Start(ctx)

		time.Sleep(50 * time.Millisecond)

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		assert.NoError(t, client.Shutdown(stopCtx))
	})

	t.Run("never started", func(t *testing.T) {
		client := newTestClient(t)
		assert.NoError(t, client.Shutdown(context.Background()))
	})
}

type echoTask struct {
	Value string `json:"value"`
}

func (echoTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "echo",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestClientRunsQueuedTask(t *testing.T) {
	executed := make(chan string, 1)
	queue := backlite.NewQueue(func(_ context.Context, task echoTask) error {
		executed <- task.Value
		return nil
	})
	client := newTestClient(t, queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = client.Shutdown(stopCtx)
	})

	ids, err := client.Add(echoTask{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestEnqueueAuditCleanup(t *testing.T) {
	client := newTestClient(t, NewCleanupAuditEventsQueue(&fakeCleaner{}))
	defer client.Shutdown(context.Background())

	id, err := client.EnqueueAuditCleanup(context.Background(), 14)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestConfigFrom(t *testing.T) {
	t.Run("zero values keep defaults", func(t *testing.T) {
		cfg := ConfigFrom(config.Tasks{})
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, config.DefaultTasksDatabasePath, cfg.DatabasePath)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
		assert.Equal(t, time.Hour, cfg.CleanupInterval)
	})

	t.Run("overrides", func(t *testing.T) {
		cfg := ConfigFrom(config.Tasks{DatabasePath: "/tmp/q.db", Workers: 4, ReleaseAfter: time.Minute})
		assert.Equal(t, "/tmp/q.db", cfg.DatabasePath)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, time.Minute, cfg.ReleaseAfter)
		assert.Equal(t, time.Hour, cfg.CleanupInterval)
	})
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{RetentionDays: 7}.Config()

	assert.Equal(t, CleanupAuditEventsQueue, cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (f *fakeCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return f.deleted, f.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeCleaner{deleted: 4}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("defaults to 30 days", func(t *testing.T) {
		cleaner := &fakeCleaner{}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, cleaner.retention)
	})

	t.Run("propagates cleaner errors", func(t *testing.T) {
		cleaner := &fakeCleaner{err: errors.New("disk full")}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorContains(t, err, "older than 30 days: disk full")
	})

	t.Run("nil cleaner", func(t *testing.T) {
		err := CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{})
		assert.ErrorIs(t, err, errNoCleaner)
	})
}
