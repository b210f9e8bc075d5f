// Package tasks runs background jobs on a backlite queue stored in its own
// SQLite file.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"

	"github.com/mrlokans/catalog/internal/logger"
)

// ErrShutdownTimeout is returned by Shutdown when workers were still busy
// at the deadline.
var ErrShutdownTimeout = errors.New("task workers did not finish before the deadline")

// Client owns the queue database and the backlite dispatcher.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int
	logger   zerolog.Logger
	started  atomic.Bool
}

// NewClient opens the queue database, installs the backlite schema and
// registers queues. backlite accepts registrations only before Start.
func NewClient(cfg Config, queues ...backlite.Queue) (*Client, error) {
	if cfg.DatabasePath == "" {
		return nil, errors.New("tasks database path is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	db, err := openQueueDB(cfg.DatabasePath, cfg.Workers)
	if err != nil {
		return nil, err
	}

	log := logger.Component("tasks")
	bl, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          backliteLogger{log: log},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}
	if err := bl.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	for _, q := range queues {
		bl.Register(q)
	}

	return &Client{backlite: bl, db: db, workers: cfg.Workers, logger: log}, nil
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	// Every worker may hold a connection while the dispatcher polls.
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Start launches the workers. Later calls are no-ops.
func (c *Client) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	c.logger.Info().Int("workers", c.workers).Msg("Task queue started")
	go c.backlite.Start(ctx)
}

// Shutdown waits for running tasks until ctx expires, then closes the
// queue database.
func (c *Client) Shutdown(ctx context.Context) error {
	var err error
	if c.started.Load() {
		c.logger.Info().Msg("Stopping task queue")
		if !c.backlite.Stop(ctx) {
			err = ErrShutdownTimeout
		}
	}
	if cerr := c.db.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.backlite.Add(tasks...)
}

// backliteLogger routes backlite's key/value logs to zerolog.
type backliteLogger struct {
	log zerolog.Logger
}

func (l backliteLogger) Info(message string, params ...any) {
	l.log.Info().Fields(params).Msg(message)
}

func (l backliteLogger) Error(message string, params ...any) {
	l.log.Error().Fields(params).Msg(message)
}
