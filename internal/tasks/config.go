package tasks

import (
	"time"

	"github.com/mrlokans/catalog/internal/config"
)

// Config holds configuration for the task queue.
type Config struct {
	// DatabasePath is the SQLite file holding the queue, separate from the
	// catalog database whichever driver that uses.
	DatabasePath string

	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ReleaseAfter returns claimed but unfinished tasks to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often expired task records are deleted. Default: 1h
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		DatabasePath:    config.DefaultTasksDatabasePath,
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// ConfigFrom maps the environment-driven settings onto Config, keeping
// defaults for anything left at zero.
func ConfigFrom(cfg config.Tasks) Config {
	c := DefaultConfig()
	if cfg.DatabasePath != "" {
		c.DatabasePath = cfg.DatabasePath
	}
	if cfg.Workers > 0 {
		c.Workers = cfg.Workers
	}
	if cfg.ReleaseAfter > 0 {
		c.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		c.CleanupInterval = cfg.CleanupInterval
	}
	return c
}
