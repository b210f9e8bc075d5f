package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/graphql"
	"github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// =============================================================================
// Catalog
// =============================================================================

var _ http.CatalogStore = (*catalog.Service)(nil)
var _ graphql.CatalogService = (*catalog.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Authentication
// =============================================================================

var _ auth.UserStore = (*users.Repository)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ catalog.Recorder = (*audit.Service)(nil)
var _ auth.EventLogger = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.AuditCleanupEnqueuer = (*tasks.Client)(nil)
