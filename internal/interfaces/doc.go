// Package interfaces documents the seams between the catalog's packages.
//
// Consumers declare the interfaces they need and the concrete types live
// elsewhere, so nothing but this package checks that they still line up.
//
// # Interface Categories
//
// ## Catalog
//
//   - CatalogStore and its per-entity parts: REST controllers (internal/http/stores.go)
//   - CatalogService: GraphQL resolvers (internal/graphql/resolver.go)
//   - Pinger: health check (internal/http/health.go)
//
// Both are satisfied by *catalog.Service, which owns validation, transactions
// and association reconciliation.
//
// ## Authentication
//
//   - UserStore: user persistence (internal/auth/service.go)
//
// ## Audit
//
//   - Recorder: successful catalog mutations (internal/catalog/service.go)
//   - EventLogger: login and logout outcomes (internal/auth/service.go)
//   - AuditReader: admin listing (internal/http/stores.go)
//
// All three are satisfied by *audit.Service. Pass a nil interface, not a nil
// *audit.Service, when auditing is disabled.
//
// ## Background Work
//
//   - AuditEventCleaner: retention task processor (internal/tasks/cleanup_audit.go)
//   - AuditCleanupEnqueuer: cron job target (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Catalog Entity
//
//  1. Add the model to internal/entities and to database.Migrate.
//
//  2. Create sub-package internal/database/<entity>/ with
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//     func (r *Repository) WithTx(tx *gorm.DB) *Repository
//
//  3. Expose validated operations on catalog.Service.
//
//  4. Add a store interface and controller in internal/http and resolvers
//     in internal/graphql, then a compile-time check here:
//
//     var _ http.SeriesStore = (*catalog.Service)(nil)
//
// # Compile-Time Interface Checks
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
