package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
)

// CatalogStore is the full catalog surface. *catalog.Service satisfies it.
type CatalogStore interface {
	AuthorStore
	PublisherStore
	CategoryStore
	BookStore
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  CatalogStore
	Database Pinger

	// Authentication. Without a middleware every request is anonymous and
	// the auth and audit routes are not registered.
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware

	// Audit listing (optional)
	Audit AuditReader

	// GraphQL endpoint (optional)
	GraphQL gin.HandlerFunc

	// Send Strict-Transport-Security; only meaningful behind HTTPS.
	EnableHSTS bool

	// Application info
	Version string
}
