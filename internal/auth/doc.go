// Package auth resolves callers from JWT session tokens and enforces the
// write and role requirements of the catalog.
//
// It supports two authentication modes:
//   - "none": reads and writes are open (default); identity is still resolved
//   - "local": writes require an authenticated user
//
// Role checks (admin-only operations) apply in both modes.
//
// # Tokens
//
// Tokens are HS256 JWTs whose subject is the user's UUID. They are accepted
// from an "Authorization: Bearer" header or, when no such header is sent,
// from the auth-token cookie set at login.
//
// # Configuration
//
//	AUTH_MODE=none|local
//	JWT_SECRET=<secret>          # "supersecret" is only for development
//	AUTH_TOKEN_EXPIRY=168h
//	AUTH_SECURE_COOKIES=true     # HTTPS-only cookies
//	AUTH_MASTER_PASSWORD=        # Accepted for any account when set
//
// # Usage
//
//	authService := auth.NewService(users.NewRepository(db), cfg.Auth, auditService)
//	authMiddleware := auth.NewMiddleware(authService, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//
// Extract the user in handlers:
//
//	user := auth.GetUser(c)                       // gin handlers
//	user := auth.UserFromContext(ctx)             // anything holding the request context
package auth
