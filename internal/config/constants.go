package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./catalog.db"

	// DefaultTasksDatabasePath is the default path for the task queue database
	DefaultTasksDatabasePath = "./catalog-tasks.db"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "supersecret"

// AuthCookieName is the cookie carrying the session JWT.
const AuthCookieName = "auth-token"
