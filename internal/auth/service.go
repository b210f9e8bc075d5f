package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/database/users"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/logger"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUserExists         = errors.New("user already exists")
)

// LockoutError is returned by Login while an (IP, email) pair is locked out.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrTooManyAttempts, e.RetryAfter.Round(time.Second))
}

func (e *LockoutError) Is(target error) bool {
	return target == ErrTooManyAttempts
}

// UserStore is the subset of the users repository the service needs.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetBySub(ctx context.Context, sub string) (*entities.User, error)
	HasUsers(ctx context.Context) (bool, error)
}

// EventLogger receives authentication outcomes. It must not block.
type EventLogger interface {
	LogAuth(ctx context.Context, userID uint, action, email string, success bool)
}

type nopEventLogger struct{}

func (nopEventLogger) LogAuth(context.Context, uint, string, string, bool) {}

// Session is the outcome of a successful login.
type Session struct {
	User      *entities.User
	Token     string
	ExpiresAt time.Time
}

// NewUser holds the fields needed to create an account.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     entities.UserRole
}

func (u NewUser) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&u.Email, validation.Required, is.EmailFormat),
		validation.Field(&u.Password, validation.Required, validation.Length(MinPasswordLength, maxPasswordLength)),
		validation.Field(&u.Role, validation.In(entities.RoleUser, entities.RoleAdmin)),
	)
}

// Service handles authentication and user management.
type Service struct {
	users    UserStore
	tokens   *TokenManager
	throttle *loginThrottle
	timing   *timingGuard
	events   EventLogger
	config   config.Auth
	logger   zerolog.Logger
}

// NewService creates a new authentication service. A nil events logger
// discards authentication events.
func NewService(store UserStore, cfg config.Auth, events EventLogger) *Service {
	if events == nil {
		events = nopEventLogger{}
	}
	return &Service{
		users:    store,
		tokens:   NewTokenManager(cfg.JWTSecret, cfg.TokenExpiry),
		throttle: newLoginThrottle(cfg),
		timing:   &timingGuard{cost: cfg.BcryptCost},
		events:   events,
		config:   cfg,
		logger:   logger.Component("auth"),
	}
}

// Close stops background work owned by the service.
func (s *Service) Close() {
	s.throttle.close()
}

// Login checks the credentials and issues a session token. Every failure
// other than a lockout or missing input yields ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = users.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	key := loginKey{ip: ClientFromContext(ctx).IP, email: email}
	if err := s.throttle.check(key); err != nil {
		s.events.LogAuth(ctx, 0, "login_locked", email, false)
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		s.timing.compare(password)
		return nil, s.loginFailed(ctx, key, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.isMasterPassword(password) {
		if err := CheckPassword(password, user.PasswordHash); err != nil {
			if !errors.Is(err, ErrInvalidPassword) {
				s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("stored password hash is unusable")
			}
			return nil, s.loginFailed(ctx, key, user.ID)
		}
	}

	token, err := s.tokens.Issue(user.Sub)
	if err != nil {
		return nil, err
	}

	s.throttle.reset(key)
	s.events.LogAuth(ctx, user.ID, "login", email, true)

	return &Session{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.Expiry()),
	}, nil
}

func (s *Service) loginFailed(ctx context.Context, key loginKey, userID uint) error {
	if s.throttle.fail(key) {
		s.logger.Warn().Str("ip", key.ip).Str("email", key.email).Msg("login locked out after repeated failures")
	}
	s.events.LogAuth(ctx, userID, "login_failed", key.email, false)
	return ErrInvalidCredentials
}

func (s *Service) isMasterPassword(password string) bool {
	master := s.config.MasterPassword
	return master != "" && subtle.ConstantTimeCompare([]byte(master), []byte(password)) == 1
}

// Logout records the logout of the context user, if any.
func (s *Service) Logout(ctx context.Context) {
	if user := UserFromContext(ctx); user != nil {
		s.events.LogAuth(ctx, user.ID, "logout", user.Email, true)
	}
}

// UserFromToken resolves a token to its user. Tokens whose subject no
// longer exists are invalid.
func (s *Service) UserFromToken(ctx context.Context, token string) (*entities.User, error) {
	sub, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetBySub(ctx, sub)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// CreateUser validates the input, hashes the password and stores the user.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*entities.User, error) {
	in.Email = users.NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = entities.RoleUser
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, in.Email)
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}

// HasUsers returns true if any users exist in the database.
func (s *Service) HasUsers(ctx context.Context) (bool, error) {
	return s.users.HasUsers(ctx)
}

// TokenExpiry is the lifetime of issued session tokens.
func (s *Service) TokenExpiry() time.Duration {
	return s.tokens.Expiry()
}

// SecureCookies reports whether the session cookie carries the Secure flag.
func (s *Service) SecureCookies() bool {
	return s.config.SecureCookies
}

// IsAuthEnabled returns true if writes require an authenticated user.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// AuthorizeWrite returns ErrUnauthenticated when writes require a user and
// ctx carries none.
func (s *Service) AuthorizeWrite(ctx context.Context) error {
	if s.IsAuthEnabled() && UserFromContext(ctx) == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireUser returns the context user or ErrUnauthenticated.
func RequireUser(ctx context.Context) (*entities.User, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireRole returns the context user when it has one of the roles.
func RequireRole(ctx context.Context, roles ...entities.UserRole) (*entities.User, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, ErrForbidden
}
