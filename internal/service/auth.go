package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	apperrors "github.com/agristock/agristock-api/internal/errors"
	"github.com/agristock/agristock-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider  ports.IdentityProvider
	Directory ports.AccountDirectory
	Sessions  ports.SessionStore
}

// AuthService is the operations facade over the identity provider: login,
// signup, and logout with input validation and normalized error reporting.
// Errors are returned as values; provider exceptions never cross this
// boundary unconverted.
type AuthService struct {
	provider  ports.IdentityProvider
	directory ports.AccountDirectory
	sessions  ports.SessionStore
	profiles  *ProfileService
	logger    *slog.Logger
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions, profiles *ProfileService, logger *slog.Logger) *AuthService {
	if opts.Provider == nil {
		panic("auth service requires an identity provider")
	}
	if opts.Directory == nil {
		panic("auth service requires an account directory")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:  opts.Provider,
		directory: opts.Directory,
		sessions:  opts.Sessions,
		profiles:  profiles,
		logger:    logger,
	}
}

// Login signs a user in by username and password. On success it returns nil;
// the session itself propagates asynchronously through the auth-change
// stream, not through this call. Unknown usernames, lookup failures, and
// wrong passwords all collapse into the same InvalidCredentials error so the
// response never reveals which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, secret string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(secret) == "" {
		return apperrors.ValidationField("general", "Username and password are required")
	}

	normalized := NormalizeUsername(username)

	rows, err := s.directory.LookupByUsername(ctx, normalized)
	if err != nil {
		s.logger.Debug("username lookup failed", slog.Any("error", err))
		return apperrors.InvalidCredentials()
	}
	if len(rows) == 0 {
		return apperrors.InvalidCredentials()
	}

	if _, err := s.provider.SignInWithPassword(ctx, rows[0].Email, secret); err != nil {
		s.logger.Debug("provider sign-in failed", slog.Any("error", err))
		return apperrors.InvalidCredentials()
	}

	return nil
}

// SignupInput carries the validated signup fields.
type SignupInput struct {
	Name     string
	Username string
	Email    string
	Secret   string
	Role     domainauth.Role
}

// Signup creates an account with the provider. The username must be unique;
// name, normalized username, and role ride along as account metadata the
// provider consumes to create the profile row. Provider errors pass through
// verbatim: unlike login there is no enumeration surface to defend here.
// The caller is expected to prompt for email confirmation afterwards.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Username) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Secret) == "" {
		return apperrors.ValidationField("general", "All fields are required")
	}

	normalized := NormalizeUsername(in.Username)
	if vErr := validateUsername(normalized); vErr != nil {
		return vErr
	}

	rows, err := s.directory.LookupByUsername(ctx, normalized)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal,
			"An error occurred while checking username availability")
	}
	if len(rows) > 0 {
		return apperrors.UsernameTaken()
	}

	_, err = s.provider.SignUp(ctx, ports.SignUpInput{
		Email:  strings.TrimSpace(in.Email),
		Secret: in.Secret,
		Metadata: ports.SignUpMetadata{
			Name:     strings.TrimSpace(in.Name),
			Username: normalized,
			Role:     string(in.Role),
		},
	})
	if err != nil {
		return apperrors.Provider(err)
	}

	return nil
}

// Logout signs out with the provider. It always succeeds from the caller's
// point of view; state clearing happens through the resulting auth-change
// event.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Warn("provider sign-out failed", slog.Any("error", err))
	}
}

// EstablishSession runs the bootstrap check after a successful login: it
// reads the provider's current session, resolves the profile (bounded retry),
// and persists a server-side app session. Returns nil when the provider holds
// no session.
func (s *AuthService) EstablishSession(ctx context.Context) (*domainauth.AppSession, error) {
	session, err := s.provider.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current session: %w", err)
	}
	if !session.HasAccount() {
		return nil, nil
	}

	var profile *domainauth.Profile
	if s.profiles != nil {
		profile, err = s.profiles.Fetch(ctx, session.AccountID)
		if err != nil {
			return nil, err
		}
	}

	appSession := domainauth.AppSession{
		ID:        generateSessionID(),
		Session:   *session,
		Profile:   profile,
		ExpiresAt: session.ExpiresAt,
	}

	if s.sessions != nil {
		if saveErr := s.sessions.Save(ctx, appSession); saveErr != nil {
			return nil, fmt.Errorf("save session: %w", saveErr)
		}
	}

	return &appSession, nil
}

// GetSession retrieves a stored app session by ID, deleting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.AppSession, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}
	if s.sessions == nil {
		return nil, errors.New("session store not configured")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// DropSession removes a stored app session, signing out with the provider
// first. Missing or empty ids are a no-op.
func (s *AuthService) DropSession(ctx context.Context, sessionID string) error {
	s.Logout(ctx)
	if sessionID == "" || s.sessions == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// UUIDs are URL-safe and have good entropy.
	return uuid.New().String()
}
