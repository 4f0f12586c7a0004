package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	apperrors "github.com/agristock/agristock-api/internal/errors"
	mockauth "github.com/agristock/agristock-api/internal/mocks/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

type authFixture struct {
	provider  *mockauth.MockIdentityProvider
	directory *mockauth.StaticDirectory
	sessions  *mockauth.MemorySessionStore
	svc       *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	provider := mockauth.NewMockIdentityProvider()
	directory := &mockauth.StaticDirectory{
		Accounts: map[string][]ports.AccountRecord{
			"farmerjoe": {{ID: "acct-1", Email: "joe@example.com"}},
		},
	}
	sessions := mockauth.NewMemorySessionStore()
	profiles := NewProfileService(ProfileServiceOptions{
		Source: &mockauth.StubProfileSource{
			Responses: []mockauth.ProfileResponse{{Profile: testProfile()}},
		},
		Config: fastRetryConfig(),
	})
	svc := NewAuthService(AuthServiceOptions{
		Provider:  provider,
		Directory: directory,
		Sessions:  sessions,
	}, profiles, nil)
	return &authFixture{provider: provider, directory: directory, sessions: sessions, svc: svc}
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.Login(context.Background(), "FarmerJoe", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.provider.SignInCalls())
}

func TestAuthService_LoginEmptyInputs(t *testing.T) {
	f := newAuthFixture(t)

	for _, tc := range []struct{ username, secret string }{
		{"", "secret1"},
		{"farmerjoe", ""},
		{"  ", "secret1"},
	} {
		err := f.svc.Login(context.Background(), tc.username, tc.secret)
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		assert.Equal(t, "Username and password are required", appErr.Message)
	}
	assert.Equal(t, 0, f.provider.SignInCalls())
}

// Unknown usernames, lookup failures, and wrong passwords must all produce
// the identical error so responses never reveal which usernames exist.
func TestAuthService_LoginUniformFailure(t *testing.T) {
	t.Run("unknown username", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.Login(context.Background(), "nobody", "secret1")
		assertInvalidCredentials(t, err)
		assert.Equal(t, 0, f.provider.SignInCalls())
	})

	t.Run("lookup error", func(t *testing.T) {
		f := newAuthFixture(t)
		f.directory.Err = errors.New("connection reset")
		err := f.svc.Login(context.Background(), "farmerjoe", "secret1")
		assertInvalidCredentials(t, err)
		assert.Equal(t, 0, f.provider.SignInCalls())
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.provider.SignInFunc = func(context.Context, string, string) (*domainauth.Session, error) {
			return nil, errors.New("invalid login credentials")
		}
		err := f.svc.Login(context.Background(), "farmerjoe", "wrong")
		assertInvalidCredentials(t, err)
	})
}

// When a username maps to several directory records, sign-in goes through
// the first record's email.
func TestAuthService_LoginMultipleRecordsUsesFirst(t *testing.T) {
	f := newAuthFixture(t)
	f.directory.Accounts["farmerjoe"] = []ports.AccountRecord{
		{ID: "acct-1", Email: "joe@example.com"},
		{ID: "acct-2", Email: "joe@backup.example.com"},
	}
	var signedInAs string
	f.provider.SignInFunc = func(_ context.Context, email, _ string) (*domainauth.Session, error) {
		signedInAs = email
		return &domainauth.Session{}, nil
	}

	require.NoError(t, f.svc.Login(context.Background(), "farmerjoe", "secret1"))
	assert.Equal(t, "joe@example.com", signedInAs)
}

func assertInvalidCredentials(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidCredentials, appErr.Code)
	assert.Equal(t, "Invalid username or password", appErr.Message)
}

func validSignup() SignupInput {
	return SignupInput{
		Name:     "New Farmer",
		Username: "newfarmer",
		Email:    "new@example.com",
		Secret:   "secret1",
		Role:     domainauth.RoleFarmer,
	}
}

func TestAuthService_Signup(t *testing.T) {
	f := newAuthFixture(t)

	var captured ports.SignUpInput
	f.provider.SignUpFunc = func(_ context.Context, in ports.SignUpInput) (string, error) {
		captured = in
		return "acct-2", nil
	}

	in := validSignup()
	in.Username = "  NewFarmer  "
	require.NoError(t, f.svc.Signup(context.Background(), in))

	assert.Equal(t, "new@example.com", captured.Email)
	assert.Equal(t, "newfarmer", captured.Metadata.Username)
	assert.Equal(t, "New Farmer", captured.Metadata.Name)
	assert.Equal(t, "farmer", captured.Metadata.Role)
}

func TestAuthService_SignupMissingFields(t *testing.T) {
	f := newAuthFixture(t)
	in := validSignup()
	in.Email = ""

	err := f.svc.Signup(context.Background(), in)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "All fields are required", appErr.Message)
}

func TestAuthService_SignupUsernameTaken(t *testing.T) {
	f := newAuthFixture(t)
	in := validSignup()
	in.Username = "farmerjoe"

	err := f.svc.Signup(context.Background(), in)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeUsernameTaken, appErr.Code)
	assert.Equal(t, "username", appErr.Field)
}

func TestAuthService_SignupLookupErrorIsNotUniform(t *testing.T) {
	// Unlike login, an availability-check failure reports itself; there is
	// no enumeration surface to defend during signup.
	f := newAuthFixture(t)
	f.directory.Err = errors.New("connection reset")

	err := f.svc.Signup(context.Background(), validSignup())
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
	assert.Equal(t, "An error occurred while checking username availability", appErr.Message)
}

func TestAuthService_SignupProviderErrorVerbatim(t *testing.T) {
	f := newAuthFixture(t)
	providerErr := errors.New("Password should be at least 6 characters")
	f.provider.SignUpFunc = func(context.Context, ports.SignUpInput) (string, error) {
		return "", providerErr
	}

	err := f.svc.Signup(context.Background(), validSignup())
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeProvider, appErr.Code)
	assert.Equal(t, providerErr.Error(), appErr.Message)
	assert.ErrorIs(t, err, providerErr)
}

func TestAuthService_SignupInvalidUsername(t *testing.T) {
	f := newAuthFixture(t)
	in := validSignup()
	in.Username = "ab"

	err := f.svc.Signup(context.Background(), in)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "username", appErr.Field)
}

func TestAuthService_LogoutSwallowsProviderError(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.SignOutFunc = func(context.Context) error { return errors.New("network down") }

	// Must not panic or surface the failure.
	f.svc.Logout(context.Background())
}

func TestAuthService_EstablishSession(t *testing.T) {
	f := newAuthFixture(t)

	appSession, err := f.svc.EstablishSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, appSession)
	assert.NotEmpty(t, appSession.ID)
	assert.Equal(t, "mock-account-1", appSession.Session.AccountID)
	require.NotNil(t, appSession.Profile)
	assert.Equal(t, 1, f.sessions.Len())

	stored, err := f.svc.GetSession(context.Background(), appSession.ID)
	require.NoError(t, err)
	assert.Equal(t, appSession.ID, stored.ID)
}

func TestAuthService_EstablishSessionWithoutProviderSession(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.Session = nil

	appSession, err := f.svc.EstablishSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, appSession)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_GetSessionExpired(t *testing.T) {
	f := newAuthFixture(t)
	expired := domainauth.AppSession{
		ID:        "sess-1",
		Session:   domainauth.Session{AccountID: "acct-1"},
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, f.sessions.Save(context.Background(), expired))

	_, err := f.svc.GetSession(context.Background(), "sess-1")
	require.Error(t, err)
	// Expired sessions are removed on read.
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_DropSession(t *testing.T) {
	f := newAuthFixture(t)
	appSession, err := f.svc.EstablishSession(context.Background())
	require.NoError(t, err)

	signedOut := false
	f.provider.SignOutFunc = func(context.Context) error {
		signedOut = true
		return nil
	}

	require.NoError(t, f.svc.DropSession(context.Background(), appSession.ID))
	assert.True(t, signedOut)
	assert.Equal(t, 0, f.sessions.Len())
}
