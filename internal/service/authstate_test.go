package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/agristock/agristock-api/internal/domain/auth"
	mockauth "github.com/agristock/agristock-api/internal/mocks/auth"
	"github.com/agristock/agristock-api/internal/ports"
)

var errProviderDown = errors.New("provider unavailable")

func newWatcherFixture(t *testing.T, provider *mockauth.MockIdentityProvider, source ports.ProfileSource) (*SessionWatcher, *mockauth.FakeStream) {
	t.Helper()
	if source == nil {
		source = &mockauth.StubProfileSource{
			Responses: []mockauth.ProfileResponse{{Profile: testProfile()}},
		}
	}
	profiles := NewProfileService(ProfileServiceOptions{Source: source, Config: fastRetryConfig()})
	stream := mockauth.NewFakeStream()
	watcher := NewSessionWatcher(SessionWatcherOptions{
		Provider: provider,
		Stream:   stream,
		Profiles: profiles,
	}, nil)
	return watcher, stream
}

func TestSessionWatcher_StartsUninitialized(t *testing.T) {
	watcher, _ := newWatcherFixture(t, mockauth.NewMockIdentityProvider(), nil)

	state := watcher.State()
	assert.Equal(t, domainauth.PhaseUninitialized, state.Phase)
	assert.True(t, state.Loading)
	assert.Nil(t, state.Session)
}

func TestSessionWatcher_BootstrapWithSession(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	watcher, _ := newWatcherFixture(t, provider, nil)

	watcher.Start(context.Background())
	defer watcher.Stop()

	state := watcher.State()
	assert.Equal(t, domainauth.PhaseAuthenticated, state.Phase)
	require.NotNil(t, state.Session)
	assert.Equal(t, "mock-account-1", state.Session.AccountID)
	require.NotNil(t, state.Profile)
	assert.Equal(t, "farmerjoe", state.Profile.Username)
	assert.False(t, state.Loading)
	assert.True(t, state.Authenticated())
}

func TestSessionWatcher_BootstrapWithoutSession(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	provider.Session = nil
	watcher, _ := newWatcherFixture(t, provider, nil)

	watcher.Start(context.Background())
	defer watcher.Stop()

	state := watcher.State()
	assert.Equal(t, domainauth.PhaseUnauthenticated, state.Phase)
	assert.Nil(t, state.Session)
	assert.Nil(t, state.Profile)
	assert.False(t, state.Loading)
}

func TestSessionWatcher_BootstrapErrorTreatedAsSignedOut(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	provider.GetSessionFunc = func(context.Context) (*domainauth.Session, error) {
		return nil, errProviderDown
	}
	watcher, _ := newWatcherFixture(t, provider, nil)

	watcher.Start(context.Background())
	defer watcher.Stop()

	state := watcher.State()
	assert.Equal(t, domainauth.PhaseUnauthenticated, state.Phase)
	assert.False(t, state.Loading)
}

func TestSessionWatcher_SignInEventAuthenticates(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	provider.Session = nil
	watcher, stream := newWatcherFixture(t, provider, nil)

	watcher.Start(context.Background())
	defer watcher.Stop()
	require.Equal(t, domainauth.PhaseUnauthenticated, watcher.State().Phase)

	stream.Emit(domainauth.EventSignedIn, &domainauth.Session{
		AccountID:   "acct-1",
		Email:       "joe@example.com",
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	})

	state := watcher.State()
	assert.Equal(t, domainauth.PhaseAuthenticated, state.Phase)
	require.NotNil(t, state.Profile)
	assert.False(t, state.Loading)
}

func TestSessionWatcher_SignOutEventClearsState(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	watcher, stream := newWatcherFixture(t, provider, nil)

	watcher.Start(context.Background())
	defer watcher.Stop()
	require.Equal(t, domainauth.PhaseAuthenticated, watcher.State().Phase)

	stream.Emit(domainauth.EventSignedOut, nil)

	state := watcher.State()
	assert.Equal(t, domainauth.PhaseUnauthenticated, state.Phase)
	assert.Nil(t, state.Session)
	assert.Nil(t, state.Profile)
	assert.False(t, state.Loading)
}

func TestSessionWatcher_ProfileFetchFailureDegrades(t *testing.T) {
	// Profile row never appears: authenticated with profile absent, and the
	// dashboard falls back to the farmer variant.
	source := &mockauth.StubProfileSource{
		Responses: []mockauth.ProfileResponse{{Err: ports.ErrProfileNotFound}},
	}
	watcher, _ := newWatcherFixture(t, mockauth.NewMockIdentityProvider(), source)

	watcher.Start(context.Background())
	defer watcher.Stop()

	state := watcher.State()
	assert.Equal(t, domainauth.PhaseAuthenticated, state.Phase)
	assert.Nil(t, state.Profile)
	assert.False(t, state.Loading)
	assert.Equal(t, domainauth.DashboardFarmer, watcher.Dashboard())
}

func TestSessionWatcher_StopUnsubscribes(t *testing.T) {
	provider := mockauth.NewMockIdentityProvider()
	watcher, stream := newWatcherFixture(t, provider, nil)

	watcher.Start(context.Background())
	require.Equal(t, 1, stream.SubscriberCount())

	watcher.Stop()
	assert.Equal(t, 0, stream.SubscriberCount())

	// Events after Stop must not mutate state.
	before := watcher.State()
	stream.Emit(domainauth.EventSignedOut, nil)
	assert.Equal(t, before, watcher.State())
}

func TestSessionWatcher_AdminDashboard(t *testing.T) {
	adminProfile := testProfile()
	adminProfile.Role = domainauth.RoleAdmin
	source := &mockauth.StubProfileSource{
		Responses: []mockauth.ProfileResponse{{Profile: adminProfile}},
	}
	watcher, _ := newWatcherFixture(t, mockauth.NewMockIdentityProvider(), source)

	watcher.Start(context.Background())
	defer watcher.Stop()

	assert.Equal(t, domainauth.DashboardAdmin, watcher.Dashboard())
}
