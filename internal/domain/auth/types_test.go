package auth

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":             RoleAdmin,
		"extension_officer": RoleExtensionOfficer,
		"farmer":            RoleFarmer,
		"  Admin ":          RoleAdmin,
		"":                  RoleFarmer,
		"superuser":         RoleFarmer,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectDashboard(t *testing.T) {
	if SelectDashboard(RoleAdmin) != DashboardAdmin {
		t.Fatalf("admin role should map to admin dashboard")
	}
	if SelectDashboard(RoleExtensionOfficer) != DashboardExtensionOfficer {
		t.Fatalf("extension officer role should map to extension officer dashboard")
	}
	if SelectDashboard(RoleFarmer) != DashboardFarmer {
		t.Fatalf("farmer role should map to farmer dashboard")
	}
	if SelectDashboard(Role("unknown")) != DashboardFarmer {
		t.Fatalf("unknown role should default to farmer dashboard")
	}
	if SelectDashboard(Role("")) != SelectDashboard(RoleFarmer) {
		t.Fatalf("absent role must equal the farmer variant")
	}
}

func TestSession_HasAccount(t *testing.T) {
	var nilSession *Session
	if nilSession.HasAccount() {
		t.Fatalf("nil session has no account")
	}
	if (&Session{}).HasAccount() {
		t.Fatalf("session without account id has no account")
	}
	s := &Session{AccountID: "acc-1", ExpiresAt: time.Now().Add(time.Hour)}
	if !s.HasAccount() {
		t.Fatalf("expected account")
	}
}

func TestState_Dashboard_DegradedDefaultsToFarmer(t *testing.T) {
	s := State{
		Phase:   PhaseAuthenticated,
		Session: &Session{AccountID: "acc-1"},
		Profile: nil, // session valid, profile unresolved
	}
	if s.Dashboard() != DashboardFarmer {
		t.Fatalf("unresolved profile should get the least-privileged dashboard")
	}

	s.Profile = &Profile{ID: "acc-1", Role: RoleAdmin}
	if s.Dashboard() != DashboardAdmin {
		t.Fatalf("resolved admin profile should get the admin dashboard")
	}
}

func TestState_Authenticated(t *testing.T) {
	if (State{Phase: PhaseAuthenticated}).Authenticated() {
		t.Fatalf("authenticated phase without session is not authenticated")
	}
	st := State{Phase: PhaseAuthenticated, Session: &Session{AccountID: "a"}}
	if !st.Authenticated() {
		t.Fatalf("expected authenticated")
	}
	if (State{Phase: PhaseUnauthenticated}).Authenticated() {
		t.Fatalf("unauthenticated phase is not authenticated")
	}
}
