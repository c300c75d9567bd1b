package model

import (
	"testing"
	"time"
)

func TestDashboardPath_Exhaustive(t *testing.T) {
	want := map[Role]string{
		RoleContributor: "/contributor/dashboard",
		RoleMaintainer:  "/maintainer/dashboard",
		RoleCompany:     "/company/dashboard",
	}
	for _, r := range Roles() {
		if got := r.DashboardPath(); got != want[r] {
			t.Errorf("%s.DashboardPath() = %q, want %q", r, got, want[r])
		}
	}
	if len(Roles()) != len(want) {
		t.Errorf("Roles() has %d entries, want %d", len(Roles()), len(want))
	}
}

func TestDashboardPath_UnknownRole(t *testing.T) {
	for _, r := range []Role{"", "admin", "../etc", "Contributor"} {
		if got := r.DashboardPath(); got != LoginPath {
			t.Errorf("Role(%q).DashboardPath() = %q, want %q", r, got, LoginPath)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("company"); err != nil || r != RoleCompany {
		t.Errorf("ParseRole(company) = %q, %v", r, err)
	}
	if _, err := ParseRole("guest"); err == nil {
		t.Error("ParseRole(guest) should fail")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now}
	if !s.Expired(now) {
		t.Error("session should be expired at its expiry instant")
	}
	if s.Expired(now.Add(-time.Second)) {
		t.Error("session should be live before expiry")
	}
	if (Session{}).Expired(now) {
		t.Error("zero expiry never expires")
	}
}
