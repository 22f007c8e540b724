package session

import (
	"sync"
	"testing"

	"github.com/spec-kit/admin-console/internal/domain"
)

func admin() domain.UserDescriptor {
	return domain.UserDescriptor{ID: "u-1", Username: "admin", Role: domain.RoleAdmin}
}

func institute() domain.UserDescriptor {
	return domain.UserDescriptor{ID: "u-9", Username: "inst", Role: domain.RoleInstitute}
}

func TestLoginRequiresCredentials(t *testing.T) {
	s := New("sid")
	if err := s.Login(domain.UserDescriptor{}, "tok"); err != ErrMissingCredentials {
		t.Fatalf("login without identity: err = %v, want ErrMissingCredentials", err)
	}
	if err := s.Login(admin(), ""); err != ErrMissingCredentials {
		t.Fatalf("login without token: err = %v, want ErrMissingCredentials", err)
	}
	if s.State() != StateAnonymous {
		t.Fatalf("rejected login changed state to %s", s.State())
	}
}

func TestImpersonationRoundTrip(t *testing.T) {
	s := New("sid")
	if err := s.Login(admin(), "admin-token"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.BeginImpersonation(Snapshot{Identity: institute(), Token: "inst-token"}); err != nil {
		t.Fatalf("begin impersonation: %v", err)
	}

	if s.State() != StateImpersonating {
		t.Fatalf("state = %s, want impersonating", s.State())
	}
	active, _ := s.Active()
	if active.Token != "inst-token" || active.Identity.ID != "u-9" {
		t.Fatalf("active pair = %+v, want impersonated pair", active)
	}
	original, ok := s.Original()
	if !ok || original.Token != "admin-token" || original.Identity.ID != "u-1" {
		t.Fatalf("original pair = %+v, want saved admin pair", original)
	}

	if !s.EndImpersonation() {
		t.Fatal("end impersonation reported no-op on an impersonating session")
	}
	active, _ = s.Active()
	if s.State() != StateAuthenticated || active.Token != "admin-token" {
		t.Fatalf("after restore: state=%s active=%+v", s.State(), active)
	}
	if _, ok := s.Original(); ok {
		t.Fatal("original pair survived restoration")
	}
}

func TestBeginImpersonationGuards(t *testing.T) {
	s := New("sid")
	target := Snapshot{Identity: institute(), Token: "inst-token"}

	if err := s.BeginImpersonation(target); err != ErrNotAuthenticated {
		t.Fatalf("anonymous begin: err = %v, want ErrNotAuthenticated", err)
	}

	_ = s.Login(admin(), "admin-token")
	if err := s.BeginImpersonation(Snapshot{}); err != ErrMissingCredentials {
		t.Fatalf("empty target: err = %v, want ErrMissingCredentials", err)
	}
	if err := s.BeginImpersonation(target); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := s.BeginImpersonation(target); err != ErrAlreadyImpersonating {
		t.Fatalf("nested begin: err = %v, want ErrAlreadyImpersonating", err)
	}
}

func TestEndImpersonationIdempotent(t *testing.T) {
	s := New("sid")
	_ = s.Login(admin(), "admin-token")
	_ = s.BeginImpersonation(Snapshot{Identity: institute(), Token: "inst-token"})

	if !s.EndImpersonation() {
		t.Fatal("first end should restore")
	}
	if s.EndImpersonation() {
		t.Fatal("second end should be a no-op")
	}
	if active, _ := s.Active(); active.Token != "admin-token" {
		t.Fatalf("repeated end disturbed the active pair: %+v", active)
	}
}

func TestEndImpersonationDanglingMarker(t *testing.T) {
	s := New("sid")
	_ = s.Login(admin(), "admin-token")
	s.original = &Snapshot{} // inconsistent bookkeeping: marker without a pair

	if s.EndImpersonation() {
		t.Fatal("dangling marker treated as a real impersonation")
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %s, want authenticated after clearing dangling marker", s.State())
	}
	if active, _ := s.Active(); active.Token != "admin-token" {
		t.Fatalf("active pair lost: %+v", active)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	s := New("sid")
	_ = s.Login(admin(), "admin-token")
	_ = s.BeginImpersonation(Snapshot{Identity: institute(), Token: "inst-token"})

	if !s.Logout() {
		t.Fatal("logout on a live session reported nothing to clear")
	}
	if s.State() != StateAnonymous {
		t.Fatalf("state = %s, want anonymous", s.State())
	}
	if _, ok := s.Active(); ok {
		t.Fatal("active pair survived logout")
	}
	if _, ok := s.Original(); ok {
		t.Fatal("original pair survived logout")
	}
	if s.Logout() {
		t.Fatal("second logout reported credentials to clear")
	}
}

func TestLogoutActsOnceUnderConcurrency(t *testing.T) {
	s := New("sid")
	_ = s.Login(admin(), "admin-token")

	var wg sync.WaitGroup
	results := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Logout()
		}()
	}
	wg.Wait()
	close(results)

	cleared := 0
	for r := range results {
		if r {
			cleared++
		}
	}
	if cleared != 1 {
		t.Fatalf("%d callers observed the transition, want exactly 1", cleared)
	}
}
