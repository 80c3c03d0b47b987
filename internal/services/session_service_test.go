package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/api"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/routes"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/securestore"
)

func newSessionService(stub *stubAuthAPI, toasts *stubNotifier) (*SessionService, *securestore.Store) {
	store := securestore.New(securestore.NewMemoryBackend(), "test-secret")
	return NewSessionService(stub, store, toasts, zerolog.Nop(), time.Hour), store
}

func TestLoginPersistsSession(t *testing.T) {
	stub := &stubAuthAPI{
		loginResult: &api.LoginResult{
			Token: "opaque-token",
			User:  models.User{ID: "u1", Name: "Amara", Email: "amara@example.com"},
		},
	}
	toasts := &stubNotifier{}
	svc, store := newSessionService(stub, toasts)

	if err := svc.Login(context.Background(), "amara@example.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if !svc.IsAuthenticated() {
		t.Fatal("expected authenticated after login")
	}
	if user := svc.CurrentUser(); user == nil || user.ID != "u1" {
		t.Fatalf("unexpected current user: %+v", user)
	}
	if token, ok := store.Token(); !ok || token != "opaque-token" {
		t.Fatalf("expected token persisted, got %q ok=%v", token, ok)
	}
	if len(toasts.successes) != 1 || toasts.successes[0] != "Welcome, Amara!" {
		t.Fatalf("unexpected toasts: %v", toasts.successes)
	}

	select {
	case <-svc.Settled():
	default:
		t.Fatal("expected auth state settled after login")
	}
}

func TestLoginFailureSurfacesValidationMessage(t *testing.T) {
	stub := &stubAuthAPI{loginErr: &api.ValidationError{Field: "email", Message: "Please enter a valid email address."}}
	toasts := &stubNotifier{}
	svc, _ := newSessionService(stub, toasts)

	if err := svc.Login(context.Background(), "nope", "password123"); err == nil {
		t.Fatal("expected error")
	}
	if svc.IsAuthenticated() {
		t.Fatal("expected unauthenticated after failed login")
	}
	if len(toasts.errors) != 1 || toasts.errors[0] != "Please enter a valid email address." {
		t.Fatalf("unexpected toasts: %v", toasts.errors)
	}
}

func TestLogoutClearsSessionEvenWhenServerFails(t *testing.T) {
	stub := &stubAuthAPI{
		loginResult: &api.LoginResult{Token: "tok", User: models.User{ID: "u1", Name: "Amara"}},
		logoutErr:   errors.New("server unreachable"),
	}
	toasts := &stubNotifier{}
	svc, store := newSessionService(stub, toasts)

	if err := svc.Login(context.Background(), "amara@example.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.Logout(context.Background())

	if stub.logoutCalls != 1 {
		t.Fatalf("expected server logout attempted, got %d", stub.logoutCalls)
	}
	if svc.IsAuthenticated() {
		t.Fatal("expected unauthenticated after logout")
	}
	if svc.CurrentUser() != nil {
		t.Fatal("expected current user cleared")
	}
	if _, ok := store.Token(); ok {
		t.Fatal("expected token cleared from store")
	}
	if len(toasts.successes) != 2 || toasts.successes[1] != "You have been logged out." {
		t.Fatalf("unexpected toasts: %v", toasts.successes)
	}
}

func TestRestoreSettlesWithoutSession(t *testing.T) {
	svc, _ := newSessionService(&stubAuthAPI{}, &stubNotifier{})

	svc.Restore()

	select {
	case <-svc.Settled():
	default:
		t.Fatal("expected settled after restore")
	}
	if svc.IsAuthenticated() {
		t.Fatal("expected unauthenticated with empty store")
	}
}

func TestRestoreRecoversPersistedSession(t *testing.T) {
	backend := securestore.NewMemoryBackend()
	seed := securestore.New(backend, "test-secret")
	user := &models.User{ID: "u1", Name: "Amara"}
	if err := seed.SaveSession("tok", "", user, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	store := securestore.New(backend, "test-secret")
	svc := NewSessionService(&stubAuthAPI{}, store, &stubNotifier{}, zerolog.Nop(), time.Hour)
	svc.Restore()

	if got := svc.CurrentUser(); got == nil || got.ID != "u1" {
		t.Fatalf("expected restored user, got %+v", got)
	}
	if !svc.IsAuthenticated() {
		t.Fatal("expected authenticated after restore")
	}
}

func TestOnEstablishFiresOnLogin(t *testing.T) {
	stub := &stubAuthAPI{
		loginResult: &api.LoginResult{Token: "tok", User: models.User{ID: "u1", Name: "Amara"}},
	}
	svc, _ := newSessionService(stub, &stubNotifier{})

	var established []string
	svc.OnEstablish(func(user *models.User) {
		established = append(established, user.ID)
	})

	if err := svc.Login(context.Background(), "amara@example.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if len(established) != 1 || established[0] != "u1" {
		t.Fatalf("expected establish hook after login, got %v", established)
	}
}

func TestOnEstablishFiresOnRestore(t *testing.T) {
	backend := securestore.NewMemoryBackend()
	seed := securestore.New(backend, "test-secret")
	if err := seed.SaveSession("tok", "", &models.User{ID: "u1", Name: "Amara"}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	store := securestore.New(backend, "test-secret")
	svc := NewSessionService(&stubAuthAPI{}, store, &stubNotifier{}, zerolog.Nop(), time.Hour)

	var established []string
	svc.OnEstablish(func(user *models.User) {
		established = append(established, user.ID)
	})
	svc.Restore()

	if len(established) != 1 || established[0] != "u1" {
		t.Fatalf("expected establish hook after restore, got %v", established)
	}
}

func TestRestoreWithoutSessionSkipsEstablishHook(t *testing.T) {
	svc, _ := newSessionService(&stubAuthAPI{}, &stubNotifier{})

	called := false
	svc.OnEstablish(func(*models.User) { called = true })
	svc.Restore()

	if called {
		t.Fatal("expected no establish hook without a stored session")
	}
}

func TestLoginThenGuardAllowsProtectedPath(t *testing.T) {
	stub := &stubAuthAPI{
		loginResult: &api.LoginResult{Token: "tok", User: models.User{ID: "u1", Name: "Amara"}},
	}
	svc, _ := newSessionService(stub, &stubNotifier{})
	guard := routes.NewGuard(svc, 10*time.Millisecond)

	if err := svc.Login(context.Background(), "amara@example.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if decision := guard.Resolve("/connections"); !decision.Allow {
		t.Fatalf("expected protected path allowed after login, got %+v", decision)
	}

	svc.Logout(context.Background())

	decision := guard.Resolve("/connections")
	if decision.Allow || decision.RedirectTo != routes.UnauthorizedPath {
		t.Fatalf("expected redirect after logout, got %+v", decision)
	}
}
