package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/api"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
	"github.com/Jill-Vadsola/study-abroad-sub000/internal/securestore"
	"github.com/Jill-Vadsola/study-abroad-sub000/pkg/utils"
)

type authAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.LoginResult, error)
	Logout(ctx context.Context) error
}

// SessionService owns the auth state: it persists sessions through the
// secure store and signals the route guard once the restore-from-store pass
// has settled.
type SessionService struct {
	api    authAPI
	store  *securestore.Store
	toasts notifier
	log    zerolog.Logger
	ttl    time.Duration

	mu          sync.Mutex
	user        *models.User
	onEstablish func(*models.User)
	settled     chan struct{}
	settleOnce  sync.Once
}

func NewSessionService(auth authAPI, store *securestore.Store, toasts notifier, log zerolog.Logger, ttl time.Duration) *SessionService {
	return &SessionService{
		api:     auth,
		store:   store,
		toasts:  toasts,
		log:     log,
		ttl:     ttl,
		settled: make(chan struct{}),
	}
}

// Restore loads a persisted session, if any, and settles the guard either
// way.
func (s *SessionService) Restore() {
	defer s.settle()

	if !s.store.IsAuthenticated() {
		return
	}
	user, ok := s.store.User()
	if !ok {
		return
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.log.Info().Str("user", user.ID).Msg("session restored")

	if fn := s.establishHook(); fn != nil {
		fn(user)
	}
}

// OnEstablish registers a hook invoked whenever a session becomes active,
// whether restored from the store or freshly established by login or
// register.
func (s *SessionService) OnEstablish(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onEstablish = fn
}

func (s *SessionService) Login(ctx context.Context, email, password string) error {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.notifyValidation(err)
		return err
	}
	return s.establish(result)
}

func (s *SessionService) Register(ctx context.Context, req api.RegisterRequest) error {
	result, err := s.api.Register(ctx, req)
	if err != nil {
		s.notifyValidation(err)
		return err
	}
	return s.establish(result)
}

// Logout is fail-open: a failed server-side logout still clears the local
// session and reports success.
func (s *SessionService) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
	}

	if err := s.store.Clear(); err != nil {
		s.log.Error().Err(err).Msg("clear session store")
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.toasts.Success("You have been logged out.")
}

func (s *SessionService) IsAuthenticated() bool {
	return s.store.IsAuthenticated()
}

func (s *SessionService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}

// Settled is closed once the initial restore pass has run, successful or
// not. The route guard waits on it before deciding a redirect.
func (s *SessionService) Settled() <-chan struct{} {
	return s.settled
}

func (s *SessionService) establish(result *api.LoginResult) error {
	expiresAt := s.expiryFor(result)
	if err := s.store.SaveSession(result.Token, result.RefreshToken, &result.User, expiresAt); err != nil {
		return err
	}

	user := &result.User
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.settle()

	if fn := s.establishHook(); fn != nil {
		fn(user)
	}

	s.toasts.Success("Welcome, " + result.User.Name + "!")
	return nil
}

func (s *SessionService) establishHook() func(*models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.onEstablish
}

// expiryFor prefers the token's own exp claim, then the server-provided
// lifetime, then the configured fallback.
func (s *SessionService) expiryFor(result *api.LoginResult) time.Time {
	if exp, ok := utils.TokenExpiry(result.Token); ok {
		return exp
	}
	if result.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	}
	return time.Now().Add(s.ttl)
}

func (s *SessionService) notifyValidation(err error) {
	var vErr *api.ValidationError
	if errors.As(err, &vErr) {
		s.toasts.Error(vErr.Message)
	}
}

func (s *SessionService) settle() {
	s.settleOnce.Do(func() {
		close(s.settled)
	})
}
