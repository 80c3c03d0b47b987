// Package securestore persists the auth session across restarts. Values are
// sealed with AES-256-GCM under a key derived from a configured secret and
// carry an absolute expiry checked on every read.
package securestore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

const (
	KeyToken        = "sa_token"
	KeyTokenExp     = "sa_token_exp"
	KeyRefreshToken = "sa_refresh_token"
	KeyUser         = "sa_user"
)

var sessionKeys = []string{KeyToken, KeyTokenExp, KeyRefreshToken, KeyUser}

type Store struct {
	backend Backend
	key     []byte
	now     func() time.Time
}

func New(backend Backend, secret string) *Store {
	return &Store{
		backend: backend,
		key:     DeriveKey(secret),
		now:     time.Now,
	}
}

func (s *Store) SaveSession(token, refreshToken string, user *models.User, expiresAt time.Time) error {
	if token == "" || user == nil {
		return fmt.Errorf("token and user are required")
	}

	sealedToken, err := Encrypt(token, s.key)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	sealedUser, err := Encrypt(string(userJSON), s.key)
	if err != nil {
		return fmt.Errorf("seal user: %w", err)
	}

	if err := s.backend.Set(KeyToken, sealedToken); err != nil {
		return err
	}
	if err := s.backend.Set(KeyTokenExp, strconv.FormatInt(expiresAt.Unix(), 10)); err != nil {
		return err
	}
	if err := s.backend.Set(KeyUser, sealedUser); err != nil {
		return err
	}

	if refreshToken != "" {
		sealedRefresh, err := Encrypt(refreshToken, s.key)
		if err != nil {
			return fmt.Errorf("seal refresh token: %w", err)
		}
		if err := s.backend.Set(KeyRefreshToken, sealedRefresh); err != nil {
			return err
		}
	}

	return nil
}

// Token returns the stored auth token. An expired or unreadable token is
// treated as absent and the whole session record is cleared.
func (s *Store) Token() (string, bool) {
	if s.expired() {
		_ = s.Clear()
		return "", false
	}

	sealed, ok, err := s.backend.Get(KeyToken)
	if err != nil || !ok {
		return "", false
	}

	token, err := Decrypt(sealed, s.key)
	if err != nil {
		_ = s.Clear()
		return "", false
	}
	return token, true
}

func (s *Store) RefreshToken() (string, bool) {
	sealed, ok, err := s.backend.Get(KeyRefreshToken)
	if err != nil || !ok {
		return "", false
	}

	token, err := Decrypt(sealed, s.key)
	if err != nil {
		return "", false
	}
	return token, true
}

func (s *Store) User() (*models.User, bool) {
	sealed, ok, err := s.backend.Get(KeyUser)
	if err != nil || !ok {
		return nil, false
	}

	decrypted, err := Decrypt(sealed, s.key)
	if err != nil {
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(decrypted), &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (s *Store) IsAuthenticated() bool {
	if _, ok := s.Token(); !ok {
		return false
	}
	_, ok := s.User()
	return ok
}

func (s *Store) Clear() error {
	return s.backend.Delete(sessionKeys...)
}

func (s *Store) expired() bool {
	raw, ok, err := s.backend.Get(KeyTokenExp)
	if err != nil || !ok {
		return false
	}

	exp, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true
	}
	return s.now().After(time.Unix(exp, 0))
}
