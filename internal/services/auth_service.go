package services

import (
	"errors"
	"time"

	"gymsite/internal/domain"
	"gymsite/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService signs CMS editors in and out. Accounts that cannot edit site
// content are refused at login with the same error as a bad password.
type AuthService struct {
	Users *repos.UserRepo
	// IdleTimeout ends sessions not seen for this long. Zero keeps them.
	IdleTimeout time.Duration
}

func NewAuthService(users *repos.UserRepo, idle time.Duration) *AuthService {
	return &AuthService{Users: users, IdleTimeout: idle}
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if !u.CanWrite() {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser returns the account signed in on sid, or an error once the
// session has gone idle.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid, s.IdleTimeout)
}

// PruneSessions drops idle sessions left over from earlier runs.
func (s *AuthService) PruneSessions() (int64, error) {
	return s.Users.PruneSessions(s.IdleTimeout)
}
