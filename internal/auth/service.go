package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"laundry-system/internal/auth/repository"
	"laundry-system/internal/domain"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (Session, error)
	// ExchangeToken implements the trusted intranet hand-off: the token is
	// the user id, the profile is looked up and a local session is
	// synthesized from it.
	ExchangeToken(ctx context.Context, token string) (Session, error)
	Logout(token string)
	Authenticate(token string) (Session, bool)
}

type AuthService struct {
	users    repository.UserRepositoryInterface
	sessions *SessionStore
}

func NewAuthService(users repository.UserRepositoryInterface, sessions *SessionStore) AuthServiceInterface {
	return &AuthService{users: users, sessions: sessions}
}

// HashPassword is the stored credential format (hex SHA-256).
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, domain.Validationf("credentials", "email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return Session{}, domain.Validationf("credentials", "invalid email or password")
		}
		return Session{}, err
	}
	got := []byte(HashPassword(password))
	want := []byte(u.PasswordHash)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return Session{}, domain.Validationf("credentials", "invalid email or password")
	}
	return s.sessions.Create(u), nil
}

func (s *AuthService) ExchangeToken(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, domain.Validationf("token", "is required")
	}
	u, err := s.users.GetByUID(ctx, token)
	if err != nil {
		return Session{}, err
	}
	return s.sessions.Create(u), nil
}

func (s *AuthService) Logout(token string) { s.sessions.Delete(token) }

func (s *AuthService) Authenticate(token string) (Session, bool) {
	return s.sessions.Get(token)
}
