package service

import (
	"context"
	"errors"

	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/security"
)

// ErrInvalidCredentials deliberately covers both unknown email and wrong
// password so a caller cannot probe which emails are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, email, passwordHash, name string) (user.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
}

func NewAuthService(users UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Register hashes the password, inserts the user and issues a bearer token
// bound to the new identity. Duplicate emails surface as user.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, req user.RegisterRequest) (string, error) {
	hash, err := security.HashPassword(req.Password)

	if err != nil {
		return "", err
	}

	u, err := s.users.Create(ctx, req.Email, hash, req.Name)

	if err != nil {
		return "", err
	}

	return s.tokens.GenerateToken(u.ID)
}

func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	err = security.CheckPassword(u.PasswordHash, req.Password)

	if err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(u.ID)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (user.User, error) {
	return s.users.GetByID(ctx, userID)
}
