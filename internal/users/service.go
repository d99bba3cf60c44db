package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"legal-backend/internal/shared/auth"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service contains account business logic.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, fullName, password, role string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}
	if role == "" {
		role = RoleClient
	}
	if !validRole(role) {
		return User{}, errors.New("unknown role")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:             uuid.NewString(),
		Email:          email,
		FullName:       fullName,
		HashedPassword: hashed,
		Role:           role,
		IsActive:       true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if !user.IsActive {
		return User{}, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := auth.SignJWT(user.ID, user.Email, user.FullName, user.Role)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}
