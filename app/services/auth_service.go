// Package services holds the business logic between controllers and
// repositories.
package services

import (
	"context"
	"errors"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/app/repositories"
	"github.com/themelissanyc/melissa/pkg/auth"
	"github.com/themelissanyc/melissa/pkg/middleware"
)

// ErrInvalidCredentials covers both an unknown account and a wrong password,
// so the login response leaks neither.
var ErrInvalidCredentials = errors.New("services: invalid credentials")

// ErrUsernameTaken and ErrEmailTaken report registration conflicts.
var (
	ErrUsernameTaken = errors.New("services: username already exists")
	ErrEmailTaken    = errors.New("services: email already exists")
)

type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login resolves the account by email or username and issues a token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Register creates an account. New accounts default to the "user" role;
// admin accounts are provisioned through the CLI, never self-service.
func (s *AuthService) Register(ctx context.Context, in *models.RegisterInput) (*models.User, error) {
	existing, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Username == in.Username {
			return nil, ErrUsernameTaken
		}
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" || role == models.RoleAdmin {
		role = models.RoleUser
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// authUserSource adapts the user repository to the auth middleware.
type authUserSource struct {
	users repositories.UserRepository
}

// NewAuthUserSource wires middleware.Authenticate to account storage.
func NewAuthUserSource(users repositories.UserRepository) middleware.UserSource {
	return &authUserSource{users: users}
}

func (s *authUserSource) FindAuthUser(ctx context.Context, id string) (*middleware.AuthUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &middleware.AuthUser{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
