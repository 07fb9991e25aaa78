package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiendapos/pos/internal/platform/httpx"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, username, fullName, passwordHash string) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// ProtectedUsername names the account that cannot be deleted.
	ProtectedUsername string
	BcryptCost        int
}

// Service handles user business logic.
type Service struct {
	repo      RepositoryPort
	protected string
	cost      int
	validate  *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cfg ServiceConfig) *Service {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	protected := strings.TrimSpace(cfg.ProtectedUsername)
	if protected == "" {
		protected = "admin"
	}
	return &Service{repo: repo, protected: protected, cost: cost, validate: httpx.NewValidator()}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// CreateUser hashes the password and stores the account.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	if err := httpx.Validate(s.validate, input); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.repo.CreateUser(ctx, input.Username, input.FullName, string(hash))
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Username: input.Username, FullName: input.FullName}, nil
}

// DeleteUser removes any account except the protected administrator.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: se requiere el ID del usuario", httpx.ErrValidation)
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == s.protected {
		return ErrProtectedUser
	}
	return s.repo.DeleteUser(ctx, id)
}
