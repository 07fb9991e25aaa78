package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tiendapos/pos/internal/platform/httpx"
	"github.com/tiendapos/pos/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
	cost int
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost used when provisioning accounts.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.cost = cost
	return s
}

// Authenticate validates username/password credentials. Every account goes
// through the bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Profile{}, fmt.Errorf("%w: usuario y contraseña son requeridos", httpx.ErrValidation)
	}
	acc, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Profile{}, shared.ErrInvalidCredentials
		}
		return Profile{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return Profile{}, shared.ErrInvalidCredentials
	}
	return Profile{Username: acc.Username, FullName: acc.FullName}, nil
}

// EnsureInitialAccount provisions the administrator account when it does not
// exist yet. An existing account keeps its password.
func (s *Service) EnsureInitialAccount(ctx context.Context, initial InitialAccount) (bool, error) {
	username := strings.TrimSpace(initial.Username)
	if username == "" {
		return false, nil
	}
	if initial.Password == "" {
		return false, fmt.Errorf("auth: password required for initial account %q", username)
	}
	fullName := strings.TrimSpace(initial.FullName)
	if fullName == "" {
		fullName = "Administrador del Sistema"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(initial.Password), s.cost)
	if err != nil {
		return false, fmt.Errorf("auth: hash initial password: %w", err)
	}
	return s.repo.CreateIfMissing(ctx, username, fullName, string(hash))
}
