package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dripwatch/dripwatch/internal/platform/auth"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike so login failures do not reveal which part was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	repo    Repository
	authCfg auth.Config
}

func NewService(repo Repository, authCfg auth.Config) *Service {
	return &Service{repo: repo, authCfg: authCfg}
}

// Register creates an employee with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, e *Employee, password string) error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if existing, err := s.repo.GetByEmail(ctx, e.Email); err == nil && existing != nil {
		return fmt.Errorf("email %s is already registered", e.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	e.PasswordHash = string(hash)
	return s.repo.Create(ctx, e)
}

// Login checks the password and issues a signed staff token.
func (s *Service) Login(ctx context.Context, email, password string) (*Employee, string, error) {
	e, err := s.repo.GetByEmail(ctx, email)
	if err != nil || e == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.IssueToken(s.authCfg, e.ID, e.Email, e.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return e, token, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Employee) error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Employee, int, error) {
	return s.repo.List(ctx, limit, offset)
}
