package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Repository manages the flat user collection.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*User, error)
}

// Service handles authentication and account administration. This is the
// one surface where denial is explicit: account-admin failures and
// duplicate usernames return errors the transport converts into error
// events, unlike the silently dropped structural mutations.
type Service struct {
	users  Repository
	logger *slog.Logger
}

// NewService creates an account service.
func NewService(users Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{users: users, logger: logger}
}

// Login verifies credentials and returns the user's profile.
func (s *Service) Login(ctx context.Context, username, password string) (*Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &Profile{Username: u.Username, Role: u.Role}, nil
}

// CreateUser registers a new account. Admin only.
func (s *Service) CreateUser(ctx context.Context, actor auth.Actor, username, password string, role auth.Role) (*Profile, error) {
	if !auth.Allowed(actor.Role, auth.CategoryAccountAdmin) {
		return nil, ErrDenied
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &Profile{Username: u.Username, Role: u.Role}, nil
}

// DeleteUser removes an account. Admin only.
func (s *Service) DeleteUser(ctx context.Context, actor auth.Actor, username string) error {
	if !auth.Allowed(actor.Role, auth.CategoryAccountAdmin) {
		return ErrDenied
	}
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// ListUsers returns every profile. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor auth.Actor) ([]Profile, error) {
	if !auth.Allowed(actor.Role, auth.CategoryAccountAdmin) {
		return nil, ErrDenied
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, Profile{Username: u.Username, Role: u.Role})
	}
	return profiles, nil
}

// EnsureDefaultAdmin seeds an admin account on first run so the system is
// reachable before any users exist.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	existing, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	s.logger.Info("seeding default admin account", "username", username)
	return s.users.Create(ctx, &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
		CreatedAt:    time.Now(),
	})
}
