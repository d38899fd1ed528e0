package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/auth"
	"github.com/skillbridge/server/internal/domain"
)

// AdminReport is what the verification command prints.
type AdminReport struct {
	User     *domain.User
	Accounts int
	Sessions int
}

type AdminService struct {
	users    domain.UserRepository
	accounts domain.AccountRepository
	sessions domain.SessionRepository
	now      func() time.Time
}

func NewAdminService(users domain.UserRepository, accounts domain.AccountRepository, sessions domain.SessionRepository) *AdminService {
	return &AdminService{users: users, accounts: accounts, sessions: sessions, now: time.Now}
}

func (s *AdminService) Verify(ctx context.Context, email string) (*AdminReport, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("finding admin: %w", err)
	}

	accounts, err := s.accounts.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("counting accounts: %w", err)
	}
	sessions, err := s.sessions.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	return &AdminReport{User: user, Accounts: accounts, Sessions: sessions}, nil
}

// Seed creates the admin user with a credential account. An existing user
// with the same email is returned with created=false; if that user has no
// credential account one is added and created is true.
func (s *AdminService) Seed(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return s.ensureCredential(ctx, existing, password)
	}
	if !isNotFound(err) {
		return nil, false, fmt.Errorf("checking existing admin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		EmailVerified: true,
		Role:          domain.RoleAdmin,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.InsertWithAccount(ctx, user, newCredentialAccount(user.ID, hash, now)); err != nil {
		return nil, false, fmt.Errorf("creating admin: %w", err)
	}

	log.WithFields(log.Fields{
		"component": "admin",
		"userID":    user.ID,
		"email":     user.Email,
	}).Info("admin user created")
	return user, true, nil
}

func (s *AdminService) ensureCredential(ctx context.Context, user *domain.User, password string) (*domain.User, bool, error) {
	_, err := s.accounts.FindCredential(ctx, user.ID)
	if err == nil {
		return user, false, nil
	}
	if !isNotFound(err) {
		return nil, false, fmt.Errorf("checking admin credential: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	if err := s.accounts.Insert(ctx, newCredentialAccount(user.ID, hash, s.now().UTC())); err != nil {
		return nil, false, fmt.Errorf("creating admin account: %w", err)
	}

	log.WithFields(log.Fields{
		"component": "admin",
		"userID":    user.ID,
	}).Warn("admin user had no credential account, created one")
	return user, true, nil
}

func newCredentialAccount(userID, hash string, now time.Time) *domain.Account {
	return &domain.Account{
		ID:         uuid.NewString(),
		UserID:     userID,
		AccountID:  userID,
		ProviderID: domain.CredentialProvider,
		Password:   hash,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
