package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTutor   Role = "TUTOR"
	RoleAdmin   Role = "ADMIN"
)

type UserStatus string

const (
	StatusActive UserStatus = "ACTIVE"
	StatusBanned UserStatus = "BANNED"
)

// CredentialProvider is the provider ID of email/password accounts.
const CredentialProvider = "credential"

type User struct {
	ID            string `boltholdKey:"ID"`
	Name          string
	Email         string `boltholdUnique:"UniqueEmail"`
	EmailVerified bool
	Image         string
	Role          Role
	Status        UserStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsBanned() bool {
	return u.Status == StatusBanned
}

// Account links a user to an auth provider. Credential accounts hold the
// password hash.
type Account struct {
	ID         string `boltholdKey:"ID"`
	UserID     string `boltholdIndex:"UserID"`
	AccountID  string
	ProviderID string
	Password   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Session struct {
	ID        string `boltholdKey:"ID"`
	UserID    string `boltholdIndex:"UserID"`
	Token     string `boltholdUnique:"UniqueToken"`
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type UserRepository interface {
	Insert(ctx context.Context, user *User) error
	// InsertWithAccount stores user and its first account atomically.
	InsertWithAccount(ctx context.Context, user *User, account *Account) error
	Get(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type AccountRepository interface {
	Insert(ctx context.Context, account *Account) error
	FindByUser(ctx context.Context, userID string) ([]Account, error)
	FindCredential(ctx context.Context, userID string) (*Account, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type SessionRepository interface {
	Insert(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
