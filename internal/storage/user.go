package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/skillbridge/server/internal/domain"
	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"
)

const modelUser = "User"

type userRepository struct {
	store *bolthold.Store
}

func NewUserRepository(store *bolthold.Store) domain.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Insert(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	err := r.store.Insert(user.ID, user)
	switch {
	case errors.Is(err, bolthold.ErrKeyExists):
		return uniqueViolation(modelUser, err, "id")
	case errors.Is(err, bolthold.ErrUniqueExists):
		return uniqueViolation(modelUser, err, "email")
	case err != nil:
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// InsertWithAccount writes the user and the account in one transaction, so a
// failed account insert leaves no user behind.
func (r *userRepository) InsertWithAccount(ctx context.Context, user *domain.User, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	if account.UserID != user.ID {
		return foreignKeyViolation(modelAccount, "userId")
	}

	return r.store.Bolt().Update(func(tx *bolt.Tx) error {
		err := r.store.TxInsert(tx, user.ID, user)
		switch {
		case errors.Is(err, bolthold.ErrKeyExists):
			return uniqueViolation(modelUser, err, "id")
		case errors.Is(err, bolthold.ErrUniqueExists):
			return uniqueViolation(modelUser, err, "email")
		case err != nil:
			return fmt.Errorf("inserting user: %w", err)
		}

		err = r.store.TxInsert(tx, account.ID, account)
		if errors.Is(err, bolthold.ErrKeyExists) {
			return uniqueViolation(modelAccount, err, "id")
		}
		if err != nil {
			return fmt.Errorf("inserting account: %w", err)
		}
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	if err := r.store.Get(id, &user); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, notFound(modelUser, err)
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var users []domain.User
	err := r.store.Find(&users, bolthold.Where("Email").Eq(normalizeEmail(email)))
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, notFound(modelUser, bolthold.ErrNotFound)
	}
	return &users[0], nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	err := r.store.Update(user.ID, user)
	switch {
	case errors.Is(err, bolthold.ErrNotFound):
		return notFound(modelUser, err)
	case errors.Is(err, bolthold.ErrUniqueExists):
		return uniqueViolation(modelUser, err, "email")
	case err != nil:
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// Delete removes a user that owns no accounts or sessions.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.store.Bolt().Update(func(tx *bolt.Tx) error {
		var user domain.User
		if err := r.store.TxGet(tx, id, &user); err != nil {
			if errors.Is(err, bolthold.ErrNotFound) {
				return notFound(modelUser, err)
			}
			return fmt.Errorf("getting user: %w", err)
		}

		var related []string
		var accounts []domain.Account
		if err := r.store.TxFind(tx, &accounts, bolthold.Where("UserID").Eq(id)); err != nil {
			return fmt.Errorf("finding user accounts: %w", err)
		}
		if len(accounts) > 0 {
			related = append(related, "accounts")
		}
		var sessions []domain.Session
		if err := r.store.TxFind(tx, &sessions, bolthold.Where("UserID").Eq(id)); err != nil {
			return fmt.Errorf("finding user sessions: %w", err)
		}
		if len(sessions) > 0 {
			related = append(related, "sessions")
		}
		if len(related) > 0 {
			return requiredRelationViolation(modelUser, related...)
		}

		if err := r.store.TxDelete(tx, id, &domain.User{}); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		return nil
	})
}

func validateUser(user *domain.User) error {
	switch {
	case user == nil:
		return &ValidationError{Model: modelUser, Field: "user", Reason: "is nil"}
	case user.ID == "":
		return &ValidationError{Model: modelUser, Field: "id", Reason: "is required"}
	case !strings.Contains(user.Email, "@"):
		return &ValidationError{Model: modelUser, Field: "email", Reason: "must be an email address"}
	}
	switch user.Role {
	case domain.RoleStudent, domain.RoleTutor, domain.RoleAdmin:
	default:
		return &ValidationError{Model: modelUser, Field: "role", Reason: fmt.Sprintf("has unknown value %q", user.Role)}
	}
	switch user.Status {
	case domain.StatusActive, domain.StatusBanned:
	default:
		return &ValidationError{Model: modelUser, Field: "status", Reason: fmt.Sprintf("has unknown value %q", user.Status)}
	}
	user.Email = normalizeEmail(user.Email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
