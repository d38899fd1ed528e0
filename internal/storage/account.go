package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillbridge/server/internal/domain"
	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"
)

const modelAccount = "Account"

type accountRepository struct {
	store *bolthold.Store
}

func NewAccountRepository(store *bolthold.Store) domain.AccountRepository {
	return &accountRepository{store: store}
}

// Insert stores an account for an existing user.
func (r *accountRepository) Insert(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	return r.store.Bolt().Update(func(tx *bolt.Tx) error {
		if err := requireUser(r.store, tx, account.UserID, modelAccount); err != nil {
			return err
		}
		err := r.store.TxInsert(tx, account.ID, account)
		if errors.Is(err, bolthold.ErrKeyExists) {
			return uniqueViolation(modelAccount, err, "id")
		}
		if err != nil {
			return fmt.Errorf("inserting account: %w", err)
		}
		return nil
	})
}

func (r *accountRepository) FindByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var accounts []domain.Account
	err := r.store.Find(&accounts, bolthold.Where("UserID").Eq(userID).Index("UserID"))
	if err != nil {
		return nil, fmt.Errorf("finding accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) FindCredential(ctx context.Context, userID string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var accounts []domain.Account
	query := bolthold.Where("UserID").Eq(userID).Index("UserID").And("ProviderID").Eq(domain.CredentialProvider)
	if err := r.store.Find(&accounts, query); err != nil {
		return nil, fmt.Errorf("finding credential account: %w", err)
	}
	if len(accounts) == 0 {
		return nil, notFound(modelAccount, bolthold.ErrNotFound)
	}
	return &accounts[0], nil
}

func (r *accountRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	accounts, err := r.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

func validateAccount(account *domain.Account) error {
	switch {
	case account == nil:
		return &ValidationError{Model: modelAccount, Field: "account", Reason: "is nil"}
	case account.ID == "":
		return &ValidationError{Model: modelAccount, Field: "id", Reason: "is required"}
	case account.UserID == "":
		return &ValidationError{Model: modelAccount, Field: "userId", Reason: "is required"}
	case account.ProviderID == "":
		return &ValidationError{Model: modelAccount, Field: "providerId", Reason: "is required"}
	}
	return nil
}

func requireUser(store *bolthold.Store, tx *bolt.Tx, userID, model string) error {
	var user domain.User
	err := store.TxGet(tx, userID, &user)
	if errors.Is(err, bolthold.ErrNotFound) {
		return foreignKeyViolation(model, "userId")
	}
	if err != nil {
		return fmt.Errorf("checking user %s: %w", userID, err)
	}
	return nil
}
