package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillbridge/server/internal/domain"
	"github.com/timshannon/bolthold"
	bolt "go.etcd.io/bbolt"
)

const modelSession = "Session"

type sessionRepository struct {
	store *bolthold.Store
}

func NewSessionRepository(store *bolthold.Store) domain.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Insert(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}

	return r.store.Bolt().Update(func(tx *bolt.Tx) error {
		if err := requireUser(r.store, tx, session.UserID, modelSession); err != nil {
			return err
		}
		err := r.store.TxInsert(tx, session.ID, session)
		switch {
		case errors.Is(err, bolthold.ErrKeyExists):
			return uniqueViolation(modelSession, err, "id")
		case errors.Is(err, bolthold.ErrUniqueExists):
			return uniqueViolation(modelSession, err, "token")
		case err != nil:
			return fmt.Errorf("inserting session: %w", err)
		}
		return nil
	})
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sessions []domain.Session
	if err := r.store.Find(&sessions, bolthold.Where("Token").Eq(token)); err != nil {
		return nil, fmt.Errorf("finding session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, notFound(modelSession, bolthold.ErrNotFound)
	}
	return &sessions[0], nil
}

// DeleteByToken finds and removes the session in one transaction.
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.store.Bolt().Update(func(tx *bolt.Tx) error {
		var sessions []domain.Session
		if err := r.store.TxFind(tx, &sessions, bolthold.Where("Token").Eq(token)); err != nil {
			return fmt.Errorf("finding session: %w", err)
		}
		if len(sessions) == 0 {
			return notFound(modelSession, bolthold.ErrNotFound)
		}
		if err := r.store.TxDelete(tx, sessions[0].ID, &domain.Session{}); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		return nil
	})
}

func (r *sessionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var sessions []domain.Session
	if err := r.store.Find(&sessions, bolthold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return len(sessions), nil
}

func validateSession(session *domain.Session) error {
	switch {
	case session == nil:
		return &ValidationError{Model: modelSession, Field: "session", Reason: "is nil"}
	case session.ID == "":
		return &ValidationError{Model: modelSession, Field: "id", Reason: "is required"}
	case session.UserID == "":
		return &ValidationError{Model: modelSession, Field: "userId", Reason: "is required"}
	case session.Token == "":
		return &ValidationError{Model: modelSession, Field: "token", Reason: "is required"}
	case session.ExpiresAt.IsZero():
		return &ValidationError{Model: modelSession, Field: "expiresAt", Reason: "is required"}
	}
	return nil
}
