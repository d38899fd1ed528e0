package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/apperr"
	"github.com/skillbridge/server/internal/auth"
	"github.com/skillbridge/server/internal/domain"
	"github.com/skillbridge/server/internal/storage"
)

type ClientMeta struct {
	IPAddress string
	UserAgent string
}

type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	Session   *domain.Session
}

type AuthService struct {
	users    domain.UserRepository
	accounts domain.AccountRepository
	sessions domain.SessionRepository
	tokens   *auth.TokenManager
	now      func() time.Time
}

func NewAuthService(users domain.UserRepository, accounts domain.AccountRepository, sessions domain.SessionRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:    users,
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		now:      time.Now,
	}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string, meta ClientMeta) (*SignInResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if isNotFound(err) {
		return nil, apperr.Wrap(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}

	account, err := s.accounts.FindCredential(ctx, user.ID)
	if isNotFound(err) {
		return nil, apperr.Wrap(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("finding credential account: %w", err)
	}

	ok, err := auth.CheckPassword(account.Password, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Wrap(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password")
	}
	if user.IsBanned() {
		return nil, apperr.Wrap(domain.ErrUserBanned, http.StatusForbidden, "Your account has been banned")
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.Issue(user.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	log.WithFields(log.Fields{
		"component": "auth",
		"userID":    user.ID,
		"sessionID": sessionID,
	}).Info("user signed in")

	return &SignInResult{Token: token, ExpiresAt: expiresAt, User: user, Session: session}, nil
}

// Authenticate resolves a bearer token to its user. The token must verify and
// its session must still be stored.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if isNotFound(err) {
		return nil, apperr.Unauthorized("Session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding session: %w", err)
	}
	if session.ID != claims.SessionID || session.UserID != claims.UserID {
		return nil, apperr.Unauthorized("Session not found")
	}
	if session.Expired(s.now()) {
		return nil, apperr.Wrap(domain.ErrSessionExpired, http.StatusUnauthorized, "Session expired")
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading session user: %w", err)
	}
	if user.IsBanned() {
		return nil, apperr.Wrap(domain.ErrUserBanned, http.StatusForbidden, "Your account has been banned")
	}
	return user, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return err
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var known *storage.KnownRequestError
	return errors.As(err, &known) && known.Code == storage.CodeRecordNotFound
}
