// Package services contains server-side business logic. TokenService in this
// file issues, verifies, renews and revokes session tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/cryptox"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/config"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/repomanager"
)

// TokenValidity is how long a token stays active after issue or renewal.
const TokenValidity = time.Hour

// issueAttempts bounds retries when a freshly drawn id is already taken.
const issueAttempts = 3

// TokenService provides session-token operations:
//   - Issue: check a phone/password pair and mint a token
//   - Verify: boolean check that a token is active for a phone
//   - Renew: push an active token's expiry to now+1h
//   - Revoke: delete a token
type TokenService struct {
	repomanager repomanager.RepositoryManager
	secret      []byte
	now         func() time.Time
	newID       func() (string, error)
}

// NewTokenService constructs a TokenService using repositories and server config.
func NewTokenService(m repomanager.RepositoryManager, cfg *config.Config) *TokenService {
	return &TokenService{
		repomanager: m,
		secret:      []byte(cfg.HashingSecret),
		now:         time.Now,
		newID:       func() (string, error) { return common.MakeRandString(models.TokenIDLength) },
	}
}

// Issue returns a new token for phone if password matches the stored hash.
// A missing user and a wrong password both yield common.ErrorInvalidCredentials.
func (s *TokenService) Issue(ctx context.Context, phone, password string) (*models.Token, error) {
	user, err := s.repomanager.Users().Get(ctx, phone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error reading user: %w", err)
	}

	if !cryptox.Equal(cryptox.HashPassword(password, s.secret), user.HashedPassword) {
		return nil, common.ErrorInvalidCredentials
	}

	repo := s.repomanager.Tokens()
	for attempt := 0; attempt < issueAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("error generating token id: %w", err)
		}

		token := &models.Token{
			Phone:   phone,
			ID:      id,
			Expires: s.now().Add(TokenValidity).UnixMilli(),
		}

		err = repo.Create(ctx, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("error creating token: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: token id still taken after %d attempts: %w", common.ErrorInternal, issueAttempts, common.ErrorAlreadyExists)
}

// Verify reports whether id names an active token owned by phone. It never
// mutates the token; a storage failure counts as "not verified".
func (s *TokenService) Verify(ctx context.Context, id, phone string) bool {
	if id == "" || phone == "" {
		return false
	}
	token, err := s.repomanager.Tokens().Find(ctx, id)
	if err != nil {
		return false
	}
	return token.Phone == phone && token.ActiveAt(s.now())
}

// Active returns the token for id if it exists and has not expired, and
// common.ErrorForbidden otherwise.
func (s *TokenService) Active(ctx context.Context, id string) (*models.Token, error) {
	if id == "" {
		return nil, common.ErrorForbidden
	}
	token, err := s.repomanager.Tokens().Find(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorInvalidKey) {
			return nil, common.ErrorForbidden
		}
		return nil, fmt.Errorf("error reading token: %w", err)
	}
	if !token.ActiveAt(s.now()) {
		return nil, common.ErrorForbidden
	}
	return token, nil
}

// Get returns the stored token, expired or not.
func (s *TokenService) Get(ctx context.Context, id string) (*models.Token, error) {
	return s.repomanager.Tokens().Find(ctx, id)
}

// Renew extends an active token to now+TokenValidity. An expired token
// cannot be renewed and yields common.ErrTokenExpired.
func (s *TokenService) Renew(ctx context.Context, id string) (*models.Token, error) {
	repo := s.repomanager.Tokens()

	token, err := repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !token.ActiveAt(now) {
		return nil, common.ErrTokenExpired
	}

	token.Expires = now.Add(TokenValidity).UnixMilli()
	if err := repo.Update(ctx, token); err != nil {
		return nil, fmt.Errorf("error updating token: %w", err)
	}
	return token, nil
}

// Revoke deletes the token. An absent token yields common.ErrorNotFound.
func (s *TokenService) Revoke(ctx context.Context, id string) error {
	return s.repomanager.Tokens().Delete(ctx, id)
}
