// Package services contains the server-side application services sitting
// between the HTTP handlers and the repositories.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/common"
	"github.com/dmitrijs2005/histkeeper/internal/server/auth"
	"github.com/dmitrijs2005/histkeeper/internal/server/config"
	"github.com/dmitrijs2005/histkeeper/internal/server/models"
	"github.com/dmitrijs2005/histkeeper/internal/server/repositories/users"
)

// UserService implements registration and login. The server never sees
// passwords or keys: the client sends a salt it generated and a verifier
// derived from its master key, and gets a signed session token back.
type UserService struct {
	repo            users.Repository
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:            repo,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
	}
}

// Register stores the account and immediately issues a session, so a fresh
// install can start syncing without a separate login round trip.
func (s *UserService) Register(ctx context.Context, username string, salt, verifier []byte) (string, error) {
	user := &models.User{
		Username: username,
		Salt:     salt,
		Verifier: verifier,
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", err
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidity)
}

// GetSalt returns the account salt. For an unknown username a random decoy
// salt is returned instead of an error, so the endpoint cannot be used to
// enumerate accounts.
func (s *UserService) GetSalt(ctx context.Context, username string) ([]byte, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.GenerateRandByteArray(32), nil
		}
		return nil, common.ErrorInternal
	}
	return user.Salt, nil
}

// Login checks the verifier in constant time and issues a session token.
func (s *UserService) Login(ctx context.Context, username string, verifierCandidate []byte) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if subtle.ConstantTimeCompare(user.Verifier, verifierCandidate) != 1 {
		return "", common.ErrorUnauthorized
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.sessionValidity)
}
