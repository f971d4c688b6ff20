// Package services contains the application services of the histkeeper
// client: authentication/key management and the sync engine.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/histkeeper/internal/client/remote"
	"github.com/dmitrijs2005/histkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/histkeeper/internal/common"
	"github.com/dmitrijs2005/histkeeper/internal/cryptox"
)

// AuthService owns the credential material the sync engine consumes: the
// master key file and the session token. The master key is derived from
// (password, salt) with argon2id, so logging in on a second machine
// reproduces the same key and all prior blobs stay decryptable. The server
// only ever sees a sha256 verifier of the key.
type AuthService struct {
	remote   remote.API
	metadata metadata.Repository
	keyPath  string
}

func NewAuthService(r remote.API, m metadata.Repository, keyPath string) *AuthService {
	return &AuthService{remote: r, metadata: m, keyPath: keyPath}
}

// Register creates the account, derives the master key from the password and
// a fresh random salt, and persists the key file and session locally.
func (a *AuthService) Register(ctx context.Context, username string, password []byte) error {
	salt := common.GenerateRandByteArray(32)

	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)

	session, err := a.remote.Register(ctx, username, salt, verifier)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return a.persist(ctx, username, key, session)
}

// Login fetches the account salt, re-derives the master key from the
// password, and exchanges the verifier for a session. On success the key
// file is (re)written, which is what makes history decryptable on a machine
// that has never seen it before.
func (a *AuthService) Login(ctx context.Context, username string, password []byte) error {
	salt, err := a.remote.GetSalt(ctx, username)
	if err != nil {
		return fmt.Errorf("get salt: %w", err)
	}

	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(key)

	session, err := a.remote.Login(ctx, username, verifier)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	return a.persist(ctx, username, key, session)
}

func (a *AuthService) persist(ctx context.Context, username string, key []byte, session string) error {
	if err := cryptox.SaveKey(a.keyPath, key); err != nil {
		return err
	}
	if err := a.metadata.Set(ctx, metadata.KeyUsername, []byte(username)); err != nil {
		return err
	}
	if err := a.metadata.Set(ctx, metadata.KeySession, []byte(session)); err != nil {
		return err
	}
	return nil
}

// Session returns the stored session token, or common.ErrorUnauthorized when
// the user has never logged in on this machine.
func (a *AuthService) Session(ctx context.Context) (string, error) {
	session, err := a.metadata.Get(ctx, metadata.KeySession)
	if err != nil {
		return "", err
	}
	if len(session) == 0 {
		return "", fmt.Errorf("not logged in: %w", common.ErrorUnauthorized)
	}
	return string(session), nil
}

// Key loads the master key from the key file.
func (a *AuthService) Key() ([]byte, error) {
	return cryptox.LoadKey(a.keyPath)
}

// Logout drops the locally stored session token. The key file is kept:
// local history must stay readable offline.
func (a *AuthService) Logout(ctx context.Context) error {
	return a.metadata.Delete(ctx, metadata.KeySession)
}
