package users

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/sangpi/chatvault/internal/common"
	"github.com/sangpi/chatvault/internal/dbx"
	"github.com/sangpi/chatvault/internal/server/auth"
	"github.com/sangpi/chatvault/internal/server/config"
	"github.com/sangpi/chatvault/internal/server/resumetokens"
)

const saltSize = 16

// TokenPair bundles a short-lived access token and a long-lived,
// server-revocable resume token.
type TokenPair struct {
	AccessToken string
	ResumeToken string
}

// ResumeTokenRepoFactory builds a resume-token repository bound to the
// given handle, so token rotation can run on an open transaction.
type ResumeTokenRepoFactory func(db dbx.DBTX) resumetokens.Repository

// Service provides authentication-related operations:
//   - Register: create users
//   - VerifyPassword: check a credential without minting tokens
//   - Login: verify credentials and mint tokens
//   - Resume: rotate a resume token and mint a new access token
//   - Logout: revoke a resume token
type Service struct {
	db                          *sql.DB
	repo                        Repository
	resumeTokens                ResumeTokenRepoFactory
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	resumeTokenValidityDuration time.Duration
}

// NewService constructs a Service using repositories and server config.
func NewService(db *sql.DB, repo Repository, resumeTokens ResumeTokenRepoFactory, cfg *config.Config) *Service {
	return &Service{
		db:                          db,
		repo:                        repo,
		resumeTokens:                resumeTokens,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		resumeTokenValidityDuration: cfg.ResumeTokenValidityDuration,
	}
}

// hashPassword derives the stored digest from a plaintext password and a
// per-user salt. argon2id parameters follow the library's recommended
// interactive settings.
func hashPassword(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Register creates a new user with a fresh random salt. A username collision
// surfaces as common.ErrDuplicateUsername and leaves the existing record
// untouched.
func (s *Service) Register(ctx context.Context, username string, password []byte) (*User, error) {
	salt := common.GenerateRandByteArray(saltSize)

	user := &User{
		Username:     username,
		Salt:         salt,
		PasswordHash: hashPassword(password, salt),
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// VerifyPassword reports whether the password matches the stored digest for
// username. Unknown user and wrong password are indistinguishable: both
// return false, and the digest is recomputed either way so the two cases
// take comparable time.
func (s *Service) VerifyPassword(ctx context.Context, username string, password []byte) (bool, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			hashPassword(password, common.GenerateRandByteArray(saltSize))
			return false, nil
		}
		return false, common.ErrInternal
	}

	candidate := hashPassword(password, user.Salt)
	return subtle.ConstantTimeCompare(user.PasswordHash, candidate) == 1, nil
}

// Login verifies the credential and, on success, returns a new TokenPair.
// Any verification failure maps to common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username string, password []byte) (*TokenPair, error) {
	ok, err := s.VerifyPassword(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, username, tx)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Resume validates a resume token, rotates it transactionally, and returns
// the username it belongs to plus a fresh TokenPair. Expired tokens yield
// common.ErrResumeTokenExpired; unknown tokens yield common.ErrUnauthorized.
func (s *Service) Resume(ctx context.Context, resumeToken string) (string, *TokenPair, error) {
	token, err := s.resumeTokens(s.db).Find(ctx, resumeToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("error searching resume token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return "", nil, common.ErrResumeTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.resumeTokens(tx).Delete(ctx, resumeToken); err != nil {
			return fmt.Errorf("error rotating resume token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.Username, tx)
		return genErr
	})
	if err != nil {
		return "", nil, err
	}

	return token.Username, pair, nil
}

// Logout revokes the given resume token. Revoking an unknown token is a
// no-op, so logout is idempotent.
func (s *Service) Logout(ctx context.Context, resumeToken string) error {
	return s.resumeTokens(s.db).Delete(ctx, resumeToken)
}

// Count returns the total number of registered users (admin dashboard).
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Usernames returns all registered usernames (admin dashboard).
func (s *Service) Usernames(ctx context.Context) ([]string, error) {
	return s.repo.Usernames(ctx)
}

func (s *Service) generateAccessToken(username string) (string, error) {
	return auth.GenerateToken(username, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *Service) generateResumeToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *Service) generateTokenPair(ctx context.Context, username string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(username)
	if err != nil {
		return nil, common.ErrInternal
	}
	resume, err := s.generateResumeToken()
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := s.resumeTokens(tx).Create(ctx, username, resume, s.resumeTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{AccessToken: access, ResumeToken: resume}, nil
}
