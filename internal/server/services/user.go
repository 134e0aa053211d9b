// Package services contains server-side business logic. This file implements
// UserService, which handles sign-up and login.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/common"
	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/server/auth"
	"github.com/dmitrijs2005/attendance/internal/server/models"
	"github.com/dmitrijs2005/attendance/internal/server/repositories/repomanager"
)

var (
	ErrMissingCredentials = common.NewValidationError("username and password are required")
	ErrPasswordTooLong    = common.NewValidationError(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
)

// TokenIssuer mints access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}

// UserService provides authentication-related operations:
// - Signup: hash the password and create the user
// - Login: verify credentials and mint an access token
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
	// dummyHash is verified against when the user does not exist, so unknown
	// and known usernames cost the same.
	dummyHash string
}

// NewUserService constructs a UserService. It hashes a throwaway password
// once to have a dummy hash in the configured algorithm.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenIssuer) (*UserService, error) {
	dummy, err := hasher.Hash("dummy-password-for-missing-users")
	if err != nil {
		return nil, err
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		dummyHash:   dummy,
	}, nil
}

// Signup creates a new user. The username is trimmed; the password is used
// as given. A taken username yields common.ErrorAlreadyExists.
func (s *UserService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, &models.User{UserName: username, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password and returns a signed access token. Unknown
// users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return "", err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.UserName)
	if err != nil {
		return "", fmt.Errorf("%w: error issuing token: %w", common.ErrorInternal, err)
	}
	return token, nil
}

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}
	if len(password) > auth.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
