// Package users is the credential store: it persists usernames with their
// password hashes. Username uniqueness is enforced by a UNIQUE constraint, so
// concurrent sign-ups of the same name cannot both succeed.
package users

import (
	"context"

	"github.com/dmitrijs2005/attendance/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills in its ID. Returns
	// common.ErrorAlreadyExists when the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound when there is no such user.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
