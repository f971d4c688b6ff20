package users

import (
	"context"

	"github.com/dmitrijs2005/histkeeper/internal/server/models"
)

type Repository interface {
	// Create stores a new user and returns it with the generated id.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
