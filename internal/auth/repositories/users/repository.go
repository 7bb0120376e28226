package users

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/auth/models"
)

// Repository persists users. Create reports a duplicate email as
// common.ErrConflict; lookups report a missing row as common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
