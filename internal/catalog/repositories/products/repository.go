// Package products is the PostgreSQL store of catalog products.
package products

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
	GetActive(ctx context.Context, id string) (*models.Product, error)
	GetForUpdate(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Sell(ctx context.Context, id string) (*models.Product, error)
}
