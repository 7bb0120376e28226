// Package services holds the catalog business logic: product CRUD with
// generated descriptions and categories, and sales with low-stock alerts.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/dispatch"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
	"github.com/dmitrijs2005/shopkeeper/internal/catalog/repositories/products"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/google/uuid"
)

const (
	minNameLength = 3
	maxNameLength = 200
	maxKeywords   = 10

	// A supplied description feeds category generation, which needs at
	// least this much text to work with.
	minDescriptionLength = 10
	maxDescriptionLength = 2000

	DefaultLowStockThreshold = 10
)

// Generator produces product texts. A failure aborts the write that needed
// the text.
type Generator interface {
	GenerateDescription(ctx context.Context, name string, keywords []string) (string, error)
	GenerateCategory(ctx context.Context, name, description string) (string, error)
}

// AlertDispatcher accepts low-stock events without blocking.
type AlertDispatcher interface {
	Dispatch(ev models.StockEvent) bool
}

// TxFunc runs fn inside one transaction, committing only when fn succeeds.
type TxFunc func(ctx context.Context, fn func(ctx context.Context, repo products.Repository) error) error

// PostgresTx runs row-locking transactions on db.
func PostgresTx(db *sql.DB) TxFunc {
	return func(ctx context.Context, fn func(ctx context.Context, repo products.Repository) error) error {
		return dbx.WithTx(ctx, db, dbx.RowLock, func(ctx context.Context, tx dbx.DBTX) error {
			return fn(ctx, products.NewPostgresRepository(tx))
		})
	}
}

type ProductService struct {
	repo      products.Repository
	tx        TxFunc
	ai        Generator
	alerts    AlertDispatcher
	threshold int
	logger    logging.Logger
}

func NewProductService(repo products.Repository, tx TxFunc, ai Generator, alerts AlertDispatcher, threshold int, logger logging.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		tx:        tx,
		ai:        ai,
		alerts:    alerts,
		threshold: threshold,
		logger:    logger.With("module", "product_service"),
	}
}

// CleanKeywords trims every keyword and drops the blank ones.
func CleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func validateName(name string) error {
	n := len([]rune(name))
	if n < minNameLength || n > maxNameLength {
		return common.NewValidationError("name", fmt.Sprintf("name must be %d to %d characters", minNameLength, maxNameLength))
	}
	return nil
}

func validateKeywords(k []string) error {
	if len(k) < 1 || len(k) > maxKeywords {
		return common.NewValidationError("keywords", fmt.Sprintf("between 1 and %d keywords are required", maxKeywords))
	}
	return nil
}

// validateDescription checks a supplied description; nil means absent.
func validateDescription(d *string) error {
	if d == nil {
		return nil
	}
	n := len([]rune(*d))
	if n < minDescriptionLength || n > maxDescriptionLength {
		return common.NewValidationError("description",
			fmt.Sprintf("description must be %d to %d characters", minDescriptionLength, maxDescriptionLength))
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return common.NewValidationError("stock", "stock must not be negative")
	}
	return nil
}

func validatePrice(price float64) error {
	if price < 0 {
		return common.NewValidationError("price", "price must not be negative")
	}
	return nil
}

// optionalText treats a blank value as absent.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// parseID rejects ids that cannot exist so they never reach the database.
func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("product %q: %w", id, common.ErrorNotFound)
	}
	return u.String(), nil
}

// Create stores a new product. A missing description is generated from the
// name and keywords, and a missing category from the name and the final
// description. Generation happens before the insert, so a failure leaves
// nothing behind.
func (s *ProductService) Create(ctx context.Context, in models.ProductCreate) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	keywords := CleanKeywords(in.Keywords)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateKeywords(keywords); err != nil {
		return nil, err
	}
	if err := validateStock(in.Stock); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	description := optionalText(in.Description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if description == nil {
		text, err := s.ai.GenerateDescription(ctx, name, keywords)
		if err != nil {
			return nil, fmt.Errorf("generate description: %w", err)
		}
		description = &text
	}

	category := optionalText(in.Category)
	if category == nil {
		text, err := s.ai.GenerateCategory(ctx, name, *description)
		if err != nil {
			return nil, fmt.Errorf("generate category: %w", err)
		}
		category = &text
	}

	p, err := s.repo.Create(ctx, &models.Product{
		Name:        name,
		Keywords:    keywords,
		Stock:       in.Stock,
		Price:       in.Price,
		Description: description,
		Category:    category,
		Active:      true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.repo.ListActive(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetActive(ctx, id)
}

// Update applies a partial update inside one transaction with the row
// locked. The description is regenerated when the name or keywords change
// and no description was supplied; the category is regenerated whenever the
// description changed and no category was supplied. A generation failure
// rolls the whole update back.
func (s *ProductService) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var out *models.Product
	err = s.tx(ctx, func(ctx context.Context, repo products.Repository) error {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		changed := false
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if err := validateName(name); err != nil {
				return err
			}
			changed = changed || name != p.Name
			p.Name = name
		}
		if upd.Keywords != nil {
			keywords := CleanKeywords(*upd.Keywords)
			if err := validateKeywords(keywords); err != nil {
				return err
			}
			changed = changed || !slices.Equal(keywords, p.Keywords)
			p.Keywords = keywords
		}
		if upd.Stock != nil {
			if err := validateStock(*upd.Stock); err != nil {
				return err
			}
			p.Stock = *upd.Stock
		}
		if upd.Price != nil {
			if err := validatePrice(*upd.Price); err != nil {
				return err
			}
			p.Price = *upd.Price
		}
		if upd.Active != nil {
			p.Active = *upd.Active
		}

		explicitDescription := optionalText(upd.Description)
		if err := validateDescription(explicitDescription); err != nil {
			return err
		}

		descriptionChanged := false
		if d := explicitDescription; d != nil {
			descriptionChanged = p.Description == nil || *p.Description != *d
			p.Description = d
		} else if changed {
			text, err := s.ai.GenerateDescription(ctx, p.Name, p.Keywords)
			if err != nil {
				return fmt.Errorf("generate description: %w", err)
			}
			p.Description = &text
			descriptionChanged = true
		}

		if c := optionalText(upd.Category); c != nil {
			p.Category = c
		} else if descriptionChanged {
			desc := ""
			if p.Description != nil {
				desc = *p.Description
			}
			text, err := s.ai.GenerateCategory(ctx, p.Name, desc)
			if err != nil {
				return fmt.Errorf("generate category: %w", err)
			}
			p.Category = &text
		}

		out, err = repo.Update(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "product updated", "product_id", out.ID)
	return out, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "product deleted", "product_id", id)
	return nil
}

// Sell takes one unit of stock. When the remaining stock is below the
// threshold an alert is handed to the dispatcher; the sale succeeds whether
// or not the alert is accepted.
func (s *ProductService) Sell(ctx context.Context, id string) (*models.SellResponse, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Sell(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "product sold", "product_id", p.ID, "new_stock", p.Stock)

	sent := false
	if dispatch.NeedsAlert(p.Stock, s.threshold) {
		sent = s.alerts.Dispatch(models.StockEvent{
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
		})
		s.logger.Info(ctx, "low stock alert scheduled", "product_id", p.ID, "stock", p.Stock, "accepted", sent)
	}

	return &models.SellResponse{
		ID:                p.ID,
		Name:              p.Name,
		Stock:             p.Stock,
		LowStockAlertSent: sent,
	}, nil
}
