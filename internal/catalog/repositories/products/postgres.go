package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX, so the same
// code runs on *sql.DB and inside dbx.WithTx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productCols = `id, name, keywords, stock, price, description, category, active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var (
		keywords    []byte
		description sql.NullString
		category    sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &keywords, &p.Stock, &p.Price,
		&description, &category, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &p.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords: %w", err)
		}
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if description.Valid {
		p.Description = &description.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	return p, nil
}

func encodeKeywords(k []string) (string, error) {
	if k == nil {
		k = []string{}
	}
	b, err := json.Marshal(k)
	if err != nil {
		return "", fmt.Errorf("encode keywords: %w", err)
	}
	return string(b), nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	keywords, err := encodeKeywords(p.Keywords)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO products (name, keywords, stock, price, description, category)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + productCols

	out, err := scanProduct(r.db.QueryRowContext(ctx, query,
		p.Name, keywords, p.Stock, p.Price, p.Description, p.Category))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + productCols + ` FROM products WHERE active ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, id string) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetActive(ctx context.Context, id string) (*models.Product, error) {
	return r.getOne(ctx, `SELECT `+productCols+` FROM products WHERE id = $1 AND active`, id)
}

// GetForUpdate loads a product regardless of its active flag and locks the
// row until the enclosing transaction ends.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return r.getOne(ctx, `SELECT `+productCols+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	keywords, err := encodeKeywords(p.Keywords)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE products
		 SET name = $2, keywords = $3, stock = $4, price = $5, description = $6,
		     category = $7, active = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + productCols

	out, err := scanProduct(r.db.QueryRowContext(ctx, query,
		p.ID, p.Name, keywords, p.Stock, p.Price, p.Description, p.Category, p.Active))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Sell takes one unit of stock in a single conditional statement, so two
// concurrent sales of the last unit cannot both succeed. When nothing was
// updated the product is probed to tell a missing product from an empty one.
func (r *PostgresRepository) Sell(ctx context.Context, id string) (*models.Product, error) {
	query :=
		`UPDATE products
		 SET stock = stock - 1, updated_at = now()
		 WHERE id = $1 AND active AND stock > 0
		 RETURNING ` + productCols

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND active)`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if !exists {
		return nil, common.ErrorNotFound
	}
	return nil, common.ErrInsufficientStock
}
