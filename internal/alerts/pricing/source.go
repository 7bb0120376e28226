// Package pricing looks up a reference supplier price for low-stock alerts.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultFallbackPrice is used when no source can be reached.
const DefaultFallbackPrice = 99.99

// Source returns the current supplier price.
type Source interface {
	Price(ctx context.Context) (float64, error)
}

var ErrNoPrice = errors.New("price missing from payload")

type pricePayload struct {
	Price *float64 `json:"price"`
}

// decodePrice reads a JSON object carrying a numeric "price" field.
func decodePrice(r io.Reader) (float64, error) {
	var p pricePayload
	if err := json.NewDecoder(io.LimitReader(r, 1<<20)).Decode(&p); err != nil {
		return 0, fmt.Errorf("decode price: %w", err)
	}
	if p.Price == nil {
		return 0, ErrNoPrice
	}
	if *p.Price < 0 {
		return 0, fmt.Errorf("negative price %v", *p.Price)
	}
	return *p.Price, nil
}
