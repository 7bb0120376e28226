// Package models holds the catalog's product types.
package models

import "time"

// Product is a row of the products table.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Keywords    []string  `json:"keywords"`
	Stock       int       `json:"stock"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductCreate is the input of a create. Description and Category are
// generated when nil.
type ProductCreate struct {
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	Stock       int      `json:"stock"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string   `json:"name"`
	Keywords    *[]string `json:"keywords"`
	Stock       *int      `json:"stock"`
	Price       *float64  `json:"price"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Active      *bool     `json:"active"`
}

// SellResponse reports the outcome of one sale.
type SellResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Stock             int    `json:"stock"`
	LowStockAlertSent bool   `json:"low_stock_alert_sent"`
}

// StockEvent is handed to the alert dispatcher when a sale leaves a
// product below the low-stock threshold. It is never persisted.
type StockEvent struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
}
