package models

import (
	"github.com/shopspring/decimal"
)

// ProductCategory is the model for the 'product_categories' table
type ProductCategory struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Product is the model for the 'products' table.
// Price is a DECIMAL(10,2) column and stays decimal end to end.
// Stock is mutated only by order finalization and must never go negative.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	CategoryID  int64           `json:"categoryId" db:"category_id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	ImageURL    *string         `json:"imageUrl,omitempty" db:"image_url"`
	IsActive    bool            `json:"isActive" db:"is_active"`
}
