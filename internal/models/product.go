package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is catalog data, read-only to the sales engine. A weighable
// product is priced per gram; everything else is priced per unit.
type Product struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	IsWeighable  bool      `json:"is_weighable"`
	UnitPrice    float64   `json:"unit_price"`
	PricePerGram float64   `json:"price_per_gram"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
