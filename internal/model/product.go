package model

import "time"

// Product is a catalog entry as this core sees it: a price and a stock
// level. The catalog itself (names, images, categories) is owned by an
// external collaborator; only the fields checkout needs live here.
type Product struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	PriceCents Cents     `json:"priceCents" db:"price_cents"`
	Stock      int       `json:"stock" db:"stock"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
