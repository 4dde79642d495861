package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// CanonicalUnit fija la familia del producto (L = volumen, KG = masa) y no se
// puede cambiar después.
type CreateProductRequest struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`       // fumigacion, fertilizacion, fertirriego
	CanonicalUnit string           `json:"canonical_unit"` // L o KG
	Price         *decimal.Decimal `json:"price,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id. La unidad canónica y
// el saldo no son editables por esta vía.
type UpdateProductRequest struct {
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// ProductResponse respuesta de producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	CanonicalUnit string           `json:"canonical_unit"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Balance       decimal.Decimal  `json:"balance"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
