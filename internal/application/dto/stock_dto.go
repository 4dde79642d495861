package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterInflowRequest body para POST /api/stock/inflows (compra/recepción).
type RegisterInflowRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"` // en unidad canónica, positiva
	Notes     string          `json:"notes,omitempty"`
}

// MovementResponse una entrada del libro de stock.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ApplicationID string          `json:"application_id,omitempty"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// BalanceResponse saldo actual de un producto en unidad canónica.
type BalanceResponse struct {
	ProductID string          `json:"product_id"`
	Balance   decimal.Decimal `json:"balance"`
	Unit      string          `json:"unit"`
}
