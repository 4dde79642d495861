package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageLineRequest renglón de consumo tal como se midió en campo: la unidad
// cruda se conserva y la normalización ocurre al conciliar/cerrar.
type UsageLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Unit      string           `json:"unit"`                 // L, CC, KG, G, BULTO
	BagFactor *decimal.Decimal `json:"bag_factor,omitempty"` // kg por bulto
}

// RecordUsageRequest body para POST /api/applications/:id/usage.
// Responsible vacío usa el nombre del usuario autenticado.
type RecordUsageRequest struct {
	Date        time.Time          `json:"date"`
	Plot        string             `json:"plot"`
	Responsible string             `json:"responsible,omitempty"`
	Lines       []UsageLineRequest `json:"lines"`
}

// UsageLineResponse renglón crudo de la bitácora.
type UsageLineResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Unit      string           `json:"unit"`
	BagFactor *decimal.Decimal `json:"bag_factor,omitempty"`
}

// UsageEntryResponse registro diario con sus renglones.
type UsageEntryResponse struct {
	ID            string              `json:"id"`
	ApplicationID string              `json:"application_id"`
	Date          time.Time           `json:"date"`
	Plot          string              `json:"plot"`
	Responsible   string              `json:"responsible"`
	Lines         []UsageLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}
