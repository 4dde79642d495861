package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartVerificationRequest body para POST /api/verifications.
type StartVerificationRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// RecordCountRequest body para POST /api/verifications/:id/counts.
type RecordCountRequest struct {
	ProductID string          `json:"product_id"`
	Physical  decimal.Decimal `json:"physical"`
	Notes     string          `json:"notes,omitempty"`
}

// VerificationDetailResponse renglón de la sesión. Theoretical queda
// congelado desde la creación de la sesión.
type VerificationDetailResponse struct {
	ProductID        string           `json:"product_id"`
	Theoretical      decimal.Decimal  `json:"theoretical"`
	Physical         *decimal.Decimal `json:"physical,omitempty"`
	Counted          bool             `json:"counted"`
	Difference       decimal.Decimal  `json:"difference"`
	Percent          decimal.Decimal  `json:"percent"`
	PercentUnbounded bool             `json:"percent_unbounded,omitempty"`
	Status           string           `json:"status,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// VerificationSessionResponse sesión con detalles.
type VerificationSessionResponse struct {
	ID          string                       `json:"id"`
	State       string                       `json:"state"`
	Verifier    string                       `json:"verifier"`
	StartedAt   time.Time                    `json:"started_at"`
	CompletedAt *time.Time                   `json:"completed_at,omitempty"`
	Details     []VerificationDetailResponse `json:"details,omitempty"`
}

// CompleteVerificationResponse resultado de completar la sesión. Pending > 0
// advierte productos sin contar; no bloquea.
type CompleteVerificationResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Pending   int    `json:"pending_products"`
}
