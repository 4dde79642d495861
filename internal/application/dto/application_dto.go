package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedProductRequest cantidad planificada por producto, en la unidad
// canónica del producto.
type PlannedProductRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateApplicationRequest body para POST /api/applications.
type CreateApplicationRequest struct {
	Kind      string                  `json:"kind"` // fumigacion, fertilizacion
	StartDate time.Time               `json:"start_date"`
	Plots     []string                `json:"plots"`
	Planned   []PlannedProductRequest `json:"planned_products"`
}

// ApplicationResponse respuesta de aplicación.
type ApplicationResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	State     string     `json:"state"`
	StartDate time.Time  `json:"start_date"`
	CloseDate *time.Time `json:"close_date,omitempty"`
	Plots     []string   `json:"plots"`
	CreatedAt time.Time  `json:"created_at"`
}

// CloseApplicationResponse resultado del cierre: una salida del libro por
// producto consumido.
type CloseApplicationResponse struct {
	ApplicationID string             `json:"application_id"`
	CloseDate     time.Time          `json:"close_date"`
	Movements     []MovementResponse `json:"movements"`
}

// ReconciliationSummaryResponse conciliación por producto.
type ReconciliationSummaryResponse struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Planned          decimal.Decimal `json:"planned"`
	Used             decimal.Decimal `json:"used"`
	Difference       decimal.Decimal `json:"difference"`
	Percent          decimal.Decimal `json:"percent"`
	PercentUnbounded bool            `json:"percent_unbounded,omitempty"`
	Exceeds          bool            `json:"exceeds"`
}

// AlertResponse alerta derivada de la conciliación.
type AlertResponse struct {
	Severity    string          `json:"severity"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Message     string          `json:"message"`
	Percent     decimal.Decimal `json:"percent"`
}

// ReconciliationResponse respuesta de GET /api/applications/:id/reconciliation.
type ReconciliationResponse struct {
	ApplicationID string                          `json:"application_id"`
	State         string                          `json:"state"`
	Summaries     []ReconciliationSummaryResponse `json:"summaries"`
	Alerts        []AlertResponse                 `json:"alerts"`
}
