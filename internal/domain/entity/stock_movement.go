package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementEntrada = "entrada" // compra/recepción
	MovementSalida  = "salida"  // consumo (cierre de aplicación)
	MovementAjuste  = "ajuste"  // corrección tras conteo físico
)

// StockMovement es una entrada inmutable del libro de stock. Quantity es
// firmada (negativa para salidas) y siempre en la unidad canónica del
// producto. BalanceBefore/BalanceAfter dejan traza del saldo en el momento
// del movimiento: el saldo del producto es siempre la suma de sus movimientos.
type StockMovement struct {
	ID            string
	ProductID     string
	ApplicationID string // vacío si el movimiento no proviene de una aplicación
	Kind          string // entrada, salida, ajuste
	Quantity      decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
