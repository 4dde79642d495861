package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de verificación (conteo físico).
const (
	VerificacionEnProceso  = "en_proceso"
	VerificacionPendiente  = "pendiente_aprobacion"
	VerificacionAprobada   = "aprobada"
	VerificacionRechazada  = "rechazada"
)

// Estados derivados de un detalle contado.
const (
	DetalleCuadrado  = "cuadrado"  // |percent − 100| < 1
	DetalleDescuadre = "descuadre" // desviación que requiere revisión
)

// VerificationSession es un conteo físico puntual contra el saldo teórico del
// libro de stock. Los saldos teóricos se congelan al crear la sesión.
type VerificationSession struct {
	ID          string
	State       string // en_proceso, pendiente_aprobacion, aprobada, rechazada
	Verifier    string // UserID de quien cuenta
	StartedAt   time.Time
	CompletedAt *time.Time
}

// VerificationDetail es el renglón por producto de una sesión. Theoretical es
// un snapshot tomado al crear la sesión y nunca cambia; Physical se puede
// sobreescribir mientras la sesión está en proceso, recalculando los campos
// derivados.
type VerificationDetail struct {
	ID               string
	SessionID        string
	ProductID        string
	Theoretical      decimal.Decimal  // saldo del libro al crear la sesión
	Physical         *decimal.Decimal // nil hasta el primer conteo
	Counted          bool             // "contado": pasa a true con el primer conteo
	Difference       decimal.Decimal  // physical − theoretical
	Percent          decimal.Decimal  // physical/theoretical × 100
	PercentUnbounded bool             // theoretical 0 con físico > 0
	Status           string           // cuadrado, descuadre
	Notes            string
}
