package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una aplicación. Las transiciones son
// planificada → en_ejecucion → cerrada, sin saltos ni reversas.
const (
	EstadoPlanificada = "planificada"
	EstadoEnEjecucion = "en_ejecucion"
	EstadoCerrada     = "cerrada"
)

// Tipos de aplicación (campaña).
const (
	AplicacionFumigacion    = "fumigacion"
	AplicacionFertilizacion = "fertilizacion"
)

// Application representa una campaña de fumigación o fertilización sobre un
// conjunto de lotes. Sus productos planificados quedan fijos al iniciar la
// ejecución; el cierre es único y lo escribe el coordinador de cierre.
type Application struct {
	ID        string
	Kind      string // fumigacion, fertilizacion
	State     string // planificada, en_ejecucion, cerrada
	StartDate time.Time
	CloseDate *time.Time // nil hasta el cierre
	Plots     []string   // lotes seleccionados
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsClosed reporta si la aplicación ya fue cerrada.
func (a *Application) IsClosed() bool { return a.State == EstadoCerrada }

// PlannedProduct es la cantidad planificada de un producto para una
// aplicación, siempre en la unidad canónica del producto.
type PlannedProduct struct {
	ApplicationID string
	ProductID     string
	Quantity      decimal.Decimal
}
