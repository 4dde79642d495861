package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

// Categorías de producto agroquímico.
const (
	CategoriaFumigacion    = "fumigacion"
	CategoriaFertilizacion = "fertilizacion"
	CategoriaFertirriego   = "fertirriego"
)

// Product representa un agroquímico o fertilizante del inventario de la finca.
// CanonicalUnit (L o KG) se fija al crear el producto y no cambia: define la
// familia de unidades admisible para sus movimientos y consumos.
// Balance solo lo muta el libro de stock, junto con cada movimiento.
type Product struct {
	ID            string
	Name          string
	Category      string          // fumigacion, fertilizacion, fertirriego
	CanonicalUnit unit.Unit       // L (volumen) o KG (masa)
	Price         *decimal.Decimal // precio unitario en unidad canónica; nil = sin precio
	Balance       decimal.Decimal  // saldo teórico en unidad canónica
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPrice reporta si el producto tiene precio unitario registrado.
func (p *Product) HasPrice() bool { return p.Price != nil }
