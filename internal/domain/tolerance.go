package domain

import "github.com/shopspring/decimal"

// QuantityTolerance es la tolerancia (±0.01 en unidad canónica) para comparar
// cantidades entre libro de stock y conteo físico. Absorbe redondeo de
// conversiones, no diferencias reales.
var QuantityTolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reporta si a y b son iguales dentro de QuantityTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(QuantityTolerance)
}
