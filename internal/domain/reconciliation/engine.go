package reconciliation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

// Severidades de alerta.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Line es un renglón de consumo en crudo, tal como lo dejó la bitácora diaria.
type Line struct {
	ProductID string
	Quantity  decimal.Decimal
	Unit      unit.Unit
	BagFactor *decimal.Decimal
}

// Summary es la conciliación por producto entre lo planificado y lo usado,
// ambas cantidades en unidad canónica. Derivado: se recalcula en cada lectura
// y nunca se persiste como fuente de verdad.
type Summary struct {
	ProductID        string
	ProductName      string
	Planned          decimal.Decimal
	Used             decimal.Decimal
	Difference       decimal.Decimal // used − planned
	Percent          decimal.Decimal // used/planned × 100
	PercentUnbounded bool            // planned 0 con uso > 0: porcentaje no acotado
	Exceeds          bool
}

// Alert es una desviación derivada de un Summary. Efímera: se regenera con
// cada conciliación.
type Alert struct {
	Severity    string
	ProductID   string
	ProductName string
	Message     string
	Percent     decimal.Decimal
}

var hundred = decimal.NewFromInt(100)
var ninety = decimal.NewFromInt(90)

// Compute concilia lo planificado contra la bitácora de una aplicación.
// planned y canonical van indexados por producto; canonical es la unidad
// canónica con la que se normaliza cada renglón. Un producto usado sin
// planificación entra con planned 0 y marcado como excedido de inmediato.
func Compute(
	planned map[string]decimal.Decimal,
	lines []Line,
	canonical map[string]unit.Unit,
	names map[string]string,
) ([]Summary, []Alert, error) {
	byProduct := make(map[string]*Summary, len(planned))
	for productID, qty := range planned {
		byProduct[productID] = &Summary{
			ProductID:   productID,
			ProductName: names[productID],
			Planned:     qty,
			Used:        decimal.Zero,
			Difference:  qty.Neg(),
			Percent:     decimal.Zero,
		}
	}

	for _, line := range lines {
		cu, ok := canonical[line.ProductID]
		if !ok {
			// producto desconocido para el catálogo: dato corrupto, no se adivina
			return nil, nil, &unknownProductError{ProductID: line.ProductID}
		}
		norm, err := unit.NormalizeFor(cu, line.Quantity, line.Unit, line.BagFactor)
		if err != nil {
			return nil, nil, err
		}
		s, ok := byProduct[line.ProductID]
		if !ok {
			s = &Summary{
				ProductID:   line.ProductID,
				ProductName: names[line.ProductID],
				Planned:     decimal.Zero,
			}
			byProduct[line.ProductID] = s
		}
		s.Used = s.Used.Add(norm)
		s.Difference = s.Used.Sub(s.Planned)
		if s.Planned.GreaterThan(decimal.Zero) {
			s.Percent = s.Used.Div(s.Planned).Mul(hundred)
		} else if s.Used.GreaterThan(decimal.Zero) {
			// denominador cero: porcentaje no acotado, siempre excedido
			s.Percent = decimal.Zero
			s.PercentUnbounded = true
		}
		s.Exceeds = s.Used.GreaterThan(s.Planned)
	}

	summaries := make([]Summary, 0, len(byProduct))
	for _, s := range byProduct {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ProductName != summaries[j].ProductName {
			return summaries[i].ProductName < summaries[j].ProductName
		}
		return summaries[i].ProductID < summaries[j].ProductID
	})

	return summaries, buildAlerts(summaries), nil
}

// buildAlerts aplica la escalera de alertas por producto; la primera condición
// que aplica gana:
//  1. planificado 0 con uso > 0  → warning "uso sin planificación previa"
//  2. percent > 100              → error, excedido por |difference| unidades
//  3. percent >= 90              → warning, cerca del límite
func buildAlerts(summaries []Summary) []Alert {
	var alerts []Alert
	for _, s := range summaries {
		switch {
		case s.Planned.IsZero() && s.Used.GreaterThan(decimal.Zero):
			alerts = append(alerts, Alert{
				Severity:    SeverityWarning,
				ProductID:   s.ProductID,
				ProductName: s.ProductName,
				Message:     "uso sin planificación previa",
				Percent:     s.Percent,
			})
		case s.Percent.GreaterThan(hundred):
			alerts = append(alerts, Alert{
				Severity:    SeverityError,
				ProductID:   s.ProductID,
				ProductName: s.ProductName,
				Message:     "plan excedido en " + s.Difference.Abs().String() + " unidades",
				Percent:     s.Percent,
			})
		case s.Percent.GreaterThanOrEqual(ninety):
			alerts = append(alerts, Alert{
				Severity:    SeverityWarning,
				ProductID:   s.ProductID,
				ProductName: s.ProductName,
				Message:     "cerca del límite planificado",
				Percent:     s.Percent,
			})
		}
	}
	return alerts
}

// Totals agrega la bitácora sin sembrar lo planificado: es la agregación que
// usa el cierre para convertir la bitácora en salidas del libro de stock.
func Totals(lines []Line, canonical map[string]unit.Unit) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, line := range lines {
		cu, ok := canonical[line.ProductID]
		if !ok {
			return nil, &unknownProductError{ProductID: line.ProductID}
		}
		norm, err := unit.NormalizeFor(cu, line.Quantity, line.Unit, line.BagFactor)
		if err != nil {
			return nil, err
		}
		totals[line.ProductID] = totals[line.ProductID].Add(norm)
	}
	return totals, nil
}

type unknownProductError struct {
	ProductID string
}

func (e *unknownProductError) Error() string {
	return "producto no catalogado en la bitácora: " + e.ProductID
}

func (e *unknownProductError) Unwrap() error { return domain.ErrNotFound }
