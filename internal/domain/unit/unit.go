package unit

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
)

// Unit es una enumeración cerrada de unidades de medida. Cualquier string que
// no esté en la tabla se rechaza en ParseUnit; nunca se convierte "a ojo".
type Unit string

const (
	Litro      Unit = "L"     // canónica de volumen
	CC         Unit = "CC"    // centímetro cúbico
	Kilogramo  Unit = "KG"    // canónica de masa
	Gramo      Unit = "G"
	Bulto      Unit = "BULTO" // bolsa/saco; requiere factor kg-por-bulto
)

// Family agrupa unidades comparables entre sí.
type Family string

const (
	FamiliaVolumen Family = "volumen"
	FamiliaMasa    Family = "masa"
)

// factores de conversión hacia la unidad canónica de cada familia.
// Bulto no aparece: su factor es por producto (kg por bulto).
var toCanonical = map[Unit]decimal.Decimal{
	Litro:     decimal.NewFromInt(1),
	CC:        decimal.New(1, -3), // ÷1000
	Kilogramo: decimal.NewFromInt(1),
	Gramo:     decimal.New(1, -3), // ÷1000
}

var families = map[Unit]Family{
	Litro:     FamiliaVolumen,
	CC:        FamiliaVolumen,
	Kilogramo: FamiliaMasa,
	Gramo:     FamiliaMasa,
	Bulto:     FamiliaMasa,
}

// ParseUnit valida un string contra la enumeración. Acepta mayúsculas o
// minúsculas; devuelve ErrUnknownUnit para cualquier otra cosa.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := families[u]; !ok {
		return "", domain.ErrUnknownUnit
	}
	return u, nil
}

// Family devuelve la familia de la unidad.
func (u Unit) Family() Family { return families[u] }

// IsCanonical reporta si la unidad es la canónica de su familia (L o KG).
func (u Unit) IsCanonical() bool { return u == Litro || u == Kilogramo }

// CanonicalFor devuelve la unidad canónica de una familia.
func CanonicalFor(f Family) Unit {
	if f == FamiliaVolumen {
		return Litro
	}
	return Kilogramo
}

// Normalize convierte una cantidad a la unidad canónica de su familia.
// Para Bulto exige factor (kg por bulto); sin factor devuelve
// ErrMissingConversionFactor. Pura y determinista: normalizar una cantidad ya
// canónica la devuelve sin cambios.
func Normalize(qty decimal.Decimal, u Unit, factor *decimal.Decimal) (decimal.Decimal, Unit, error) {
	fam, ok := families[u]
	if !ok {
		return decimal.Zero, "", domain.ErrUnknownUnit
	}
	if u == Bulto {
		if factor == nil || !factor.GreaterThan(decimal.Zero) {
			return decimal.Zero, "", domain.ErrMissingConversionFactor
		}
		return qty.Mul(*factor), Kilogramo, nil
	}
	return qty.Mul(toCanonical[u]), CanonicalFor(fam), nil
}

// NormalizeFor normaliza validando además que la unidad pertenezca a la misma
// familia que la unidad canónica del producto. Una unidad de la familia
// equivocada devuelve IncompatibleUnitError.
func NormalizeFor(canonical Unit, qty decimal.Decimal, u Unit, factor *decimal.Decimal) (decimal.Decimal, error) {
	fam, ok := families[u]
	if !ok {
		return decimal.Zero, domain.ErrUnknownUnit
	}
	if fam != canonical.Family() {
		return decimal.Zero, &domain.IncompatibleUnitError{Unit: string(u), Canonical: string(canonical)}
	}
	norm, _, err := Normalize(qty, u, factor)
	if err != nil {
		return decimal.Zero, err
	}
	return norm, nil
}
