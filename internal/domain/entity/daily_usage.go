package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

// DailyUsageEntry es el encabezado de un registro diario de consumo en campo.
// Es provisional: vive en la bitácora mientras la aplicación está en
// ejecución y no toca el libro de stock. Al cerrar la aplicación la bitácora
// queda congelada y sus totales se convierten en salidas del libro.
type DailyUsageEntry struct {
	ID            string
	ApplicationID string
	Date          time.Time
	Plot          string // lote donde se aplicó
	Responsible   string // persona responsable en campo
	CreatedAt     time.Time
	CreatedBy     string // UserID
}

// DailyUsageLine es un renglón de consumo: cantidad y unidad tal como se
// registraron en campo. Los valores crudos se preservan para auditoría; la
// normalización ocurre al leer (motor de conciliación y cierre).
type DailyUsageLine struct {
	ID        string
	EntryID   string
	ProductID string
	Quantity  decimal.Decimal
	Unit      unit.Unit        // unidad cruda (L, CC, KG, G, BULTO)
	BagFactor *decimal.Decimal // kg por bulto; solo para Unit == BULTO
}
