package campaign

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/application/stock"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/reconciliation"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

// ClosingUseCase convierte la bitácora provisional en movimientos definitivos
// del libro de stock, exactamente una vez por aplicación. Todo el cierre es
// una sola transacción: bloqueo de la fila de la aplicación, agregación de la
// bitácora, compuerta de precios, salidas del libro y transición a cerrada.
// Cualquier fallo a mitad de camino revierte los movimientos ya escritos.
type ClosingUseCase struct {
	txRunner TxRunner
}

// NewClosingUseCase construye el caso de uso.
func NewClosingUseCase(txRunner TxRunner) *ClosingUseCase {
	return &ClosingUseCase{txRunner: txRunner}
}

// Close cierra la aplicación. Precondiciones: estado en_ejecucion (un segundo
// cierre falla con ErrInvalidTransition antes de tocar el libro) y precio
// unitario conocido para todo producto consumido (MissingPriceError lista los
// que faltan; es compuerta dura, no advertencia).
func (uc *ClosingUseCase) Close(ctx context.Context, applicationID, userID string) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement

	err := uc.txRunner.RunCampaign(ctx, func(
		appRepo repository.ApplicationRepository,
		usageRepo repository.DailyUsageRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		app, err := appRepo.GetForUpdate(applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}
		if app.State != entity.EstadoEnEjecucion {
			return domain.ErrInvalidTransition
		}

		lines, err := usageRepo.ListLinesByApplication(applicationID)
		if err != nil {
			return err
		}

		// catálogo de los productos referenciados por la bitácora
		canonical := make(map[string]unit.Unit)
		products := make(map[string]*entity.Product)
		for _, l := range lines {
			if _, ok := products[l.ProductID]; ok {
				continue
			}
			product, err := productRepo.GetByID(l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			products[l.ProductID] = product
			canonical[l.ProductID] = product.CanonicalUnit
		}

		totals, err := reconciliation.Totals(toEngineLines(lines), canonical)
		if err != nil {
			return err
		}

		// compuerta de precios: todo producto consumido debe tener precio
		var missing []string
		for productID, total := range totals {
			if total.GreaterThan(decimal.Zero) && !products[productID].HasPrice() {
				missing = append(missing, products[productID].Name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return &domain.MissingPriceError{Products: missing}
		}

		now := time.Now()
		productIDs := make([]string, 0, len(totals))
		for productID := range totals {
			productIDs = append(productIDs, productID)
		}
		sort.Strings(productIDs)
		for _, productID := range productIDs {
			total := totals[productID]
			if !total.GreaterThan(decimal.Zero) {
				continue
			}
			movement, err := stock.AppendInTx(movRepo, productRepo, stock.AppendInput{
				ProductID:     productID,
				Kind:          entity.MovementSalida,
				Quantity:      total,
				ApplicationID: applicationID,
				Notes:         "cierre de aplicación",
				UserID:        userID,
			}, now)
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		ok, err := appRepo.TransitionState(applicationID, entity.EstadoEnEjecucion, entity.EstadoCerrada, &now)
		if err != nil {
			return err
		}
		if !ok {
			// la fila está bloqueada por esta tx; si no transiciona hay
			// corrupción de estado y se revierte todo
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func toEngineLines(lines []entity.DailyUsageLine) []reconciliation.Line {
	out := make([]reconciliation.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, reconciliation.Line{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Unit:      l.Unit,
			BagFactor: l.BagFactor,
		})
	}
	return out
}
