package campaign

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/reconciliation"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

// ReconciliationUseCase calcula la conciliación planificado-vs-usado de una
// aplicación. Lectura pura: recompone resúmenes y alertas desde la bitácora
// en cada invocación, sin estado derivado persistido.
type ReconciliationUseCase struct {
	appRepo     repository.ApplicationRepository
	usageRepo   repository.DailyUsageRepository
	productRepo repository.ProductRepository
}

// NewReconciliationUseCase construye el caso de uso.
func NewReconciliationUseCase(appRepo repository.ApplicationRepository, usageRepo repository.DailyUsageRepository, productRepo repository.ProductRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{appRepo: appRepo, usageRepo: usageRepo, productRepo: productRepo}
}

// GetSummary devuelve resúmenes por producto y alertas de desviación.
func (uc *ReconciliationUseCase) GetSummary(ctx context.Context, applicationID string) (*entity.Application, []reconciliation.Summary, []reconciliation.Alert, error) {
	app, err := uc.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, nil, nil, err
	}
	if app == nil {
		return nil, nil, nil, domain.ErrNotFound
	}

	plannedList, err := uc.appRepo.ListPlanned(applicationID)
	if err != nil {
		return nil, nil, nil, err
	}
	lines, err := uc.usageRepo.ListLinesByApplication(applicationID)
	if err != nil {
		return nil, nil, nil, err
	}

	planned := make(map[string]decimal.Decimal, len(plannedList))
	for _, p := range plannedList {
		planned[p.ProductID] = p.Quantity
	}

	canonical := make(map[string]unit.Unit)
	names := make(map[string]string)
	for _, productID := range referencedProducts(plannedList, lines) {
		product, err := uc.productRepo.GetByID(productID)
		if err != nil {
			return nil, nil, nil, err
		}
		if product == nil {
			return nil, nil, nil, domain.ErrNotFound
		}
		canonical[productID] = product.CanonicalUnit
		names[productID] = product.Name
	}

	summaries, alerts, err := reconciliation.Compute(planned, toEngineLines(lines), canonical, names)
	if err != nil {
		return nil, nil, nil, err
	}
	return app, summaries, alerts, nil
}

func referencedProducts(planned []entity.PlannedProduct, lines []entity.DailyUsageLine) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range planned {
		if !seen[p.ProductID] {
			seen[p.ProductID] = true
			ids = append(ids, p.ProductID)
		}
	}
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}
