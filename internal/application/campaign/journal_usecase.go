package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

// JournalUseCase maneja la bitácora diaria de consumo. La bitácora es una
// zona de preparación: guarda cantidades y unidades crudas, sin normalizar y
// sin tocar el libro de stock. Toda mutación exige aplicación en ejecución y
// toma el bloqueo de la fila de la aplicación, así un registro nunca se
// intercala con un cierre en vuelo.
type JournalUseCase struct {
	txRunner    TxRunner
	usageRepo   repository.DailyUsageRepository
	productRepo repository.ProductRepository
}

// NewJournalUseCase construye el caso de uso.
func NewJournalUseCase(txRunner TxRunner, usageRepo repository.DailyUsageRepository, productRepo repository.ProductRepository) *JournalUseCase {
	return &JournalUseCase{txRunner: txRunner, usageRepo: usageRepo, productRepo: productRepo}
}

// RecordUsage registra un día de consumo con sus renglones. Valida unidades
// contra la familia canónica de cada producto antes de guardar, pero persiste
// los valores crudos para auditoría.
func (uc *JournalUseCase) RecordUsage(ctx context.Context, applicationID, userID, userName string, in dto.RecordUsageRequest) (*entity.DailyUsageEntry, error) {
	if in.Plot == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	responsible := in.Responsible
	if responsible == "" {
		responsible = userName
	}

	now := time.Now()
	entry := &entity.DailyUsageEntry{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Date:          in.Date,
		Plot:          in.Plot,
		Responsible:   responsible,
		CreatedAt:     now,
		CreatedBy:     userID,
	}

	lines := make([]entity.DailyUsageLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		u, err := unit.ParseUnit(l.Unit)
		if err != nil {
			return nil, err
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		// validar familia y factor ahora; guardar el valor crudo
		if _, err := unit.NormalizeFor(product.CanonicalUnit, l.Quantity, u, l.BagFactor); err != nil {
			return nil, err
		}
		lines = append(lines, entity.DailyUsageLine{
			ID:        uuid.New().String(),
			EntryID:   entry.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Unit:      u,
			BagFactor: l.BagFactor,
		})
	}

	err := uc.txRunner.RunCampaign(ctx, func(
		appRepo repository.ApplicationRepository,
		usageRepo repository.DailyUsageRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		app, err := appRepo.GetForUpdate(applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}
		if app.State != entity.EstadoEnEjecucion {
			return domain.ErrApplicationNotExecuting
		}
		return usageRepo.CreateEntry(entry, lines)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteUsage elimina un registro diario y sus renglones en cascada. Solo
// mientras la aplicación sigue en ejecución: una aplicación cerrada tiene
// bitácora inmutable.
func (uc *JournalUseCase) DeleteUsage(ctx context.Context, entryID string) error {
	return uc.txRunner.RunCampaign(ctx, func(
		appRepo repository.ApplicationRepository,
		usageRepo repository.DailyUsageRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		entry, err := usageRepo.GetEntry(entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		app, err := appRepo.GetForUpdate(entry.ApplicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}
		if app.State != entity.EstadoEnEjecucion {
			return domain.ErrApplicationNotExecuting
		}
		return usageRepo.DeleteEntry(entryID)
	})
}

// ListByApplication devuelve los registros diarios de una aplicación con sus
// renglones crudos.
func (uc *JournalUseCase) ListByApplication(ctx context.Context, applicationID string) ([]*entity.DailyUsageEntry, map[string][]entity.DailyUsageLine, error) {
	entries, err := uc.usageRepo.ListByApplication(applicationID)
	if err != nil {
		return nil, nil, err
	}
	lines := make(map[string][]entity.DailyUsageLine, len(entries))
	for _, e := range entries {
		ls, err := uc.usageRepo.ListLines(e.ID)
		if err != nil {
			return nil, nil, err
		}
		lines[e.ID] = ls
	}
	return entries, lines, nil
}
