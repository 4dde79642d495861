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
)

// LifecycleUseCase crea aplicaciones y gobierna sus transiciones de estado.
// Las transiciones son compare-and-swap sobre la fila: un UPDATE condicionado
// al estado actual, de modo que dos peticiones concurrentes nunca avanzan la
// misma transición dos veces.
type LifecycleUseCase struct {
	appRepo     repository.ApplicationRepository
	productRepo repository.ProductRepository
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(appRepo repository.ApplicationRepository, productRepo repository.ProductRepository) *LifecycleUseCase {
	return &LifecycleUseCase{appRepo: appRepo, productRepo: productRepo}
}

// Create crea una aplicación en estado planificada con sus productos
// planificados. Cantidades planificadas van en la unidad canónica del
// producto y deben ser positivas.
func (uc *LifecycleUseCase) Create(ctx context.Context, in dto.CreateApplicationRequest) (*entity.Application, error) {
	if in.Kind != entity.AplicacionFumigacion && in.Kind != entity.AplicacionFertilizacion {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Plots) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	app := &entity.Application{
		ID:        uuid.New().String(),
		Kind:      in.Kind,
		State:     entity.EstadoPlanificada,
		StartDate: in.StartDate,
		Plots:     in.Plots,
		CreatedAt: now,
		UpdatedAt: now,
	}

	planned := make([]entity.PlannedProduct, 0, len(in.Planned))
	seen := make(map[string]bool, len(in.Planned))
	for _, p := range in.Planned {
		if p.ProductID == "" || !p.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if seen[p.ProductID] {
			return nil, domain.ErrDuplicate
		}
		seen[p.ProductID] = true
		product, err := uc.productRepo.GetByID(p.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		planned = append(planned, entity.PlannedProduct{
			ApplicationID: app.ID,
			ProductID:     p.ProductID,
			Quantity:      p.Quantity,
		})
	}

	if err := uc.appRepo.Create(app, planned); err != nil {
		return nil, err
	}
	return app, nil
}

// StartExecution pasa la aplicación de planificada a en_ejecucion. Desde
// cualquier otro estado falla con ErrInvalidTransition.
func (uc *LifecycleUseCase) StartExecution(ctx context.Context, applicationID string) error {
	app, err := uc.appRepo.GetByID(applicationID)
	if err != nil {
		return err
	}
	if app == nil {
		return domain.ErrNotFound
	}
	ok, err := uc.appRepo.TransitionState(applicationID, entity.EstadoPlanificada, entity.EstadoEnEjecucion, nil)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidTransition
	}
	return nil
}

// GetByID devuelve la aplicación con sus productos planificados.
func (uc *LifecycleUseCase) GetByID(ctx context.Context, applicationID string) (*entity.Application, []entity.PlannedProduct, error) {
	app, err := uc.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, nil, err
	}
	if app == nil {
		return nil, nil, domain.ErrNotFound
	}
	planned, err := uc.appRepo.ListPlanned(applicationID)
	if err != nil {
		return nil, nil, err
	}
	return app, planned, nil
}

// List lista aplicaciones paginadas.
func (uc *LifecycleUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Application, error) {
	return uc.appRepo.List(limit, offset)
}
