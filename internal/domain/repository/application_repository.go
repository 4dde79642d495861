package repository

import (
	"time"

	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// ApplicationRepository define el puerto de persistencia de aplicaciones
// (campañas) y sus productos planificados.
type ApplicationRepository interface {
	// Create persiste la aplicación con sus productos planificados.
	Create(app *entity.Application, planned []entity.PlannedProduct) error
	GetByID(id string) (*entity.Application, error)
	// GetForUpdate bloquea la fila de la aplicación (SELECT FOR UPDATE):
	// el cierre la toma para que ningún registro de bitácora ni segundo
	// cierre se intercale.
	GetForUpdate(id string) (*entity.Application, error)
	List(limit, offset int) ([]*entity.Application, error)
	ListPlanned(applicationID string) ([]entity.PlannedProduct, error)
	// TransitionState cambia el estado solo si el actual coincide con from
	// (compare-and-swap a nivel de fila). Devuelve false si no hubo cambio.
	TransitionState(id, from, to string, closeDate *time.Time) (bool, error)
}
