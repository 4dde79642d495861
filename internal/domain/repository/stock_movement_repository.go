package repository

import (
	"time"

	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de
// stock. El libro es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByApplication(applicationID string) ([]*entity.StockMovement, error)
}
