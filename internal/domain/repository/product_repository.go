package repository

import (
	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo de
// productos. Balance solo se actualiza vía UpdateBalance, dentro de la misma
// transacción que escribe el movimiento correspondiente.
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar movimientos concurrentes sobre el mismo producto.
	GetForUpdate(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	UpdateBalance(id string, balance decimal.Decimal) error
}
