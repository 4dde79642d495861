package stock

import (
	"context"

	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Un movimiento del libro y la actualización del
// saldo del producto comparten transacción: ambos entran o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
