package verification

import (
	"context"

	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del conteo físico. El snapshot de saldos teóricos al iniciar
// una sesión y las correcciones al aprobarla son atómicos.
type TxRunner interface {
	RunVerification(ctx context.Context, fn func(
		verRepo repository.VerificationRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
