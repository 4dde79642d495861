package campaign

import (
	"context"

	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que tocan aplicaciones, bitácora y libro de stock. El cierre
// depende de esta frontera: bloqueo de la aplicación, agregación de la
// bitácora, salidas del libro y cambio de estado entran todos o ninguno.
type TxRunner interface {
	RunCampaign(ctx context.Context, fn func(
		appRepo repository.ApplicationRepository,
		usageRepo repository.DailyUsageRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
