package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

// LedgerUseCase gobierna el libro de stock: cada append bloquea la fila del
// producto (SELECT FOR UPDATE), calcula saldo antes/después y escribe el
// movimiento y el nuevo saldo en la misma transacción. Así el saldo del
// producto nunca deriva de la suma de sus movimientos.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// AppendInput entrada para un movimiento del libro.
// Para entrada/salida, Quantity es la magnitud positiva; el signo lo pone el
// tipo. Para ajuste se envía TargetBalance y el delta firmado se calcula como
// target − saldo actual.
type AppendInput struct {
	ProductID     string
	Kind          string // entrada, salida, ajuste
	Quantity      decimal.Decimal
	TargetBalance *decimal.Decimal // solo para ajuste
	ApplicationID string
	Notes         string
	UserID        string
}

// Append registra un movimiento. Salidas que dejarían saldo negativo fallan
// con ErrInsufficientStock; los ajustes son correctivos y solo exigen que el
// saldo objetivo no sea negativo.
func (uc *LedgerUseCase) Append(ctx context.Context, input AppendInput) (*entity.StockMovement, error) {
	switch input.Kind {
	case entity.MovementEntrada, entity.MovementSalida:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementAjuste:
		if input.TargetBalance == nil || input.TargetBalance.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	var movement *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		var err error
		movement, err = AppendInTx(movRepo, productRepo, input, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// AppendInTx ejecuta el append con repositorios ya atados a una transacción
// del caller (cierre de aplicación, aprobación de conteo). Bloquea la fila
// del producto para que appends concurrentes queden serializados: el saldo
// "antes" siempre es el último saldo confirmado.
func AppendInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input AppendInput,
	now time.Time,
) (*entity.StockMovement, error) {
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var signed decimal.Decimal
	switch input.Kind {
	case entity.MovementEntrada:
		signed = input.Quantity
	case entity.MovementSalida:
		signed = input.Quantity.Neg()
	case entity.MovementAjuste:
		signed = input.TargetBalance.Sub(product.Balance)
	default:
		return nil, domain.ErrInvalidInput
	}

	balanceBefore := product.Balance
	balanceAfter := balanceBefore.Add(signed)
	if input.Kind == entity.MovementSalida && balanceAfter.LessThan(decimal.Zero) {
		return nil, domain.ErrInsufficientStock
	}

	if err := productRepo.UpdateBalance(product.ID, balanceAfter); err != nil {
		return nil, err
	}
	movement := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     input.ProductID,
		ApplicationID: input.ApplicationID,
		Kind:          input.Kind,
		Quantity:      signed,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Notes:         input.Notes,
		CreatedAt:     now,
		CreatedBy:     input.UserID,
	}
	if err := movRepo.Create(movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// CurrentBalance devuelve el saldo actual del producto.
func (uc *LedgerUseCase) CurrentBalance(ctx context.Context, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListByProduct lista los movimientos de un producto en un rango de fechas.
func (uc *LedgerUseCase) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// ListByApplication lista los movimientos generados por el cierre de una
// aplicación.
func (uc *LedgerUseCase) ListByApplication(ctx context.Context, applicationID string) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByApplication(applicationID)
}
