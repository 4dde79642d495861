package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sforero94/Escociaos-sub004/internal/application/campaign"
	"github.com/sforero94/Escociaos-sub004/internal/application/stock"
	"github.com/sforero94/Escociaos-sub004/internal/application/verification"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

// Ensure TxRunner implements todos los puertos transaccionales.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ campaign.TxRunner = (*TxRunner)(nil)
var _ verification.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es la
// frontera de atomicidad del motor: movimiento+saldo, cierre completo y
// snapshot de verificación entran todos o ninguno.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del libro de stock y hace Commit o
// Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCampaign inicia una transacción con los repos de aplicaciones, bitácora
// y libro de stock (registro diario, borrado y cierre).
func (r *TxRunner) RunCampaign(ctx context.Context, fn func(
	appRepo repository.ApplicationRepository,
	usageRepo repository.DailyUsageRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewApplicationRepository(tx),
		NewDailyUsageRepository(tx),
		NewStockMovementRepository(tx),
		NewProductRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunVerification inicia una transacción con los repos del conteo físico.
func (r *TxRunner) RunVerification(ctx context.Context, fn func(
	verRepo repository.VerificationRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewVerificationRepository(tx),
		NewProductRepository(tx),
		NewStockMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
