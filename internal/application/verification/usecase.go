package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/application/stock"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

// UseCase maneja las sesiones de conteo físico: snapshot del saldo teórico
// por producto, registro de conteos con campos derivados y el flujo de
// aprobación que convierte descuadres en ajustes del libro de stock.
type UseCase struct {
	txRunner TxRunner
	verRepo  repository.VerificationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, verRepo repository.VerificationRepository) *UseCase {
	return &UseCase{txRunner: txRunner, verRepo: verRepo}
}

var hundred = decimal.NewFromInt(100)
var one = decimal.NewFromInt(1)

// Start crea una sesión congelando el saldo teórico de cada producto en un
// detalle. El snapshot es atómico con la creación de la sesión: movimientos
// posteriores del libro no lo alteran.
func (uc *UseCase) Start(ctx context.Context, verifierID string, productIDs []string) (*entity.VerificationSession, error) {
	if len(productIDs) == 0 {
		return nil, domain.ErrEmptyProductSet
	}
	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if id == "" || seen[id] {
			return nil, domain.ErrInvalidInput
		}
		seen[id] = true
	}

	now := time.Now()
	session := &entity.VerificationSession{
		ID:        uuid.New().String(),
		State:     entity.VerificacionEnProceso,
		Verifier:  verifierID,
		StartedAt: now,
	}

	err := uc.txRunner.RunVerification(ctx, func(
		verRepo repository.VerificationRepository,
		productRepo repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		details := make([]entity.VerificationDetail, 0, len(productIDs))
		for _, productID := range productIDs {
			product, err := productRepo.GetByID(productID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			details = append(details, entity.VerificationDetail{
				ID:          uuid.New().String(),
				SessionID:   session.ID,
				ProductID:   productID,
				Theoretical: product.Balance,
			})
		}
		return verRepo.CreateSession(session, details)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// RecordCount registra (o sobreescribe) el conteo físico de un producto
// mientras la sesión sigue en proceso. Recalcula diferencia, porcentaje y
// estado; el teórico congelado no se toca.
func (uc *UseCase) RecordCount(ctx context.Context, sessionID, productID string, physical decimal.Decimal, notes string) (*entity.VerificationDetail, error) {
	if physical.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	session, err := uc.verRepo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if session.State != entity.VerificacionEnProceso {
		return nil, domain.ErrVerificationNotInProgress
	}

	detail, err := uc.verRepo.GetDetail(sessionID, productID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}

	detail.Physical = &physical
	detail.Counted = true
	detail.Notes = notes
	detail.Difference = physical.Sub(detail.Theoretical)
	detail.PercentUnbounded = false
	switch {
	case detail.Theoretical.GreaterThan(decimal.Zero):
		detail.Percent = physical.Div(detail.Theoretical).Mul(hundred)
	case physical.GreaterThan(decimal.Zero):
		// teórico cero con físico positivo: porcentaje no acotado
		detail.Percent = decimal.Zero
		detail.PercentUnbounded = true
	default:
		// ambos cero: cuadra exacto
		detail.Percent = hundred
	}
	if !detail.PercentUnbounded && detail.Percent.Sub(hundred).Abs().LessThan(one) {
		detail.Status = entity.DetalleCuadrado
	} else {
		detail.Status = entity.DetalleDescuadre
	}

	if err := uc.verRepo.UpdateDetail(detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// Complete pasa la sesión a pendiente_aprobacion. Productos sin contar no
// bloquean: se devuelve cuántos quedaron pendientes para que el caller avise.
func (uc *UseCase) Complete(ctx context.Context, sessionID string) (int, error) {
	now := time.Now()
	ok, err := uc.verRepo.TransitionState(sessionID, entity.VerificacionEnProceso, entity.VerificacionPendiente, &now)
	if err != nil {
		return 0, err
	}
	if !ok {
		session, err := uc.verRepo.GetSession(sessionID)
		if err != nil {
			return 0, err
		}
		if session == nil {
			return 0, domain.ErrNotFound
		}
		return 0, domain.ErrVerificationNotInProgress
	}

	details, err := uc.verRepo.ListDetails(sessionID)
	if err != nil {
		return 0, err
	}
	pending := 0
	for _, d := range details {
		if !d.Counted {
			pending++
		}
	}
	return pending, nil
}

// Approve aprueba la sesión y corrige el libro: por cada producto contado
// cuyo físico difiere del saldo actual por fuera de la tolerancia, escribe un
// ajuste que lleva el saldo al valor contado. Ajustes y transición comparten
// la transacción.
func (uc *UseCase) Approve(ctx context.Context, sessionID, approverID string) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement

	err := uc.txRunner.RunVerification(ctx, func(
		verRepo repository.VerificationRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		session, err := verRepo.GetSessionForUpdate(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.State != entity.VerificacionPendiente {
			return domain.ErrInvalidTransition
		}

		details, err := verRepo.ListDetails(sessionID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, d := range details {
			if !d.Counted || d.Physical == nil {
				continue
			}
			product, err := productRepo.GetForUpdate(d.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			// tolerancia ±0.01: descuadres de redondeo no generan ajuste
			if domain.WithinTolerance(*d.Physical, product.Balance) {
				continue
			}
			movement, err := stock.AppendInTx(movRepo, productRepo, stock.AppendInput{
				ProductID:     d.ProductID,
				Kind:          entity.MovementAjuste,
				TargetBalance: d.Physical,
				Notes:         "ajuste por conteo físico " + sessionID,
				UserID:        approverID,
			}, now)
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		ok, err := verRepo.TransitionState(sessionID, entity.VerificacionPendiente, entity.VerificacionAprobada, nil)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// Reject descarta la sesión sin tocar el libro.
func (uc *UseCase) Reject(ctx context.Context, sessionID string) error {
	ok, err := uc.verRepo.TransitionState(sessionID, entity.VerificacionPendiente, entity.VerificacionRechazada, nil)
	if err != nil {
		return err
	}
	if !ok {
		session, err := uc.verRepo.GetSession(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// GetSession devuelve la sesión con sus detalles.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*entity.VerificationSession, []*entity.VerificationDetail, error) {
	session, err := uc.verRepo.GetSession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, domain.ErrNotFound
	}
	details, err := uc.verRepo.ListDetails(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, details, nil
}
