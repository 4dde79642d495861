package repository

import (
	"time"

	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// VerificationRepository define el puerto de persistencia de sesiones de
// conteo físico. Los detalles nacen con la sesión (snapshot atómico) y su
// Theoretical nunca se actualiza después.
type VerificationRepository interface {
	CreateSession(session *entity.VerificationSession, details []entity.VerificationDetail) error
	GetSession(id string) (*entity.VerificationSession, error)
	GetSessionForUpdate(id string) (*entity.VerificationSession, error)
	TransitionState(id, from, to string, completedAt *time.Time) (bool, error)
	GetDetail(sessionID, productID string) (*entity.VerificationDetail, error)
	// UpdateDetail sobreescribe físico y campos derivados; no toca Theoretical.
	UpdateDetail(detail *entity.VerificationDetail) error
	ListDetails(sessionID string) ([]*entity.VerificationDetail, error)
}
