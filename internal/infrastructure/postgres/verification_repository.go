package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

var _ repository.VerificationRepository = (*VerificationRepo)(nil)

// VerificationRepo implementación de conteos físicos sobre PostgreSQL
// (usable con pool o tx).
type VerificationRepo struct {
	q Querier
}

// NewVerificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVerificationRepository(q Querier) *VerificationRepo {
	return &VerificationRepo{q: q}
}

const sessionColumns = `id, state, verifier, started_at, completed_at`

func scanSession(row pgx.Row) (*entity.VerificationSession, error) {
	var s entity.VerificationSession
	err := row.Scan(&s.ID, &s.State, &s.Verifier, &s.StartedAt, &s.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession persiste la sesión con sus detalles (snapshot atómico).
func (r *VerificationRepo) CreateSession(session *entity.VerificationSession, details []entity.VerificationDetail) error {
	query := `
		INSERT INTO verification_sessions (id, state, verifier, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.State, session.Verifier, session.StartedAt, session.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create verification session: %w", err)
	}
	for _, d := range details {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO verification_details (id, session_id, product_id, theoretical, physical, counted, difference, percent, percent_unbounded, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			d.ID, d.SessionID, d.ProductID, d.Theoretical, d.Physical, d.Counted,
			d.Difference, d.Percent, d.PercentUnbounded, d.Status, d.Notes,
		)
		if err != nil {
			return fmt.Errorf("create verification detail: %w", err)
		}
	}
	return nil
}

// GetSession obtiene una sesión por ID; nil si no existe.
func (r *VerificationRepo) GetSession(id string) (*entity.VerificationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM verification_sessions WHERE id = $1`
	s, err := scanSession(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification session: %w", err)
	}
	return s, nil
}

// GetSessionForUpdate obtiene la sesión bloqueando la fila (SELECT FOR UPDATE).
func (r *VerificationRepo) GetSessionForUpdate(id string) (*entity.VerificationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM verification_sessions WHERE id = $1 FOR UPDATE`
	s, err := scanSession(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification session for update: %w", err)
	}
	return s, nil
}

// TransitionState cambia el estado solo si el actual coincide con from.
func (r *VerificationRepo) TransitionState(id, from, to string, completedAt *time.Time) (bool, error) {
	query := `
		UPDATE verification_sessions SET state = $3, completed_at = COALESCE($4, completed_at)
		WHERE id = $1 AND state = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to, completedAt)
	if err != nil {
		return false, fmt.Errorf("transition verification state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const detailColumns = `id, session_id, product_id, theoretical, physical, counted, difference, percent, percent_unbounded, status, notes`

func scanDetail(row pgx.Row) (*entity.VerificationDetail, error) {
	var d entity.VerificationDetail
	err := row.Scan(&d.ID, &d.SessionID, &d.ProductID, &d.Theoretical, &d.Physical,
		&d.Counted, &d.Difference, &d.Percent, &d.PercentUnbounded, &d.Status, &d.Notes)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetail obtiene el renglón de un producto en la sesión; nil si no existe.
func (r *VerificationRepo) GetDetail(sessionID, productID string) (*entity.VerificationDetail, error) {
	query := `SELECT ` + detailColumns + ` FROM verification_details WHERE session_id = $1 AND product_id = $2`
	d, err := scanDetail(r.q.QueryRow(context.Background(), query, sessionID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification detail: %w", err)
	}
	return d, nil
}

// UpdateDetail sobreescribe físico y campos derivados. Theoretical no está en
// el SET: el snapshot nunca cambia.
func (r *VerificationRepo) UpdateDetail(detail *entity.VerificationDetail) error {
	query := `
		UPDATE verification_details
		SET physical = $2, counted = $3, difference = $4, percent = $5, percent_unbounded = $6, status = $7, notes = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		detail.ID, detail.Physical, detail.Counted, detail.Difference,
		detail.Percent, detail.PercentUnbounded, detail.Status, detail.Notes,
	)
	if err != nil {
		return fmt.Errorf("update verification detail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update verification detail: fila no encontrada")
	}
	return nil
}

// ListDetails lista los renglones de una sesión.
func (r *VerificationRepo) ListDetails(sessionID string) ([]*entity.VerificationDetail, error) {
	query := `SELECT ` + detailColumns + ` FROM verification_details WHERE session_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list verification details: %w", err)
	}
	defer rows.Close()
	var list []*entity.VerificationDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
