package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
)

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

// ApplicationRepo implementación de ApplicationRepository sobre PostgreSQL
// (usable con pool o tx).
type ApplicationRepo struct {
	q Querier
}

// NewApplicationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApplicationRepository(q Querier) *ApplicationRepo {
	return &ApplicationRepo{q: q}
}

const applicationColumns = `id, kind, state, start_date, close_date, plots, created_at, updated_at`

func scanApplication(row pgx.Row) (*entity.Application, error) {
	var a entity.Application
	err := row.Scan(&a.ID, &a.Kind, &a.State, &a.StartDate, &a.CloseDate, &a.Plots, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste la aplicación y sus productos planificados.
func (r *ApplicationRepo) Create(app *entity.Application, planned []entity.PlannedProduct) error {
	query := `
		INSERT INTO applications (id, kind, state, start_date, close_date, plots, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		app.ID, app.Kind, app.State, app.StartDate, app.CloseDate, app.Plots, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	for _, p := range planned {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO application_planned_products (application_id, product_id, quantity)
			VALUES ($1, $2, $3)`,
			p.ApplicationID, p.ProductID, p.Quantity,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("create planned product: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una aplicación por ID; nil si no existe.
func (r *ApplicationRepo) GetByID(id string) (*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return a, nil
}

// GetForUpdate obtiene la aplicación bloqueando la fila (SELECT FOR UPDATE).
// El cierre y la bitácora la toman para no intercalarse.
func (r *ApplicationRepo) GetForUpdate(id string) (*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 FOR UPDATE`
	a, err := scanApplication(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application for update: %w", err)
	}
	return a, nil
}

// List lista aplicaciones paginadas, recientes primero.
func (r *ApplicationRepo) List(limit, offset int) ([]*entity.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY start_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ListPlanned lista los productos planificados de una aplicación.
func (r *ApplicationRepo) ListPlanned(applicationID string) ([]entity.PlannedProduct, error) {
	query := `
		SELECT application_id, product_id, quantity
		FROM application_planned_products WHERE application_id = $1`
	rows, err := r.q.Query(context.Background(), query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list planned products: %w", err)
	}
	defer rows.Close()
	var list []entity.PlannedProduct
	for rows.Next() {
		var p entity.PlannedProduct
		if err := rows.Scan(&p.ApplicationID, &p.ProductID, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan planned product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// TransitionState cambia el estado solo si el actual coincide con from
// (compare-and-swap sobre la fila). Devuelve false si no hubo cambio.
func (r *ApplicationRepo) TransitionState(id, from, to string, closeDate *time.Time) (bool, error) {
	query := `
		UPDATE applications SET state = $3, close_date = COALESCE($4, close_date), updated_at = now()
		WHERE id = $1 AND state = $2`
	tag, err := r.q.Exec(context.Background(), query, id, from, to, closeDate)
	if err != nil {
		return false, fmt.Errorf("transition application state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
