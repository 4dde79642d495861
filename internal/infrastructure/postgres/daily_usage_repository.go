package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

var _ repository.DailyUsageRepository = (*DailyUsageRepo)(nil)

// DailyUsageRepo implementación de la bitácora diaria sobre PostgreSQL
// (usable con pool o tx). Las unidades se guardan crudas, tal como llegaron
// de campo.
type DailyUsageRepo struct {
	q Querier
}

// NewDailyUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDailyUsageRepository(q Querier) *DailyUsageRepo {
	return &DailyUsageRepo{q: q}
}

// CreateEntry persiste el encabezado y sus renglones.
func (r *DailyUsageRepo) CreateEntry(entry *entity.DailyUsageEntry, lines []entity.DailyUsageLine) error {
	query := `
		INSERT INTO daily_usage_entries (id, application_id, date, plot, responsible, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ApplicationID, entry.Date, entry.Plot, entry.Responsible, entry.CreatedAt, entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create usage entry: %w", err)
	}
	for _, l := range lines {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO daily_usage_lines (id, entry_id, product_id, quantity, unit, bag_factor)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.EntryID, l.ProductID, l.Quantity, string(l.Unit), l.BagFactor,
		)
		if err != nil {
			return fmt.Errorf("create usage line: %w", err)
		}
	}
	return nil
}

// GetEntry obtiene un registro por ID; nil si no existe.
func (r *DailyUsageRepo) GetEntry(id string) (*entity.DailyUsageEntry, error) {
	query := `
		SELECT id, application_id, date, plot, responsible, created_at, created_by
		FROM daily_usage_entries WHERE id = $1`
	var e entity.DailyUsageEntry
	var createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ApplicationID, &e.Date, &e.Plot, &e.Responsible, &e.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usage entry: %w", err)
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return &e, nil
}

// DeleteEntry elimina el registro; los renglones caen por ON DELETE CASCADE.
func (r *DailyUsageRepo) DeleteEntry(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM daily_usage_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete usage entry: %w", err)
	}
	return nil
}

// ListByApplication lista los registros de una aplicación por fecha.
func (r *DailyUsageRepo) ListByApplication(applicationID string) ([]*entity.DailyUsageEntry, error) {
	query := `
		SELECT id, application_id, date, plot, responsible, created_at, created_by
		FROM daily_usage_entries WHERE application_id = $1 ORDER BY date, created_at`
	rows, err := r.q.Query(context.Background(), query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list usage entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.DailyUsageEntry
	for rows.Next() {
		var e entity.DailyUsageEntry
		var createdBy *string
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.Date, &e.Plot, &e.Responsible, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan usage entry: %w", err)
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ListLines lista los renglones de un registro.
func (r *DailyUsageRepo) ListLines(entryID string) ([]entity.DailyUsageLine, error) {
	query := `
		SELECT id, entry_id, product_id, quantity, unit, bag_factor
		FROM daily_usage_lines WHERE entry_id = $1`
	return r.listLines(query, entryID)
}

// ListLinesByApplication devuelve todos los renglones crudos de la aplicación
// (insumo de conciliación y cierre).
func (r *DailyUsageRepo) ListLinesByApplication(applicationID string) ([]entity.DailyUsageLine, error) {
	query := `
		SELECT l.id, l.entry_id, l.product_id, l.quantity, l.unit, l.bag_factor
		FROM daily_usage_lines l
		JOIN daily_usage_entries e ON e.id = l.entry_id
		WHERE e.application_id = $1`
	return r.listLines(query, applicationID)
}

func (r *DailyUsageRepo) listLines(query string, args ...any) ([]entity.DailyUsageLine, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list usage lines: %w", err)
	}
	defer rows.Close()
	var list []entity.DailyUsageLine
	for rows.Next() {
		var l entity.DailyUsageLine
		var u string
		if err := rows.Scan(&l.ID, &l.EntryID, &l.ProductID, &l.Quantity, &u, &l.BagFactor); err != nil {
			return nil, fmt.Errorf("scan usage line: %w", err)
		}
		l.Unit = unit.Unit(u)
		list = append(list, l)
	}
	return list, rows.Err()
}
