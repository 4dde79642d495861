package campaign_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeStore simula la base de datos completa que toca una transacción de
// campaña: catálogo, libro de stock, aplicaciones y bitácora.
type fakeStore struct {
	mu           sync.Mutex
	products     map[string]*entity.Product
	movements    []*entity.StockMovement
	applications map[string]*entity.Application
	planned      map[string][]entity.PlannedProduct
	entries      map[string]*entity.DailyUsageEntry
	lines        map[string][]entity.DailyUsageLine // por entry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:     make(map[string]*entity.Product),
		applications: make(map[string]*entity.Application),
		planned:      make(map[string][]entity.PlannedProduct),
		entries:      make(map[string]*entity.DailyUsageEntry),
		lines:        make(map[string][]entity.DailyUsageLine),
	}
}

func (s *fakeStore) addProduct(id, name string, u unit.Unit, balance string, price *decimal.Decimal) {
	s.products[id] = &entity.Product{
		ID:            id,
		Name:          name,
		Category:      entity.CategoriaFumigacion,
		CanonicalUnit: u,
		Price:         price,
		Balance:       dec(balance),
	}
}

func (s *fakeStore) addApplication(id, state string) {
	s.applications[id] = &entity.Application{
		ID:        id,
		Kind:      entity.AplicacionFumigacion,
		State:     state,
		StartDate: time.Now(),
		Plots:     []string{"lote-1"},
	}
}

func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	snap.movements = make([]*entity.StockMovement, len(s.movements))
	copy(snap.movements, s.movements)
	for id, a := range s.applications {
		cp := *a
		snap.applications[id] = &cp
	}
	for id, pp := range s.planned {
		snap.planned[id] = append([]entity.PlannedProduct(nil), pp...)
	}
	for id, e := range s.entries {
		cp := *e
		snap.entries[id] = &cp
	}
	for id, ls := range s.lines {
		snap.lines[id] = append([]entity.DailyUsageLine(nil), ls...)
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.products = snap.products
	s.movements = snap.movements
	s.applications = snap.applications
	s.planned = snap.planned
	s.entries = snap.entries
	s.lines = snap.lines
}

// ── repos ────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.store.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Update(p *entity.Product) error { r.store.products[p.ID] = p; return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateBalance(id string, balance decimal.Decimal) error {
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Balance = balance
	return nil
}

type fakeMovementRepo struct{ store *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByApplication(applicationID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.ApplicationID == applicationID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeApplicationRepo struct{ store *fakeStore }

func (r *fakeApplicationRepo) Create(app *entity.Application, planned []entity.PlannedProduct) error {
	cp := *app
	r.store.applications[app.ID] = &cp
	r.store.planned[app.ID] = append([]entity.PlannedProduct(nil), planned...)
	return nil
}

func (r *fakeApplicationRepo) GetByID(id string) (*entity.Application, error) {
	a, ok := r.store.applications[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) GetForUpdate(id string) (*entity.Application, error) {
	return r.GetByID(id)
}

func (r *fakeApplicationRepo) List(limit, offset int) ([]*entity.Application, error) {
	var out []*entity.Application
	for _, a := range r.store.applications {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListPlanned(applicationID string) ([]entity.PlannedProduct, error) {
	return append([]entity.PlannedProduct(nil), r.store.planned[applicationID]...), nil
}

func (r *fakeApplicationRepo) TransitionState(id, from, to string, closeDate *time.Time) (bool, error) {
	a, ok := r.store.applications[id]
	if !ok || a.State != from {
		return false, nil
	}
	a.State = to
	if closeDate != nil {
		a.CloseDate = closeDate
	}
	return true, nil
}

type fakeUsageRepo struct{ store *fakeStore }

func (r *fakeUsageRepo) CreateEntry(entry *entity.DailyUsageEntry, lines []entity.DailyUsageLine) error {
	cp := *entry
	r.store.entries[entry.ID] = &cp
	r.store.lines[entry.ID] = append([]entity.DailyUsageLine(nil), lines...)
	return nil
}

func (r *fakeUsageRepo) GetEntry(id string) (*entity.DailyUsageEntry, error) {
	e, ok := r.store.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeUsageRepo) DeleteEntry(id string) error {
	delete(r.store.entries, id)
	delete(r.store.lines, id)
	return nil
}

func (r *fakeUsageRepo) ListByApplication(applicationID string) ([]*entity.DailyUsageEntry, error) {
	var out []*entity.DailyUsageEntry
	for _, e := range r.store.entries {
		if e.ApplicationID == applicationID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) ListLines(entryID string) ([]entity.DailyUsageLine, error) {
	return append([]entity.DailyUsageLine(nil), r.store.lines[entryID]...), nil
}

func (r *fakeUsageRepo) ListLinesByApplication(applicationID string) ([]entity.DailyUsageLine, error) {
	var out []entity.DailyUsageLine
	for entryID, ls := range r.store.lines {
		e, ok := r.store.entries[entryID]
		if !ok || e.ApplicationID != applicationID {
			continue
		}
		out = append(out, ls...)
	}
	return out, nil
}

// fakeTxRunner serializa transacciones con un mutex y simula rollback con
// snapshot/restore del estado completo.
type fakeTxRunner struct{ store *fakeStore }

func (t *fakeTxRunner) RunCampaign(ctx context.Context, fn func(
	appRepo repository.ApplicationRepository,
	usageRepo repository.DailyUsageRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.snapshot()
	err := fn(
		&fakeApplicationRepo{store: t.store},
		&fakeUsageRepo{store: t.store},
		&fakeMovementRepo{store: t.store},
		&fakeProductRepo{store: t.store},
	)
	if err != nil {
		t.store.restore(snap)
	}
	return err
}
