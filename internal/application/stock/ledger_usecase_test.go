package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sforero94/Escociaos-sub004/internal/application/stock"
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

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeStore simula la base de datos: productos indexados por ID y el libro de
// movimientos append-only.
type fakeStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[string]*entity.Product)}
}

func (s *fakeStore) addProduct(id string, balance string) {
	s.products[id] = &entity.Product{
		ID:            id,
		Name:          id,
		Category:      entity.CategoriaFumigacion,
		CanonicalUnit: unit.Litro,
		Balance:       dec(balance),
	}
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetForUpdate no bloquea nada aquí: el fakeTxRunner serializa transacciones
// completas con su mutex, igual que haría el lock de fila en el peor caso.
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

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

// fakeTxRunner serializa transacciones con un mutex y simula rollback con
// snapshot/restore del estado completo.
type fakeTxRunner struct{ store *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snapProducts := make(map[string]*entity.Product, len(t.store.products))
	for id, p := range t.store.products {
		cp := *p
		snapProducts[id] = &cp
	}
	snapMovements := make([]*entity.StockMovement, len(t.store.movements))
	copy(snapMovements, t.store.movements)

	err := fn(&fakeMovementRepo{store: t.store}, &fakeProductRepo{store: t.store})
	if err != nil {
		t.store.products = snapProducts
		t.store.movements = snapMovements
	}
	return err
}

func newLedger(store *fakeStore) *stock.LedgerUseCase {
	return stock.NewLedgerUseCase(
		&fakeTxRunner{store: store},
		&fakeProductRepo{store: store},
		&fakeMovementRepo{store: store},
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAppend_EntradaRegistraSaldoAntesYDespues(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "10")
	ledger := newLedger(store)

	mov, err := ledger.Append(context.Background(), stock.AppendInput{
		ProductID: "glifosato",
		Kind:      entity.MovementEntrada,
		Quantity:  dec("5"),
		UserID:    "user-1",
	})
	require.NoError(t, err)

	assert.True(t, dec("10").Equal(mov.BalanceBefore))
	assert.True(t, dec("15").Equal(mov.BalanceAfter))
	assert.True(t, dec("5").Equal(mov.Quantity), "la entrada se guarda con signo positivo")
	assert.True(t, dec("15").Equal(store.products["glifosato"].Balance))
}

func TestAppend_SalidaGuardaCantidadNegativa(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "10")
	ledger := newLedger(store)

	mov, err := ledger.Append(context.Background(), stock.AppendInput{
		ProductID: "glifosato",
		Kind:      entity.MovementSalida,
		Quantity:  dec("4"),
	})
	require.NoError(t, err)

	assert.True(t, dec("-4").Equal(mov.Quantity), "la salida se guarda con signo negativo")
	assert.True(t, dec("6").Equal(mov.BalanceAfter))
}

func TestAppend_SalidaInsuficienteNoTocaElLibro(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "3")
	ledger := newLedger(store)

	_, err := ledger.Append(context.Background(), stock.AppendInput{
		ProductID: "glifosato",
		Kind:      entity.MovementSalida,
		Quantity:  dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, dec("3").Equal(store.products["glifosato"].Balance),
		"el saldo no debe cambiar tras un rechazo")
	assert.Empty(t, store.movements, "no debe quedar ningún movimiento escrito")
}

// Salida que deja el saldo exactamente en cero: permitida.
func TestAppend_SalidaHastaCeroEsValida(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "5")
	ledger := newLedger(store)

	mov, err := ledger.Append(context.Background(), stock.AppendInput{
		ProductID: "glifosato",
		Kind:      entity.MovementSalida,
		Quantity:  dec("5"),
	})
	require.NoError(t, err)
	assert.True(t, mov.BalanceAfter.IsZero())
}

func TestAppend_AjusteCalculaDeltaFirmado(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "10")
	ledger := newLedger(store)

	target := dec("7.5")
	mov, err := ledger.Append(context.Background(), stock.AppendInput{
		ProductID:     "glifosato",
		Kind:          entity.MovementAjuste,
		TargetBalance: &target,
		Notes:         "conteo físico",
	})
	require.NoError(t, err)

	assert.True(t, dec("-2.5").Equal(mov.Quantity), "ajuste hacia abajo: delta negativo")
	assert.True(t, dec("7.5").Equal(mov.BalanceAfter))
	assert.True(t, dec("7.5").Equal(store.products["glifosato"].Balance))
}

func TestAppend_EntradasInvalidas(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "10")
	ledger := newLedger(store)
	ctx := context.Background()

	_, err := ledger.Append(ctx, stock.AppendInput{ProductID: "glifosato", Kind: entity.MovementEntrada, Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero se rechaza")

	_, err = ledger.Append(ctx, stock.AppendInput{ProductID: "glifosato", Kind: entity.MovementSalida, Quantity: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa se rechaza; el signo lo pone el tipo")

	_, err = ledger.Append(ctx, stock.AppendInput{ProductID: "glifosato", Kind: entity.MovementAjuste})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ajuste sin saldo objetivo se rechaza")

	neg := dec("-1")
	_, err = ledger.Append(ctx, stock.AppendInput{ProductID: "glifosato", Kind: entity.MovementAjuste, TargetBalance: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ajuste a saldo negativo se rechaza")

	_, err = ledger.Append(ctx, stock.AppendInput{ProductID: "glifosato", Kind: "prestamo", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo de movimiento desconocido se rechaza")
}

func TestAppend_ProductoInexistente(t *testing.T) {
	store := newFakeStore()
	ledger := newLedger(store)

	_, err := ledger.Append(context.Background(), stock.AppendInput{
		ProductID: "fantasma",
		Kind:      entity.MovementEntrada,
		Quantity:  dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Appends concurrentes sobre el mismo producto quedan serializados: el saldo
// final es el neto y la cadena antes/después no tiene huecos.
func TestAppend_ConcurrenciaSerializada(t *testing.T) {
	// saldo inicial suficiente para que ningún orden de llegada deje una
	// salida sin stock
	store := newFakeStore()
	store.addProduct("glifosato", "60")
	ledger := newLedger(store)

	const pairs = 20
	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := ledger.Append(context.Background(), stock.AppendInput{
				ProductID: "glifosato", Kind: entity.MovementEntrada, Quantity: dec("3"),
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := ledger.Append(context.Background(), stock.AppendInput{
				ProductID: "glifosato", Kind: entity.MovementSalida, Quantity: dec("3"),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, dec("60").Equal(store.products["glifosato"].Balance),
		"%d pares +3/−3 deben dejar el saldo en 60, quedó %s", pairs, store.products["glifosato"].Balance)
	require.Len(t, store.movements, pairs*2)

	// invariante del libro: cada saldo "antes" es el "después" anterior y el
	// saldo del producto es la suma firmada de los movimientos
	sum := dec("60")
	for i, m := range store.movements {
		assert.True(t, sum.Equal(m.BalanceBefore),
			"movimiento %d: balance_before %s no encadena con %s", i, m.BalanceBefore, sum)
		sum = sum.Add(m.Quantity)
		assert.True(t, sum.Equal(m.BalanceAfter))
	}
	assert.True(t, sum.Equal(store.products["glifosato"].Balance))
}

func TestCurrentBalance(t *testing.T) {
	store := newFakeStore()
	store.addProduct("glifosato", "42")
	ledger := newLedger(store)

	p, err := ledger.CurrentBalance(context.Background(), "glifosato")
	require.NoError(t, err)
	assert.True(t, dec("42").Equal(p.Balance))

	_, err = ledger.CurrentBalance(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
