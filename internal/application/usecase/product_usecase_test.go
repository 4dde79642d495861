package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/application/usecase"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.products {
		if existing.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateBalance(id string, balance decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Balance = balance
	return nil
}

func price(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestCreate_ProductoNaceConSaldoCero(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	p, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:          "Glifosato 480 SL",
		Category:      entity.CategoriaFumigacion,
		CanonicalUnit: "L",
		Price:         price("38500"),
	})
	require.NoError(t, err)

	assert.True(t, p.Balance.IsZero(), "el saldo inicial siempre es cero; el stock entra por el libro")
	assert.Equal(t, unit.Litro, p.CanonicalUnit)
	assert.True(t, p.HasPrice())
}

func TestCreate_SinPrecioEsValido(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	p, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:          "Urea 46%",
		Category:      entity.CategoriaFertilizacion,
		CanonicalUnit: "kg",
	})
	require.NoError(t, err)
	assert.False(t, p.HasPrice(), "el precio puede registrarse después; el cierre lo exigirá")
}

func TestCreate_Validaciones(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{
		Category: entity.CategoriaFumigacion, CanonicalUnit: "L",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nombre vacío")

	_, err = uc.Create(ctx, dto.CreateProductRequest{
		Name: "X", Category: "herramientas", CanonicalUnit: "L",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "categoría desconocida")

	_, err = uc.Create(ctx, dto.CreateProductRequest{
		Name: "X", Category: entity.CategoriaFumigacion, CanonicalUnit: "CC",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "CC no es unidad canónica; solo L o KG")

	_, err = uc.Create(ctx, dto.CreateProductRequest{
		Name: "X", Category: entity.CategoriaFumigacion, CanonicalUnit: "BULTO",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "BULTO no es unidad canónica")

	_, err = uc.Create(ctx, dto.CreateProductRequest{
		Name: "X", Category: entity.CategoriaFumigacion, CanonicalUnit: "arroba",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)

	_, err = uc.Create(ctx, dto.CreateProductRequest{
		Name: "X", Category: entity.CategoriaFumigacion, CanonicalUnit: "L", Price: price("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")
}

func TestUpdate_NoCambiaUnidadNiSaldo(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Name: "Urea 46%", Category: entity.CategoriaFertilizacion, CanonicalUnit: "KG",
	})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateBalance(p.ID, decimal.NewFromInt(30)))

	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name:     "Urea granulada 46%",
		Category: entity.CategoriaFertirriego,
		Price:    price("2450"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Urea granulada 46%", updated.Name)
	assert.Equal(t, entity.CategoriaFertirriego, updated.Category)
	assert.True(t, updated.HasPrice())
	assert.Equal(t, unit.Kilogramo, updated.CanonicalUnit, "la unidad canónica es inmutable")
	assert.True(t, decimal.NewFromInt(30).Equal(updated.Balance), "el saldo no se edita por el CRUD")
}

func TestUpdate_ProductoInexistente(t *testing.T) {
	uc := usecase.NewProductUseCase(newFakeProductRepo())

	_, err := uc.Update(context.Background(), "fantasma", dto.UpdateProductRequest{
		Name: "X", Category: entity.CategoriaFumigacion,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Name: "Urea 46%", Category: entity.CategoriaFertilizacion, CanonicalUnit: "KG",
	})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	_, err = uc.GetByID(ctx, "fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
