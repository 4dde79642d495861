package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/domain"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
	"github.com/sforero94/Escociaos-sub004/internal/domain/repository"
	"github.com/sforero94/Escociaos-sub004/internal/domain/unit"
)

// ProductUseCase casos de uso CRUD para el catálogo de agroquímicos. El saldo
// no se edita por aquí: solo lo mueve el libro de stock.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

func validCategory(c string) bool {
	return c == entity.CategoriaFumigacion || c == entity.CategoriaFertilizacion || c == entity.CategoriaFertirriego
}

// Create crea un producto con saldo 0. La unidad canónica debe ser L o KG y
// queda fija para siempre.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.Name == "" || !validCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	cu, err := unit.ParseUnit(in.CanonicalUnit)
	if err != nil {
		return nil, err
	}
	if !cu.IsCanonical() {
		return nil, domain.ErrInvalidInput
	}
	if in.Price != nil && in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Category:      in.Category,
		CanonicalUnit: cu,
		Price:         in.Price,
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update actualiza nombre, categoría y precio. Ni la unidad canónica ni el
// saldo cambian por esta vía.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || !validCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	if in.Price != nil && in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product.Name = in.Name
	product.Category = in.Category
	product.Price = in.Price
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// List lista productos paginados.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.repo.List(limit, offset)
}
