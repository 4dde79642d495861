package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Taxonomía: validación (entrada inválida), estado (transición ilegal),
// consistencia (stock, precios, unidades) y conflicto (carrera perdida).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	ErrInsufficientStock = errors.New("stock insuficiente")

	// Ciclo de vida de aplicaciones (fumigación/fertilización).
	ErrInvalidTransition       = errors.New("transición de estado inválida")
	ErrApplicationNotExecuting = errors.New("la aplicación no está en ejecución")

	// Conversión de unidades.
	ErrUnknownUnit             = errors.New("unidad desconocida")
	ErrIncompatibleUnit        = errors.New("unidad incompatible con la unidad canónica del producto")
	ErrMissingConversionFactor = errors.New("falta el factor de conversión (kg por bulto)")

	// Cierre de aplicaciones y conteo físico.
	ErrMissingPrice              = errors.New("productos sin precio unitario")
	ErrEmptyProductSet           = errors.New("la verificación requiere al menos un producto")
	ErrVerificationNotInProgress = errors.New("la verificación no está en proceso")
)

// MissingPriceError lista los productos que bloquean el cierre por no tener
// precio unitario. Desenvuelve a ErrMissingPrice para errors.Is.
type MissingPriceError struct {
	Products []string // nombres de producto
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("productos sin precio unitario: %s", strings.Join(e.Products, ", "))
}

func (e *MissingPriceError) Unwrap() error { return ErrMissingPrice }

// IncompatibleUnitError indica que la unidad registrada pertenece a otra
// familia (volumen vs masa) que la canónica del producto.
type IncompatibleUnitError struct {
	Unit      string
	Canonical string
}

func (e *IncompatibleUnitError) Error() string {
	return fmt.Sprintf("unidad %s incompatible con la unidad canónica %s", e.Unit, e.Canonical)
}

func (e *IncompatibleUnitError) Unwrap() error { return ErrIncompatibleUnit }
