package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/application/stock"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// StockHandler maneja el libro de stock: entradas, saldos e historial.
type StockHandler struct {
	ledger *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{ledger: ledger}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ApplicationID: m.ApplicationID,
		Kind:          m.Kind,
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// RegisterInflow godoc
// @Summary      Registrar entrada de inventario (compra/recepción)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterInflowRequest  true  "product_id, quantity en unidad canónica"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/inflows [post]
func (h *StockHandler) RegisterInflow(c *fiber.Ctx) error {
	var in dto.RegisterInflowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.ledger.Append(c.Context(), stock.AppendInput{
		ProductID: in.ProductID,
		Kind:      entity.MovementEntrada,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// GetBalance godoc
// @Summary      Saldo actual de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/balance [get]
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	product, err := h.ledger.CurrentBalance(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{
		ProductID: product.ID,
		Balance:   product.Balance,
		Unit:      string(product.CanonicalUnit),
	})
}

// ListByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "Product ID"
// @Param        from  query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to    query  string  false  "Fecha final (RFC 3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/{id}/movements [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro from inválido"})
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetro to inválido"})
		}
		to = &t
	}

	movements, err := h.ledger.ListByProduct(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// ListByApplication godoc
// @Summary      Movimientos generados por una aplicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/applications/{id}/movements [get]
func (h *StockHandler) ListByApplication(c *fiber.Ctx) error {
	movements, err := h.ledger.ListByApplication(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}
