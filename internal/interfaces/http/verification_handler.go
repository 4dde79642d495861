package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/application/verification"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// VerificationHandler maneja sesiones de conteo físico y su aprobación.
type VerificationHandler struct {
	usecase *verification.UseCase
}

// NewVerificationHandler construye el handler.
func NewVerificationHandler(usecase *verification.UseCase) *VerificationHandler {
	return &VerificationHandler{usecase: usecase}
}

func toSessionResponse(s *entity.VerificationSession, details []*entity.VerificationDetail) dto.VerificationSessionResponse {
	resp := dto.VerificationSessionResponse{
		ID:          s.ID,
		State:       s.State,
		Verifier:    s.Verifier,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.VerificationDetailResponse{
			ProductID:        d.ProductID,
			Theoretical:      d.Theoretical,
			Physical:         d.Physical,
			Counted:          d.Counted,
			Difference:       d.Difference,
			Percent:          d.Percent,
			PercentUnbounded: d.PercentUnbounded,
			Status:           d.Status,
			Notes:            d.Notes,
		})
	}
	return resp
}

// Start godoc
// @Summary      Iniciar sesión de conteo físico (congela el teórico)
// @Tags         verifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartVerificationRequest  true  "product_ids"
// @Success      201   {object}  dto.VerificationSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/verifications [post]
func (h *VerificationHandler) Start(c *fiber.Ctx) error {
	var in dto.StartVerificationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.usecase.Start(c.Context(), GetUserID(c), in.ProductIDs)
	if err != nil {
		return respondError(c, err)
	}
	_, details, err := h.usecase.GetSession(c.Context(), session.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(session, details))
}

// RecordCount godoc
// @Summary      Registrar conteo físico de un producto (reconteo sobreescribe)
// @Tags         verifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Session ID"
// @Param        body  body  dto.RecordCountRequest  true  "product_id, physical"
// @Success      200   {object}  dto.VerificationDetailResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/verifications/{id}/counts [post]
func (h *VerificationHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	detail, err := h.usecase.RecordCount(c.Context(), c.Params("id"), in.ProductID, in.Physical, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.VerificationDetailResponse{
		ProductID:        detail.ProductID,
		Theoretical:      detail.Theoretical,
		Physical:         detail.Physical,
		Counted:          detail.Counted,
		Difference:       detail.Difference,
		Percent:          detail.Percent,
		PercentUnbounded: detail.PercentUnbounded,
		Status:           detail.Status,
		Notes:            detail.Notes,
	})
}

// Complete godoc
// @Summary      Completar sesión (en_proceso → pendiente_aprobacion)
// @Tags         verifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.CompleteVerificationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/verifications/{id}/complete [post]
func (h *VerificationHandler) Complete(c *fiber.Ctx) error {
	pending, err := h.usecase.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CompleteVerificationResponse{
		SessionID: c.Params("id"),
		State:     entity.VerificacionPendiente,
		Pending:   pending,
	})
}

// Approve godoc
// @Summary      Aprobar sesión y aplicar ajustes al libro de stock
// @Tags         verifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/verifications/{id}/approve [post]
func (h *VerificationHandler) Approve(c *fiber.Ctx) error {
	movements, err := h.usecase.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	adjustments := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		adjustments = append(adjustments, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{
		"session_id":  c.Params("id"),
		"state":       entity.VerificacionAprobada,
		"adjustments": adjustments,
	})
}

// Reject godoc
// @Summary      Rechazar sesión sin tocar el inventario
// @Tags         verifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/verifications/{id}/reject [post]
func (h *VerificationHandler) Reject(c *fiber.Ctx) error {
	if err := h.usecase.Reject(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": c.Params("id"), "state": entity.VerificacionRechazada})
}

// GetSession godoc
// @Summary      Obtener sesión de conteo con sus detalles
// @Tags         verifications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  dto.VerificationSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/verifications/{id} [get]
func (h *VerificationHandler) GetSession(c *fiber.Ctx) error {
	session, details, err := h.usecase.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toSessionResponse(session, details))
}
