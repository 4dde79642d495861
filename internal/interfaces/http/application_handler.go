package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sforero94/Escociaos-sub004/internal/application/campaign"
	"github.com/sforero94/Escociaos-sub004/internal/application/dto"
	"github.com/sforero94/Escociaos-sub004/internal/domain/entity"
)

// ApplicationHandler maneja aplicaciones (campañas): planificación, ciclo de
// vida, bitácora diaria, conciliación y cierre.
type ApplicationHandler struct {
	lifecycle      *campaign.LifecycleUseCase
	journal        *campaign.JournalUseCase
	closing        *campaign.ClosingUseCase
	reconciliation *campaign.ReconciliationUseCase
}

// NewApplicationHandler construye el handler.
func NewApplicationHandler(
	lifecycle *campaign.LifecycleUseCase,
	journal *campaign.JournalUseCase,
	closing *campaign.ClosingUseCase,
	reconciliation *campaign.ReconciliationUseCase,
) *ApplicationHandler {
	return &ApplicationHandler{
		lifecycle:      lifecycle,
		journal:        journal,
		closing:        closing,
		reconciliation: reconciliation,
	}
}

func toApplicationResponse(a *entity.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:        a.ID,
		Kind:      a.Kind,
		State:     a.State,
		StartDate: a.StartDate,
		CloseDate: a.CloseDate,
		Plots:     a.Plots,
		CreatedAt: a.CreatedAt,
	}
}

// Create godoc
// @Summary      Crear aplicación planificada
// @Tags         applications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateApplicationRequest  true  "kind, start_date, plots, planned_products"
// @Success      201   {object}  dto.ApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/applications [post]
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateApplicationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	app, err := h.lifecycle.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toApplicationResponse(app))
}

// List godoc
// @Summary      Listar aplicaciones
// @Tags         applications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ApplicationResponse
// @Router       /api/applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	apps, err := h.lifecycle.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener aplicación con productos planificados
// @Tags         applications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	app, planned, err := h.lifecycle.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	plannedOut := make([]dto.PlannedProductRequest, 0, len(planned))
	for _, p := range planned {
		plannedOut = append(plannedOut, dto.PlannedProductRequest{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return c.JSON(fiber.Map{
		"application":      toApplicationResponse(app),
		"planned_products": plannedOut,
	})
}

// StartExecution godoc
// @Summary      Iniciar ejecución (planificada → en_ejecucion)
// @Tags         applications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/applications/{id}/start [post]
func (h *ApplicationHandler) StartExecution(c *fiber.Ctx) error {
	if err := h.lifecycle.StartExecution(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ejecución iniciada"})
}

// RecordUsage godoc
// @Summary      Registrar consumo diario (bitácora provisional)
// @Tags         applications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Application ID"
// @Param        body  body  dto.RecordUsageRequest  true  "date, plot, responsible, lines"
// @Success      201   {object}  dto.UsageEntryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/applications/{id}/usage [post]
func (h *ApplicationHandler) RecordUsage(c *fiber.Ctx) error {
	var in dto.RecordUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.journal.RecordUsage(c.Context(), c.Params("id"), GetUserID(c), GetUserName(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UsageEntryResponse{
		ID:            entry.ID,
		ApplicationID: entry.ApplicationID,
		Date:          entry.Date,
		Plot:          entry.Plot,
		Responsible:   entry.Responsible,
		CreatedAt:     entry.CreatedAt,
	})
}

// ListUsage godoc
// @Summary      Listar bitácora diaria de una aplicación
// @Tags         applications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {array}  dto.UsageEntryResponse
// @Router       /api/applications/{id}/usage [get]
func (h *ApplicationHandler) ListUsage(c *fiber.Ctx) error {
	entries, lines, err := h.journal.ListByApplication(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.UsageEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := dto.UsageEntryResponse{
			ID:            e.ID,
			ApplicationID: e.ApplicationID,
			Date:          e.Date,
			Plot:          e.Plot,
			Responsible:   e.Responsible,
			CreatedAt:     e.CreatedAt,
		}
		for _, l := range lines[e.ID] {
			resp.Lines = append(resp.Lines, dto.UsageLineResponse{
				ID:        l.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Unit:      string(l.Unit),
				BagFactor: l.BagFactor,
			})
		}
		out = append(out, resp)
	}
	return c.JSON(out)
}

// DeleteUsage godoc
// @Summary      Eliminar un registro diario (solo con aplicación en ejecución)
// @Tags         applications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Usage entry ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/usage/{id} [delete]
func (h *ApplicationHandler) DeleteUsage(c *fiber.Ctx) error {
	if err := h.journal.DeleteUsage(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "registro eliminado"})
}

// GetReconciliation godoc
// @Summary      Conciliación planificado vs usado, con alertas
// @Tags         applications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/applications/{id}/reconciliation [get]
func (h *ApplicationHandler) GetReconciliation(c *fiber.Ctx) error {
	app, summaries, alerts, err := h.reconciliation.GetSummary(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ReconciliationResponse{
		ApplicationID: app.ID,
		State:         app.State,
		Summaries:     make([]dto.ReconciliationSummaryResponse, 0, len(summaries)),
		Alerts:        make([]dto.AlertResponse, 0, len(alerts)),
	}
	for _, s := range summaries {
		resp.Summaries = append(resp.Summaries, dto.ReconciliationSummaryResponse{
			ProductID:        s.ProductID,
			ProductName:      s.ProductName,
			Planned:          s.Planned,
			Used:             s.Used,
			Difference:       s.Difference,
			Percent:          s.Percent,
			PercentUnbounded: s.PercentUnbounded,
			Exceeds:          s.Exceeds,
		})
	}
	for _, a := range alerts {
		resp.Alerts = append(resp.Alerts, dto.AlertResponse{
			Severity:    a.Severity,
			ProductID:   a.ProductID,
			ProductName: a.ProductName,
			Message:     a.Message,
			Percent:     a.Percent,
		})
	}
	return c.JSON(resp)
}

// Close godoc
// @Summary      Cerrar aplicación (bitácora → salidas del libro, una sola vez)
// @Tags         applications
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Success      200  {object}  dto.CloseApplicationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/applications/{id}/close [post]
func (h *ApplicationHandler) Close(c *fiber.Ctx) error {
	movements, err := h.closing.Close(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	app, _, err := h.lifecycle.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.CloseApplicationResponse{
		ApplicationID: app.ID,
		Movements:     make([]dto.MovementResponse, 0, len(movements)),
	}
	if app.CloseDate != nil {
		resp.CloseDate = *app.CloseDate
	}
	for _, m := range movements {
		resp.Movements = append(resp.Movements, toMovementResponse(m))
	}
	return c.JSON(resp)
}
