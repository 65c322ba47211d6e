package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/application/usecase"
)

// DashboardHandler maneja los agregados y alertas del dashboard (protegido).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Métricas agregadas del inventario
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	summary, err := h.uc.Summary(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

// LowStock godoc
// @Summary      Alertas de stock bajo (en o por debajo del umbral mínimo)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/alerts/low-stock [get]
func (h *DashboardHandler) LowStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	alerts, err := h.uc.LowStockAlerts(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(alerts)
}

// OutOfStock godoc
// @Summary      Alertas de stock agotado (cantidad cero)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockAlertDTO
// @Router       /api/alerts/out-of-stock [get]
func (h *DashboardHandler) OutOfStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	alerts, err := h.uc.OutOfStockAlerts(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(alerts)
}
