package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/application/report"
	"github.com/jhoicas/StockTrack-api/internal/application/stock"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
)

// StockHandler maneja movimientos, ajustes e historial de stock (protegido).
type StockHandler struct {
	movements *stock.MovementUseCase
	reports   *report.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(movements *stock.MovementUseCase, reports *report.UseCase) *StockHandler {
	return &StockHandler{movements: movements, reports: reports}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock (in/out)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "productId, locationId, type (in|out), quantity, notes"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos: " + err.Error()})
	}
	result, err := h.movements.ApplyMovement(c.Context(), stock.MovementInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		UserID:     userID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
	})
	if err != nil {
		return h.mapStockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterMovementResponse{
		Message:     "movimiento registrado",
		NewQuantity: result.NewQuantity,
		Movement:    toMovementDTO(result.Movement),
	})
}

// AdjustLevel godoc
// @Summary      Fijar cantidad absoluta de un nivel (ajuste manual)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustLevelRequest  true  "product_id, location_id, quantity"
// @Success      200   {object}  dto.AdjustLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/levels [put]
func (h *StockHandler) AdjustLevel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.AdjustLevelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos: " + err.Error()})
	}
	result, err := h.movements.SetLevel(c.Context(), stock.AdjustInput{
		ProductID:   in.ProductID,
		LocationID:  in.LocationID,
		UserID:      userID,
		NewQuantity: *in.Quantity,
	})
	if err != nil {
		return h.mapStockError(c, err)
	}
	return c.JSON(dto.AdjustLevelResponse{
		Message:    "nivel ajustado",
		ProductID:  result.Level.ProductID,
		LocationID: result.Level.LocationID,
		Quantity:   result.Level.Quantity,
		UpdatedAt:  result.Level.UpdatedAt,
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Tamaño de página (default 50)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	userID := GetUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	movements, err := h.reports.ListMovements(c.Context(), userID, repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(movements)
}

// MovementsReport godoc
// @Summary      Reporte PDF del historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  byte
// @Router       /api/stock/report [get]
func (h *StockHandler) MovementsReport(c *fiber.Ctx) error {
	userID := GetUserID(c)
	pdfBytes, err := h.reports.MovementsReportPDF(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	filename := "movimientos-" + time.Now().Format("2006-01-02") + ".pdf"
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func (h *StockHandler) mapStockError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrado"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toMovementDTO(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		LocationID: m.LocationID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}
