package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/StockTrack-api/internal/application/dto"
	"github.com/jhoicas/StockTrack-api/internal/application/integration"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/pkg/metrics"
)

// IntegrationHandler maneja la conexión con plataformas e-commerce y la
// recepción de webhooks. Las rutas de callback y webhook son públicas: la
// primera se autentica con el state de OAuth y la segunda con la firma HMAC.
type IntegrationHandler struct {
	uc  *integration.UseCase
	met *metrics.Metrics
}

// NewIntegrationHandler construye el handler. met puede ser nil (tests).
func NewIntegrationHandler(uc *integration.UseCase, met *metrics.Metrics) *IntegrationHandler {
	return &IntegrationHandler{uc: uc, met: met}
}

// ConnectShopify godoc
// @Summary      Iniciar conexión OAuth con Shopify
// @Tags         integrations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConnectShopifyRequest  true  "store_url (dominio myshopify)"
// @Success      200   {object}  dto.ConnectShopifyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/integrations/shopify/connect [post]
func (h *IntegrationHandler) ConnectShopify(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ConnectShopifyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_url debe ser un dominio válido"})
	}
	authURL, err := h.uc.ConnectShopify(c.Context(), userID, in.StoreURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_url es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ConnectShopifyResponse{AuthURL: authURL})
}

// ShopifyCallback godoc
// @Summary      Callback OAuth de Shopify (redirige al frontend)
// @Tags         integrations
// @Param        code   query  string  true   "code de autorización"
// @Param        shop   query  string  true   "dominio de la tienda"
// @Param        state  query  string  true   "state opaco emitido en connect"
// @Success      302
// @Router       /api/integrations/shopify/callback [get]
func (h *IntegrationHandler) ShopifyCallback(c *fiber.Ctx) error {
	redirectURL := h.uc.ShopifyCallback(
		c.Context(),
		c.Query("code"),
		c.Query("shop"),
		c.Query("state"),
	)
	return c.Redirect(redirectURL, fiber.StatusFound)
}

// ShopifyWebhook godoc
// @Summary      Webhook orders/create de Shopify
// @Description  La autenticidad se verifica con HMAC-SHA256 sobre los bytes
//
//	crudos del body; el tenant se resuelve por el header de dominio de tienda.
//
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/integrations/shopify/webhook [post]
func (h *IntegrationHandler) ShopifyWebhook(c *fiber.Ctx) error {
	signature := c.Get("X-Shopify-Hmac-Sha256")
	shopDomain := c.Get("X-Shopify-Shop-Domain")
	if signature == "" || shopDomain == "" {
		h.countWebhook("bad_request")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_HEADERS", Message: "headers de Shopify requeridos"})
	}

	// c.Body() entrega los bytes exactos recibidos; la firma se calcula sobre
	// ellos, nunca sobre el JSON re-serializado.
	err := h.uc.HandleOrderWebhook(c.Context(), c.Body(), signature, shopDomain)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			h.countWebhook("invalid_signature")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma HMAC inválida"})
		case errors.Is(err, domain.ErrUnknownStore):
			h.countWebhook("unknown_store")
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_STORE", Message: "tienda no registrada"})
		default:
			h.countWebhook("internal_error")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	h.countWebhook("ok")
	return c.JSON(dto.MessageResponse{Message: "webhook procesado"})
}

// ConnectWooCommerce godoc
// @Summary      Conectar tienda WooCommerce con claves API
// @Tags         integrations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConnectWooCommerceRequest  true  "store_url, api_key_public, api_key_secret"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/integrations/woocommerce/connect [post]
func (h *IntegrationHandler) ConnectWooCommerce(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ConnectWooCommerceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_url y claves API son requeridos"})
	}
	err := h.uc.ConnectWooCommerce(c.Context(), userID, in.StoreURL, in.APIKeyPublic, in.APIKeySecret)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamFailure) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: "no se pudo validar la tienda WooCommerce"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_url y claves API son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "integración con WooCommerce conectada"})
}

// Status godoc
// @Summary      Estado de las integraciones del tenant
// @Tags         integrations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.IntegrationStatusResponse
// @Router       /api/integrations/status [get]
func (h *IntegrationHandler) Status(c *fiber.Ctx) error {
	userID := GetUserID(c)
	integrations, err := h.uc.Status(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.IntegrationStatusResponse, 0, len(integrations))
	for _, i := range integrations {
		// Nunca exponer tokens ni claves, ni siquiera cifrados.
		out = append(out, dto.IntegrationStatusResponse{
			ID:           i.ID,
			Type:         i.Type,
			StoreURL:     i.StoreURL,
			Status:       i.Status,
			LastSyncAt:   i.LastSyncAt,
			ErrorMessage: i.ErrorMessage,
		})
	}
	return c.JSON(out)
}

func (h *IntegrationHandler) countWebhook(result string) {
	if h.met != nil {
		h.met.WebhookRequests.WithLabelValues(result).Inc()
	}
}
