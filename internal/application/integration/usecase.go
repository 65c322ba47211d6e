package integration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/jhoicas/StockTrack-api/internal/application/stock"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
	"github.com/jhoicas/StockTrack-api/pkg/logger"
	"github.com/jhoicas/StockTrack-api/pkg/vault"
)

// Config credenciales de la app de Shopify y URLs de redirección.
type Config struct {
	ShopifyAPIKey    string
	ShopifyAPISecret string // también es la llave HMAC de los webhooks
	AppURL           string
	FrontendURL      string
}

// Scopes OAuth que solicita la app en Shopify.
const shopifyScopes = "read_products,read_inventory,read_orders"

// UseCase traduce eventos de plataformas externas (webhooks y polling) en
// llamadas al motor de stock, sin saltarse nunca sus invariantes. Los fallos
// por ítem (SKU sin resolver, stock insuficiente) se registran en la
// integración y no abortan la orden; los fallos por integración no detienen
// a las demás.
type UseCase struct {
	integrationRepo repository.IntegrationRepository
	productRepo     repository.ProductRepository
	levelRepo       repository.StockLevelRepository
	movements       *stock.MovementUseCase
	shopify         ShopifyClient
	woo             WooCommerceClient
	vault           *vault.Vault
	cfg             Config
	log             *logger.Logger
}

// NewUseCase construye el conector.
func NewUseCase(
	integrationRepo repository.IntegrationRepository,
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	movements *stock.MovementUseCase,
	shopifyClient ShopifyClient,
	wooClient WooCommerceClient,
	credentialVault *vault.Vault,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		integrationRepo: integrationRepo,
		productRepo:     productRepo,
		levelRepo:       levelRepo,
		movements:       movements,
		shopify:         shopifyClient,
		woo:             wooClient,
		vault:           credentialVault,
		cfg:             cfg,
		log:             log,
	}
}

// ── Shopify ───────────────────────────────────────────────────────────────────

// ConnectShopify deja la integración en pending y devuelve la URL de
// autorización OAuth. El user id viaja como state opaco; la redirección la
// hace el frontend, nunca el servidor en este paso.
func (uc *UseCase) ConnectShopify(ctx context.Context, userID, storeURL string) (string, error) {
	if storeURL == "" {
		return "", domain.ErrInvalidInput
	}
	if err := uc.integrationRepo.UpsertPending(userID, entity.PlatformShopify, storeURL); err != nil {
		return "", err
	}

	redirectURI := uc.cfg.AppURL + "/api/integrations/shopify/callback"
	authURL := fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		storeURL, uc.cfg.ShopifyAPIKey, shopifyScopes, url.QueryEscape(redirectURI), userID,
	)
	return authURL, nil
}

// ShopifyCallback canjea el code por un access token, lo cifra y guarda, pasa
// la integración a connected y suscribe el webhook de órdenes (best-effort:
// si la suscripción falla, el callback no falla). Devuelve la URL del
// frontend a la que redirigir al usuario.
func (uc *UseCase) ShopifyCallback(ctx context.Context, code, shop, state string) string {
	userID := state
	if code == "" || shop == "" || userID == "" {
		uc.log.Warn().Str("shop", shop).Msg("callback de Shopify inválido: faltan parámetros")
		return uc.cfg.FrontendURL + "/dashboard/integrations?error=invalid_callback"
	}

	accessToken, err := uc.shopify.ExchangeCode(ctx, shop, code)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("canje de code OAuth con Shopify")
		if repoErr := uc.integrationRepo.UpsertError(userID, entity.PlatformShopify, shop, err.Error()); repoErr != nil {
			uc.log.Error().Err(repoErr).Msg("guardar estado error de integración")
		}
		return uc.cfg.FrontendURL + "/dashboard/integrations?error=shopify_connection_failed"
	}

	encryptedToken, err := uc.vault.Encrypt(accessToken)
	if err == nil {
		err = uc.integrationRepo.MarkConnected(userID, entity.PlatformShopify, encryptedToken)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("guardar access token de Shopify")
		if repoErr := uc.integrationRepo.UpsertError(userID, entity.PlatformShopify, shop, err.Error()); repoErr != nil {
			uc.log.Error().Err(repoErr).Msg("guardar estado error de integración")
		}
		return uc.cfg.FrontendURL + "/dashboard/integrations?error=shopify_connection_failed"
	}

	uc.log.Info().Str("user_id", userID).Str("shop", shop).Msg("integración con Shopify conectada")

	webhookURL := uc.cfg.AppURL + "/api/integrations/shopify/webhook"
	if err := uc.shopify.SubscribeOrderWebhook(ctx, shop, accessToken, webhookURL); err != nil {
		uc.log.Error().Err(err).Str("shop", shop).Msg("suscripción al webhook orders/create")
	} else {
		uc.log.Info().Str("shop", shop).Msg("suscripción al webhook orders/create exitosa")
	}

	return uc.cfg.FrontendURL + "/dashboard/integrations?success=shopify_connected"
}

// VerifyWebhookSignature compara en tiempo constante la firma recibida con
// HMAC-SHA256 sobre los bytes crudos del body, codificada en base64.
func (uc *UseCase) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(uc.cfg.ShopifyAPISecret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// shopifyOrder payload mínimo del webhook orders/create.
type shopifyOrder struct {
	ID          int64  `json:"id"`
	OrderNumber int64  `json:"order_number"`
	LineItems   []struct {
		SKU      string `json:"sku"`
		Quantity int64  `json:"quantity"`
	} `json:"line_items"`
}

// HandleOrderWebhook procesa un webhook de orden de Shopify: verifica la
// firma sobre los bytes exactos del body, resuelve el tenant por dominio de
// tienda y descuenta stock ítem por ítem a través del motor.
func (uc *UseCase) HandleOrderWebhook(ctx context.Context, rawBody []byte, signature, shopDomain string) error {
	if !uc.VerifyWebhookSignature(rawBody, signature) {
		uc.log.Warn().Str("shop", shopDomain).Msg("firma de webhook de Shopify inválida")
		return domain.ErrInvalidSignature
	}

	var order shopifyOrder
	if err := json.Unmarshal(rawBody, &order); err != nil {
		return fmt.Errorf("decodificar orden de Shopify: %w", err)
	}
	uc.log.Info().Str("shop", shopDomain).Int64("order_id", order.ID).Msg("webhook de orden recibido")

	integ, err := uc.integrationRepo.GetByStoreDomain(shopDomain, entity.PlatformShopify)
	if err != nil {
		return err
	}
	if integ == nil {
		return domain.ErrUnknownStore
	}

	items := make([]LineItem, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		items = append(items, LineItem{SKU: item.SKU, Quantity: item.Quantity})
	}
	reference := fmt.Sprintf("%d", order.OrderNumber)
	uc.processOrderItems(ctx, integ, reference, items, "Shopify")

	// Solo se avanza la marca de agua: los errores por ítem registrados
	// durante la orden deben seguir visibles para el operador.
	return uc.integrationRepo.TouchLastSync(integ.ID)
}

// ── WooCommerce ───────────────────────────────────────────────────────────────

// ConnectWooCommerce valida el par de claves con una llamada de prueba a la
// tienda. Éxito: cifra el secreto y upsert en connected. Fallo: upsert en
// error con un mensaje genérico (el error exacto del upstream no se filtra
// al caller) y ErrUpstreamFailure.
func (uc *UseCase) ConnectWooCommerce(ctx context.Context, userID, storeURL, keyPublic, keySecret string) error {
	if storeURL == "" || keyPublic == "" || keySecret == "" {
		return domain.ErrInvalidInput
	}

	if err := uc.woo.Probe(ctx, storeURL, keyPublic, keySecret); err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Str("store", storeURL).Msg("validación de credenciales WooCommerce")
		const message = "Credenciales de WooCommerce inválidas o la tienda no está accesible."
		if repoErr := uc.integrationRepo.UpsertError(userID, entity.PlatformWooCommerce, storeURL, message); repoErr != nil {
			uc.log.Error().Err(repoErr).Msg("guardar estado error de integración")
		}
		return domain.ErrUpstreamFailure
	}

	encryptedSecret, err := uc.vault.Encrypt(keySecret)
	if err != nil {
		return err
	}
	if err := uc.integrationRepo.UpsertConnectedWithKeys(userID, storeURL, keyPublic, encryptedSecret); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Str("store", storeURL).Msg("integración con WooCommerce conectada")
	return nil
}

// SyncWooCommerceOrders corre una pasada de reconciliación: para cada
// integración WooCommerce en connected trae las órdenes posteriores a
// last_sync_at y las procesa. Cualquier fallo de una integración se registra
// en su fila y no detiene a las demás. Devuelve cuántas integraciones
// sincronizaron bien y cuántas fallaron.
func (uc *UseCase) SyncWooCommerceOrders(ctx context.Context) (synced, failed int) {
	integrations, err := uc.integrationRepo.ListConnectedByPlatform(entity.PlatformWooCommerce)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar integraciones WooCommerce")
		return 0, 0
	}

	for _, integ := range integrations {
		if err := uc.syncOne(ctx, integ); err != nil {
			failed++
			uc.log.Error().Err(err).Str("store", integ.StoreURL).Msg("sincronización de tienda WooCommerce")
			message := fmt.Sprintf("Error sincronizando la tienda %s: %v", integ.StoreURL, err)
			if repoErr := uc.integrationRepo.MarkError(integ.ID, message); repoErr != nil {
				uc.log.Error().Err(repoErr).Msg("guardar estado error de integración")
			}
			continue
		}
		synced++
	}
	return synced, failed
}

// syncOne sincroniza una integración: descifra el secreto, trae órdenes desde
// la marca de agua y aplica los descuentos de stock.
func (uc *UseCase) syncOne(ctx context.Context, integ *entity.Integration) error {
	keySecret, err := uc.vault.Decrypt(integ.APIKeySecret)
	if err != nil {
		return fmt.Errorf("descifrar credenciales: %w", err)
	}

	orders, err := uc.woo.FetchOrders(ctx, integ.StoreURL, integ.APIKeyPublic, keySecret, integ.LastSyncAt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: timeout consultando órdenes", domain.ErrUpstreamFailure)
		}
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	if len(orders) == 0 {
		uc.log.Info().Str("store", integ.StoreURL).Msg("no hay nuevas órdenes para sincronizar")
	} else {
		uc.log.Info().Str("store", integ.StoreURL).Int("orders", len(orders)).Msg("órdenes nuevas encontradas")
		for _, order := range orders {
			uc.processOrderItems(ctx, integ, order.Reference, order.LineItems, "WooCommerce")
		}
	}

	return uc.integrationRepo.MarkSynced(integ.ID)
}

// ── Procesamiento común por línea de orden ────────────────────────────────────

// processOrderItems aplica un ecommerce_out por cada renglón resoluble.
// Ítems sin SKU se omiten con log; SKU sin producto o stock insuficiente
// dejan constancia en error_message de la integración y se continúa con el
// siguiente renglón: el procesamiento parcial de una orden es aceptable.
func (uc *UseCase) processOrderItems(ctx context.Context, integ *entity.Integration, orderRef string, items []LineItem, platformLabel string) {
	for _, item := range items {
		if item.SKU == "" {
			uc.log.Warn().Str("order", orderRef).Str("store", integ.StoreURL).Msg("ítem sin SKU en la orden, omitido")
			continue
		}
		if item.Quantity <= 0 {
			continue
		}

		product, err := uc.productRepo.GetBySKU(integ.UserID, item.SKU)
		if err != nil {
			uc.log.Error().Err(err).Str("sku", item.SKU).Msg("resolver SKU")
			continue
		}
		if product == nil {
			uc.log.Error().Str("sku", item.SKU).Str("user_id", integ.UserID).Msg("SKU no encontrado en la base local")
			uc.recordItemError(integ.ID, fmt.Sprintf("SKU no encontrado: %s", item.SKU))
			continue
		}

		// Ubicación a descontar: la fila de nivel con updated_at más antiguo
		// para el producto (desempate determinista; no hay concepto de
		// ubicación por defecto).
		level, err := uc.levelRepo.OldestForProduct(product.ID)
		if err != nil {
			uc.log.Error().Err(err).Str("sku", item.SKU).Msg("resolver ubicación de stock")
			continue
		}
		if level == nil {
			uc.log.Error().Str("sku", item.SKU).Str("product_id", product.ID).Msg("producto sin nivel de stock, ítem omitido")
			continue
		}

		result, err := uc.movements.ApplyMovement(ctx, stock.MovementInput{
			ProductID:  product.ID,
			LocationID: level.LocationID,
			UserID:     integ.UserID,
			Type:       entity.MovementTypeEcommerceOut,
			Quantity:   item.Quantity,
			Notes:      fmt.Sprintf("Venta de %s - Orden #%s", platformLabel, orderRef),
		})
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				uc.log.Warn().Str("sku", item.SKU).Str("order", orderRef).Msg("stock insuficiente para la venta externa")
				uc.recordItemError(integ.ID, fmt.Sprintf("Stock insuficiente para SKU %s (orden #%s)", item.SKU, orderRef))
				continue
			}
			uc.log.Error().Err(err).Str("sku", item.SKU).Msg("aplicar movimiento ecommerce_out")
			continue
		}
		uc.log.Info().Str("sku", item.SKU).Int64("new_quantity", result.NewQuantity).Msg("stock actualizado por venta externa")
	}
}

func (uc *UseCase) recordItemError(integrationID, message string) {
	if err := uc.integrationRepo.SetErrorMessage(integrationID, message); err != nil {
		uc.log.Error().Err(err).Msg("registrar error por ítem en la integración")
	}
}

// ── Estado ────────────────────────────────────────────────────────────────────

// Status devuelve las integraciones del tenant (el handler filtra los campos
// sensibles).
func (uc *UseCase) Status(ctx context.Context, userID string) ([]*entity.Integration, error) {
	return uc.integrationRepo.ListByUser(userID)
}
