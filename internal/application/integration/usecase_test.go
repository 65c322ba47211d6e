package integration_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/StockTrack-api/internal/application/integration"
	"github.com/jhoicas/StockTrack-api/internal/application/stock"
	"github.com/jhoicas/StockTrack-api/internal/domain"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/internal/domain/repository"
	"github.com/jhoicas/StockTrack-api/pkg/logger"
	"github.com/jhoicas/StockTrack-api/pkg/vault"
)

const (
	testUserID        = "user-1"
	testProductID     = "prod-1"
	testLocationID    = "loc-1"
	testSKU           = "CAM-001"
	testShopDomain    = "mitienda.myshopify.com"
	testWooStoreURL   = "mitienda.com"
	testShopifySecret = "shopify-api-secret"
	testMasterKey     = "llave-maestra-de-pruebas"
)

// ─────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────

type fakeIntegrationRepo struct {
	rows        map[string]*entity.Integration // clave userID|platform
	itemErrors  []string                       // mensajes de SetErrorMessage
	markedError map[string]string              // id -> mensaje de MarkError
	syncedIDs   []string
	touchedIDs  []string // ids con marca de agua avanzada sin limpiar error
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{
		rows:        make(map[string]*entity.Integration),
		markedError: make(map[string]string),
	}
}

func integKey(userID, platform string) string { return userID + "|" + platform }

func (r *fakeIntegrationRepo) seed(integ *entity.Integration) {
	r.rows[integKey(integ.UserID, integ.Type)] = integ
}

func (r *fakeIntegrationRepo) byID(id string) *entity.Integration {
	for _, integ := range r.rows {
		if integ.ID == id {
			return integ
		}
	}
	return nil
}

func (r *fakeIntegrationRepo) UpsertPending(userID, platform, storeURL string) error {
	r.rows[integKey(userID, platform)] = &entity.Integration{
		ID: "integ-" + userID + "-" + platform, UserID: userID, Type: platform,
		StoreURL: storeURL, Status: entity.IntegrationStatusPending,
	}
	return nil
}

func (r *fakeIntegrationRepo) MarkConnected(userID, platform, encryptedToken string) error {
	integ, ok := r.rows[integKey(userID, platform)]
	if !ok {
		return errors.New("integración no existe")
	}
	integ.AccessToken = encryptedToken
	integ.Status = entity.IntegrationStatusConnected
	integ.ErrorMessage = ""
	return nil
}

func (r *fakeIntegrationRepo) UpsertConnectedWithKeys(userID, storeURL, keyPublic, encryptedSecret string) error {
	r.rows[integKey(userID, entity.PlatformWooCommerce)] = &entity.Integration{
		ID: "integ-" + userID + "-woo", UserID: userID, Type: entity.PlatformWooCommerce,
		StoreURL: storeURL, APIKeyPublic: keyPublic, APIKeySecret: encryptedSecret,
		Status: entity.IntegrationStatusConnected,
	}
	return nil
}

func (r *fakeIntegrationRepo) UpsertError(userID, platform, storeURL, message string) error {
	r.rows[integKey(userID, platform)] = &entity.Integration{
		ID: "integ-" + userID + "-" + platform, UserID: userID, Type: platform,
		StoreURL: storeURL, Status: entity.IntegrationStatusError, ErrorMessage: message,
	}
	return nil
}

func (r *fakeIntegrationRepo) MarkError(id, message string) error {
	r.markedError[id] = message
	if integ := r.byID(id); integ != nil {
		integ.Status = entity.IntegrationStatusError
		integ.ErrorMessage = message
	}
	return nil
}

func (r *fakeIntegrationRepo) SetErrorMessage(id, message string) error {
	r.itemErrors = append(r.itemErrors, message)
	if integ := r.byID(id); integ != nil {
		integ.ErrorMessage = message
	}
	return nil
}

func (r *fakeIntegrationRepo) MarkSynced(id string) error {
	r.syncedIDs = append(r.syncedIDs, id)
	if integ := r.byID(id); integ != nil {
		now := time.Now()
		integ.LastSyncAt = &now
		integ.ErrorMessage = ""
	}
	return nil
}

func (r *fakeIntegrationRepo) TouchLastSync(id string) error {
	r.touchedIDs = append(r.touchedIDs, id)
	if integ := r.byID(id); integ != nil {
		now := time.Now()
		integ.LastSyncAt = &now
	}
	return nil
}

func (r *fakeIntegrationRepo) GetByUserAndPlatform(userID, platform string) (*entity.Integration, error) {
	return r.rows[integKey(userID, platform)], nil
}

func (r *fakeIntegrationRepo) GetByStoreDomain(storeURL, platform string) (*entity.Integration, error) {
	for _, integ := range r.rows {
		if integ.StoreURL == storeURL && integ.Type == platform {
			return integ, nil
		}
	}
	return nil, nil
}

func (r *fakeIntegrationRepo) ListConnectedByPlatform(platform string) ([]*entity.Integration, error) {
	var out []*entity.Integration
	for _, integ := range r.rows {
		if integ.Type == platform && integ.Status == entity.IntegrationStatusConnected {
			out = append(out, integ)
		}
	}
	return out, nil
}

func (r *fakeIntegrationRepo) ListByUser(userID string) ([]*entity.Integration, error) {
	var out []*entity.Integration
	for _, integ := range r.rows {
		if integ.UserID == userID {
			out = append(out, integ)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetBySKU(userID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.UserID == userID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) ListByUser(string, repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Delete(id string) error         { delete(r.products, id); return nil }

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func (r *fakeLocationRepo) Create(l *entity.Location) error { r.locations[l.ID] = l; return nil }
func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.locations[id], nil
}
func (r *fakeLocationRepo) ListByUser(string) ([]*entity.Location, error) { return nil, nil }

type fakeLevelRepo struct {
	levels map[string]*entity.StockLevel // clave productID|locationID
}

func levelKey(productID, locationID string) string { return productID + "|" + locationID }

func (r *fakeLevelRepo) Get(productID, locationID string) (*entity.StockLevel, error) {
	return r.GetForUpdate(productID, locationID)
}

func (r *fakeLevelRepo) GetForUpdate(productID, locationID string) (*entity.StockLevel, error) {
	if level, ok := r.levels[levelKey(productID, locationID)]; ok {
		copia := *level
		return &copia, nil
	}
	return &entity.StockLevel{ProductID: productID, LocationID: locationID}, nil
}

func (r *fakeLevelRepo) Upsert(level *entity.StockLevel) error {
	copia := *level
	r.levels[levelKey(level.ProductID, level.LocationID)] = &copia
	return nil
}

func (r *fakeLevelRepo) Touch(string, string) error { return nil }

func (r *fakeLevelRepo) OldestForProduct(productID string) (*entity.StockLevel, error) {
	var oldest *entity.StockLevel
	for _, level := range r.levels {
		if level.ProductID != productID {
			continue
		}
		if oldest == nil || level.UpdatedAt.Before(oldest.UpdatedAt) {
			oldest = level
		}
	}
	if oldest == nil {
		return nil, nil
	}
	copia := *oldest
	return &copia, nil
}

func (r *fakeLevelRepo) ListForProduct(string) ([]repository.LevelAtLocation, error) {
	return nil, nil
}
func (r *fakeLevelRepo) DeleteByProduct(string) error { return nil }

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	copia := *m
	r.movements = append(r.movements, &copia)
	return nil
}
func (r *fakeMovementRepo) ListByUser(string, repository.MovementFilter) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) DeleteByProduct(string) error { return nil }

type fakeTxRunner struct {
	movRepo     *fakeMovementRepo
	levelRepo   *fakeLevelRepo
	productRepo *fakeProductRepo
}

func (tr *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	levelRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(tr.movRepo, tr.levelRepo, tr.productRepo)
}

type fakeShopifyClient struct {
	token       string
	exchangeErr error
	subscribed  []string // callback URLs registradas
}

func (c *fakeShopifyClient) ExchangeCode(_ context.Context, _, _ string) (string, error) {
	return c.token, c.exchangeErr
}

func (c *fakeShopifyClient) SubscribeOrderWebhook(_ context.Context, _, _, callbackURL string) error {
	c.subscribed = append(c.subscribed, callbackURL)
	return nil
}

type fakeWooClient struct {
	probeErr  error
	orders    map[string][]integration.Order // por storeURL
	fetchErrs map[string]error               // por storeURL
}

func (c *fakeWooClient) Probe(_ context.Context, _, _, _ string) error {
	return c.probeErr
}

func (c *fakeWooClient) FetchOrders(_ context.Context, storeURL, _, _ string, _ *time.Time) ([]integration.Order, error) {
	if err := c.fetchErrs[storeURL]; err != nil {
		return nil, err
	}
	return c.orders[storeURL], nil
}

// ─────────────────────────────────────────────
// Armado del caso de uso
// ─────────────────────────────────────────────

type testEnv struct {
	uc           *integration.UseCase
	integrations *fakeIntegrationRepo
	levels       *fakeLevelRepo
	movements    *fakeMovementRepo
	shopify      *fakeShopifyClient
	woo          *fakeWooClient
	vault        *vault.Vault
}

func buildEnv(t *testing.T) *testEnv {
	t.Helper()

	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		testProductID: {ID: testProductID, UserID: testUserID, Name: "Camiseta", SKU: testSKU},
	}}
	locationRepo := &fakeLocationRepo{locations: map[string]*entity.Location{
		testLocationID: {ID: testLocationID, UserID: testUserID, Name: "Bodega Principal"},
	}}
	levels := &fakeLevelRepo{levels: make(map[string]*entity.StockLevel)}
	movements := &fakeMovementRepo{}
	runner := &fakeTxRunner{movRepo: movements, levelRepo: levels, productRepo: productRepo}
	movementUC := stock.NewMovementUseCase(runner, productRepo, locationRepo, nil)

	integrations := newFakeIntegrationRepo()
	shopifyClient := &fakeShopifyClient{token: "shpat_nuevo_token"}
	wooClient := &fakeWooClient{
		orders:    make(map[string][]integration.Order),
		fetchErrs: make(map[string]error),
	}

	v, err := vault.New(testMasterKey)
	require.NoError(t, err)

	uc := integration.NewUseCase(
		integrations, productRepo, levels, movementUC,
		shopifyClient, wooClient, v,
		integration.Config{
			ShopifyAPIKey:    "shopify-api-key",
			ShopifyAPISecret: testShopifySecret,
			AppURL:           "https://api.stocktrack.test",
			FrontendURL:      "https://app.stocktrack.test",
		},
		logger.New(logger.Config{Env: "production", Level: "error"}),
	)

	return &testEnv{
		uc: uc, integrations: integrations, levels: levels,
		movements: movements, shopify: shopifyClient, woo: wooClient, vault: v,
	}
}

// setStock deja el nivel del producto de prueba en la cantidad dada.
func setStock(t *testing.T, env *testEnv, qty int64) {
	t.Helper()
	err := env.levels.Upsert(&entity.StockLevel{
		ID: "level-1", ProductID: testProductID, LocationID: testLocationID,
		Quantity: qty, UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func currentStock(t *testing.T, env *testEnv) int64 {
	t.Helper()
	level, err := env.levels.Get(testProductID, testLocationID)
	require.NoError(t, err)
	return level.Quantity
}

// sign calcula la firma HMAC-SHA256 en base64 igual que Shopify.
func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testShopifySecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func orderBody(sku string, qty int64) []byte {
	return []byte(fmt.Sprintf(
		`{"id":450789469,"order_number":1001,"line_items":[{"sku":%q,"quantity":%d}]}`,
		sku, qty,
	))
}

// ─────────────────────────────────────────────
// Shopify: conexión OAuth
// ─────────────────────────────────────────────

func TestConnectShopify_GeneraURLDeAutorizacion(t *testing.T) {
	env := buildEnv(t)

	authURL, err := env.uc.ConnectShopify(context.Background(), testUserID, testShopDomain)
	require.NoError(t, err)

	assert.Contains(t, authURL, "https://"+testShopDomain+"/admin/oauth/authorize")
	assert.Contains(t, authURL, "client_id=shopify-api-key")
	assert.Contains(t, authURL, "state="+testUserID)

	integ, err := env.integrations.GetByUserAndPlatform(testUserID, entity.PlatformShopify)
	require.NoError(t, err)
	require.NotNil(t, integ)
	assert.Equal(t, entity.IntegrationStatusPending, integ.Status)
}

func TestConnectShopify_SinTienda_InputInvalido(t *testing.T) {
	env := buildEnv(t)

	_, err := env.uc.ConnectShopify(context.Background(), testUserID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShopifyCallback_Exitoso_CifraTokenYSuscribeWebhook(t *testing.T) {
	env := buildEnv(t)
	_, err := env.uc.ConnectShopify(context.Background(), testUserID, testShopDomain)
	require.NoError(t, err)

	redirect := env.uc.ShopifyCallback(context.Background(), "oauth-code", testShopDomain, testUserID)
	assert.Contains(t, redirect, "success=shopify_connected")

	integ, err := env.integrations.GetByUserAndPlatform(testUserID, entity.PlatformShopify)
	require.NoError(t, err)
	assert.Equal(t, entity.IntegrationStatusConnected, integ.Status)

	// El token guardado debe estar cifrado, nunca en claro
	assert.NotEqual(t, "shpat_nuevo_token", integ.AccessToken)
	decrypted, err := env.vault.Decrypt(integ.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "shpat_nuevo_token", decrypted)

	require.Len(t, env.shopify.subscribed, 1)
	assert.Contains(t, env.shopify.subscribed[0], "/api/integrations/shopify/webhook")
}

func TestShopifyCallback_CanjeFalla_RedirigeConError(t *testing.T) {
	env := buildEnv(t)
	env.shopify.exchangeErr = errors.New("invalid code")

	redirect := env.uc.ShopifyCallback(context.Background(), "oauth-code", testShopDomain, testUserID)
	assert.Contains(t, redirect, "error=shopify_connection_failed")

	integ, err := env.integrations.GetByUserAndPlatform(testUserID, entity.PlatformShopify)
	require.NoError(t, err)
	require.NotNil(t, integ)
	assert.Equal(t, entity.IntegrationStatusError, integ.Status)
}

func TestShopifyCallback_ParametrosFaltantes_RedirigeInvalido(t *testing.T) {
	env := buildEnv(t)

	redirect := env.uc.ShopifyCallback(context.Background(), "", testShopDomain, testUserID)
	assert.Contains(t, redirect, "error=invalid_callback")
}

// ─────────────────────────────────────────────
// Shopify: webhook de órdenes
// ─────────────────────────────────────────────

func TestVerifyWebhookSignature(t *testing.T) {
	env := buildEnv(t)
	body := orderBody(testSKU, 2)

	assert.True(t, env.uc.VerifyWebhookSignature(body, sign(body)))
	assert.False(t, env.uc.VerifyWebhookSignature(body, "firma-falsa"))
	// La firma es sobre los bytes exactos: otro body no debe validar
	assert.False(t, env.uc.VerifyWebhookSignature(orderBody(testSKU, 3), sign(body)))
}

func seedShopifyConnected(env *testEnv) *entity.Integration {
	integ := &entity.Integration{
		ID: "integ-shopify", UserID: testUserID, Type: entity.PlatformShopify,
		StoreURL: testShopDomain, Status: entity.IntegrationStatusConnected,
	}
	env.integrations.seed(integ)
	return integ
}

func TestHandleOrderWebhook_DescuentaStock(t *testing.T) {
	env := buildEnv(t)
	seedShopifyConnected(env)
	setStock(t, env, 10)

	body := orderBody(testSKU, 4)
	err := env.uc.HandleOrderWebhook(context.Background(), body, sign(body), testShopDomain)
	require.NoError(t, err)

	assert.Equal(t, int64(6), currentStock(t, env))
	require.Len(t, env.movements.movements, 1)
	m := env.movements.movements[0]
	assert.Equal(t, entity.MovementTypeEcommerceOut, m.Type)
	assert.Equal(t, int64(4), m.Quantity)
	assert.Contains(t, m.Notes, "Shopify")
	assert.Contains(t, m.Notes, "#1001")
	assert.Equal(t, []string{"integ-shopify"}, env.integrations.touchedIDs)
}

func TestHandleOrderWebhook_FirmaInvalida_NoMutaStock(t *testing.T) {
	env := buildEnv(t)
	seedShopifyConnected(env)
	setStock(t, env, 10)

	err := env.uc.HandleOrderWebhook(context.Background(), orderBody(testSKU, 4), "firma-falsa", testShopDomain)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	assert.Equal(t, int64(10), currentStock(t, env))
	assert.Empty(t, env.movements.movements)
	assert.Empty(t, env.integrations.touchedIDs)
}

func TestHandleOrderWebhook_TiendaDesconocida(t *testing.T) {
	env := buildEnv(t)
	setStock(t, env, 10)

	body := orderBody(testSKU, 4)
	err := env.uc.HandleOrderWebhook(context.Background(), body, sign(body), "otra-tienda.myshopify.com")
	assert.ErrorIs(t, err, domain.ErrUnknownStore)
	assert.Equal(t, int64(10), currentStock(t, env))
}

func TestHandleOrderWebhook_SKUDesconocido_RegistraErrorYContinua(t *testing.T) {
	env := buildEnv(t)
	seedShopifyConnected(env)
	setStock(t, env, 10)

	body := []byte(fmt.Sprintf(
		`{"id":1,"order_number":1002,"line_items":[{"sku":"NO-EXISTE","quantity":1},{"sku":%q,"quantity":2}]}`,
		testSKU,
	))
	err := env.uc.HandleOrderWebhook(context.Background(), body, sign(body), testShopDomain)
	require.NoError(t, err)

	// El ítem irresolvible queda registrado y el resto de la orden se procesa
	require.Len(t, env.integrations.itemErrors, 1)
	assert.Contains(t, env.integrations.itemErrors[0], "SKU no encontrado: NO-EXISTE")
	assert.Equal(t, int64(8), currentStock(t, env))
	assert.Equal(t, []string{"integ-shopify"}, env.integrations.touchedIDs)
}

// La ruta de webhooks avanza la marca de agua sin limpiar error_message: el
// error por ítem registrado durante la orden debe quedar en la fila.
func TestHandleOrderWebhook_ErrorDeItemQuedaPersistido(t *testing.T) {
	env := buildEnv(t)
	seedShopifyConnected(env)
	setStock(t, env, 10)

	body := []byte(fmt.Sprintf(
		`{"id":2,"order_number":1003,"line_items":[{"sku":"NO-EXISTE","quantity":1},{"sku":%q,"quantity":2}]}`,
		testSKU,
	))
	err := env.uc.HandleOrderWebhook(context.Background(), body, sign(body), testShopDomain)
	require.NoError(t, err)

	integ, err := env.integrations.GetByUserAndPlatform(testUserID, entity.PlatformShopify)
	require.NoError(t, err)
	require.NotNil(t, integ)
	assert.Contains(t, integ.ErrorMessage, "SKU no encontrado: NO-EXISTE")
	require.NotNil(t, integ.LastSyncAt, "la marca de agua sí debe avanzar")
	assert.Empty(t, env.integrations.syncedIDs, "el webhook no debe usar la variante que limpia el error")
}

func TestHandleOrderWebhook_StockInsuficiente_RegistraErrorYContinua(t *testing.T) {
	env := buildEnv(t)
	seedShopifyConnected(env)
	setStock(t, env, 3)

	body := orderBody(testSKU, 5)
	err := env.uc.HandleOrderWebhook(context.Background(), body, sign(body), testShopDomain)
	require.NoError(t, err)

	// La venta no se aplica parcialmente: el nivel queda intacto
	assert.Equal(t, int64(3), currentStock(t, env))
	require.Len(t, env.integrations.itemErrors, 1)
	assert.Contains(t, env.integrations.itemErrors[0], "Stock insuficiente")
	assert.Contains(t, env.integrations.itemErrors[0], testSKU)
}

// ─────────────────────────────────────────────
// WooCommerce
// ─────────────────────────────────────────────

func TestConnectWooCommerce_Exitoso_CifraElSecreto(t *testing.T) {
	env := buildEnv(t)

	err := env.uc.ConnectWooCommerce(context.Background(), testUserID, testWooStoreURL, "ck_publica", "cs_secreta")
	require.NoError(t, err)

	integ, err := env.integrations.GetByUserAndPlatform(testUserID, entity.PlatformWooCommerce)
	require.NoError(t, err)
	require.NotNil(t, integ)
	assert.Equal(t, entity.IntegrationStatusConnected, integ.Status)
	assert.Equal(t, "ck_publica", integ.APIKeyPublic)

	assert.NotEqual(t, "cs_secreta", integ.APIKeySecret)
	decrypted, err := env.vault.Decrypt(integ.APIKeySecret)
	require.NoError(t, err)
	assert.Equal(t, "cs_secreta", decrypted)
}

func TestConnectWooCommerce_ProbeFalla_UpstreamFailure(t *testing.T) {
	env := buildEnv(t)
	env.woo.probeErr = errors.New("401 unauthorized")

	err := env.uc.ConnectWooCommerce(context.Background(), testUserID, testWooStoreURL, "ck_publica", "cs_mala")
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)

	integ, repoErr := env.integrations.GetByUserAndPlatform(testUserID, entity.PlatformWooCommerce)
	require.NoError(t, repoErr)
	require.NotNil(t, integ)
	assert.Equal(t, entity.IntegrationStatusError, integ.Status)
	// El mensaje guardado es genérico: no filtra el error crudo del upstream
	assert.NotContains(t, integ.ErrorMessage, "401")
}

func TestConnectWooCommerce_CamposVacios_InputInvalido(t *testing.T) {
	env := buildEnv(t)

	err := env.uc.ConnectWooCommerce(context.Background(), testUserID, "", "ck", "cs")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncWooCommerceOrders_FalloDeUnaNoDetieneALasDemas(t *testing.T) {
	env := buildEnv(t)
	setStock(t, env, 10)

	encrypted, err := env.vault.Encrypt("cs_secreta")
	require.NoError(t, err)

	// Tienda sana del tenant de prueba
	env.integrations.seed(&entity.Integration{
		ID: "integ-woo-ok", UserID: testUserID, Type: entity.PlatformWooCommerce,
		StoreURL: testWooStoreURL, APIKeyPublic: "ck", APIKeySecret: encrypted,
		Status: entity.IntegrationStatusConnected,
	})
	// Tienda de otro tenant cuyo upstream falla
	env.integrations.seed(&entity.Integration{
		ID: "integ-woo-caida", UserID: "user-2", Type: entity.PlatformWooCommerce,
		StoreURL: "caida.com", APIKeyPublic: "ck2", APIKeySecret: encrypted,
		Status: entity.IntegrationStatusConnected,
	})

	env.woo.orders[testWooStoreURL] = []integration.Order{
		{Reference: "5001", LineItems: []integration.LineItem{{SKU: testSKU, Quantity: 3}}},
	}
	env.woo.fetchErrs["caida.com"] = errors.New("connection refused")

	synced, failed := env.uc.SyncWooCommerceOrders(context.Background())
	assert.Equal(t, 1, synced)
	assert.Equal(t, 1, failed)

	// La tienda sana sincronizó y descontó stock
	assert.Equal(t, int64(7), currentStock(t, env))
	assert.Equal(t, []string{"integ-woo-ok"}, env.integrations.syncedIDs)
	require.Len(t, env.movements.movements, 1)
	assert.Contains(t, env.movements.movements[0].Notes, "WooCommerce")

	// La caída quedó en error con su mensaje
	msg, ok := env.integrations.markedError["integ-woo-caida"]
	require.True(t, ok)
	assert.Contains(t, msg, "caida.com")
}

func TestSyncWooCommerceOrders_SecretoIlegible_MarcaError(t *testing.T) {
	env := buildEnv(t)

	env.integrations.seed(&entity.Integration{
		ID: "integ-woo-corrupta", UserID: testUserID, Type: entity.PlatformWooCommerce,
		StoreURL: testWooStoreURL, APIKeyPublic: "ck", APIKeySecret: "blob-corrupto",
		Status: entity.IntegrationStatusConnected,
	})

	synced, failed := env.uc.SyncWooCommerceOrders(context.Background())
	assert.Equal(t, 0, synced)
	assert.Equal(t, 1, failed)
	assert.Contains(t, env.integrations.markedError, "integ-woo-corrupta")
}
