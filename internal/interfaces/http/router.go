package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/StockTrack-api/internal/application/auth"
	"github.com/jhoicas/StockTrack-api/internal/application/integration"
	"github.com/jhoicas/StockTrack-api/internal/application/report"
	"github.com/jhoicas/StockTrack-api/internal/application/stock"
	"github.com/jhoicas/StockTrack-api/internal/application/usecase"
	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	"github.com/jhoicas/StockTrack-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	ProductUC     *usecase.ProductUseCase
	LocationUC    *usecase.LocationUseCase
	DashboardUC   *usecase.DashboardUseCase
	MovementUC    *stock.MovementUseCase
	ReportUC      *report.UseCase
	IntegrationUC *integration.UseCase
	Metrics       *metrics.Metrics
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Integraciones: callback OAuth y webhook (públicos; se autentican con
	// state y firma HMAC respectivamente, no con Bearer)
	integrationHandler := NewIntegrationHandler(deps.IntegrationUC, deps.Metrics)
	api.Get("/integrations/shopify/callback", integrationHandler.ShopifyCallback)
	api.Post("/integrations/shopify/webhook", integrationHandler.ShopifyWebhook)

	// Métricas Prometheus (público)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}),
		))
	}

	// Rutas protegidas (Bearer Token + rol admin_store)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdminStore))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)

	// Stock: movimientos, ajustes, historial y reporte (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.MovementUC, deps.ReportUC)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/movements", stockHandler.ListMovements)
	stockGroup.Put("/levels", stockHandler.AdjustLevel)
	stockGroup.Get("/report", stockHandler.MovementsReport)

	// Dashboard y alertas (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.Summary)
	protected.Get("/alerts/low-stock", dashboardHandler.LowStock)
	protected.Get("/alerts/out-of-stock", dashboardHandler.OutOfStock)

	// Integraciones: conexión y estado (protegido)
	integrations := protected.Group("/integrations")
	integrations.Post("/shopify/connect", integrationHandler.ConnectShopify)
	integrations.Post("/woocommerce/connect", integrationHandler.ConnectWooCommerce)
	integrations.Get("/status", integrationHandler.Status)
}
