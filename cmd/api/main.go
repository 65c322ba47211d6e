package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/StockTrack-api/internal/application/auth"
	"github.com/jhoicas/StockTrack-api/internal/application/integration"
	"github.com/jhoicas/StockTrack-api/internal/application/report"
	"github.com/jhoicas/StockTrack-api/internal/application/stock"
	"github.com/jhoicas/StockTrack-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/StockTrack-api/internal/infrastructure/pdf"
	"github.com/jhoicas/StockTrack-api/internal/infrastructure/postgres"
	infrashopify "github.com/jhoicas/StockTrack-api/internal/infrastructure/shopify"
	infrawoo "github.com/jhoicas/StockTrack-api/internal/infrastructure/woocommerce"
	httpRouter "github.com/jhoicas/StockTrack-api/internal/interfaces/http"
	"github.com/jhoicas/StockTrack-api/pkg/config"
	"github.com/jhoicas/StockTrack-api/pkg/logger"
	"github.com/jhoicas/StockTrack-api/pkg/metrics"
	"github.com/jhoicas/StockTrack-api/pkg/vault"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(cfg.DB.ConnectionString(), "./migrations"); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	credentialVault, err := vault.New(cfg.Vault.MasterKey)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar vault de credenciales")
	}

	met := metrics.New()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	integrationRepo := postgres.NewIntegrationRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	movementUC := stock.NewMovementUseCase(txRunner, productRepo, locationRepo, met)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, locationRepo, levelRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	dashboardUC := usecase.NewDashboardUseCase(dashboardRepo)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := report.NewUseCase(movementRepo, productRepo, locationRepo, userRepo, pdfGenerator)

	httpTimeout := time.Duration(cfg.Sync.HTTPTimeoutSecs) * time.Second
	shopifyClient := infrashopify.NewClient(cfg.Shopify.APIKey, cfg.Shopify.APISecret, httpTimeout)
	wooClient := infrawoo.NewClient(httpTimeout)

	integrationUC := integration.NewUseCase(
		integrationRepo, productRepo, levelRepo, movementUC,
		shopifyClient, wooClient, credentialVault,
		integration.Config{
			ShopifyAPIKey:    cfg.Shopify.APIKey,
			ShopifyAPISecret: cfg.Shopify.APISecret,
			AppURL:           cfg.Shopify.AppURL,
			FrontendURL:      cfg.Shopify.FrontendURL,
		},
		log.Component("integrations"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if !httpRouter.RegisterSwagger(app, "./docs/swagger.json", "StockTrack API") {
		log.Warn().Msg("docs/swagger.json no encontrado, UI de Swagger deshabilitada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		LocationUC:    locationUC,
		DashboardUC:   dashboardUC,
		MovementUC:    movementUC,
		ReportUC:      reportUC,
		IntegrationUC: integrationUC,
		Metrics:       met,
		JWTSecret:     cfg.JWT.Secret,
	})

	// Job periódico de sincronización de órdenes WooCommerce
	syncInterval := time.Duration(cfg.Sync.IntervalMinutes) * time.Minute
	scheduler := integration.NewScheduler(integrationUC, syncInterval, log.Component("sync"), met)
	scheduler.Start(ctx)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop() // detiene el job de sincronización

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
