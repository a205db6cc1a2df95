package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-core-api/internal/application/loyalty"
	"github.com/jhoicas/pos-core-api/internal/application/sales"
	"github.com/jhoicas/pos-core-api/internal/application/stockledger"
	infrapdf "github.com/jhoicas/pos-core-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-core-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-core-api/internal/interfaces/http"
	"github.com/jhoicas/pos-core-api/pkg/config"
	"github.com/jhoicas/pos-core-api/pkg/logger"
	"github.com/jhoicas/pos-core-api/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.InitTracer(ctx, cfg.App.Name, cfg.Telemetry.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("inicialización de trazas OTLP")
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("apagado del exportador de trazas")
			}
		}()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool (lecturas fuera de transacción).
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	refundRepo := postgres.NewRefundRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	loyaltyConfigRepo := postgres.NewLoyaltyConfigRepository(pool)
	auditOutbox := postgres.NewAuditOutbox(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockLedger := stockledger.NewLedger(movementRepo, productRepo)
	loyaltyLedger := loyalty.NewLedger(loyaltyConfigRepo, log.Zerolog())
	receiptGen := infrapdf.NewReceiptGenerator()

	processor := sales.NewProcessor(
		txRunner, stockLedger, loyaltyLedger,
		employeeRepo, customerRepo, saleRepo, refundRepo,
		auditOutbox, receiptGen, log.Zerolog(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Core API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleProcessor: processor,
		StockLedger:   stockLedger,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
