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

	"github.com/jhoicas/movimientos-api/internal/application/auth"
	"github.com/jhoicas/movimientos-api/internal/application/ledger"
	"github.com/jhoicas/movimientos-api/internal/application/stats"
	"github.com/jhoicas/movimientos-api/internal/application/usecase"
	"github.com/jhoicas/movimientos-api/internal/infrastructure/notify"
	"github.com/jhoicas/movimientos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/movimientos-api/internal/interfaces/http"
	"github.com/jhoicas/movimientos-api/pkg/config"
	"github.com/jhoicas/movimientos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Bus de cambios del libro: los eventos se registran en el log; un
	// consumidor externo (websocket, webhook) se engancha con Subscribe.
	bus := notify.NewBus()
	defer bus.Close()
	events, cancelEvents := bus.Subscribe(64)
	defer cancelEvents()
	go func() {
		for ev := range events {
			log.Info().
				Str("movement_id", ev.MovementID).
				Str("company_id", ev.CompanyID).
				Str("kind", string(ev.Kind)).
				Str("status", string(ev.Status)).
				Bool("deleted", ev.Deleted).
				Msg("movimiento cambió")
		}
	}()

	ledgerUC := ledger.NewUseCase(txRunner, movementRepo, locationRepo, auth.NewRoleCapabilities(), bus, nil)
	statsUC := stats.NewUseCase(statsRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	inventoryUC := usecase.NewInventoryUseCase(recordRepo, locationRepo)
	authUC := auth.NewUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Movimientos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		LocationUC:  locationUC,
		ProductUC:   productUC,
		InventoryUC: inventoryUC,
		LedgerUC:    ledgerUC,
		StatsUC:     statsUC,
		JWTSecret:   cfg.JWT.Secret,
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
