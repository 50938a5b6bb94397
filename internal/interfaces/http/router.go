package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/movimientos-api/internal/application/auth"
	"github.com/jhoicas/movimientos-api/internal/application/ledger"
	"github.com/jhoicas/movimientos-api/internal/application/stats"
	"github.com/jhoicas/movimientos-api/internal/application/usecase"
	"github.com/jhoicas/movimientos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	CompanyUC   *usecase.CompanyUseCase
	LocationUC  *usecase.LocationUseCase
	ProductUC   *usecase.ProductUseCase
	InventoryUC *usecase.InventoryUseCase
	LedgerUC    *ledger.UseCase
	StatsUC     *stats.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público para el alta inicial)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Movements: el libro (protegido). stats va antes de :id.
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC)
	statsHandler := NewStatsHandler(deps.StatsUC)
	movements.Get("/stats", statsHandler.GetStats)
	movements.Post("/", movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/:id/confirm", movementHandler.Confirm)
	movements.Post("/:id/cancel", movementHandler.Cancel)
	movements.Delete("/:id", RequireRole(entity.RoleAdmin), movementHandler.Delete)

	// Inventory: stock por ubicación, solo lectura (protegido)
	inventory := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inventory.Get("/:location_id", inventoryHandler.ListByLocation)
}
