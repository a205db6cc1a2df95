package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-core-api/internal/application/sales"
	"github.com/jhoicas/pos-core-api/internal/application/stockledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleProcessor *sales.Processor
	StockLedger   *stockledger.Ledger
	JWTSecret     string
}

// Router registra las rutas de la API. Todo el core transaccional va detrás
// del Bearer Token: el tenant sale del claim, nunca del body.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Healthcheck (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleProcessor)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/number/:number", saleHandler.GetByNumber)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Refunds (protegido)
	refunds := protected.Group("/refunds")
	refundHandler := NewRefundHandler(deps.SaleProcessor)
	refunds.Post("/", refundHandler.Create)
	refunds.Get("/:id", refundHandler.GetByID)

	// Stock ledger (protegido, solo lectura)
	stock := protected.Group("/stock")
	ledgerHandler := NewLedgerHandler(deps.StockLedger)
	stock.Get("/:productId/movements", ledgerHandler.Movements)
	stock.Get("/:productId/reconcile", ledgerHandler.Reconcile)
}
