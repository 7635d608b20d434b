package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/returns"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/stockmovement"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	Engine    *request.Engine
	Recorder  *stockmovement.Recorder
	Returns   *returns.UseCase
	Ledger    *ledger.Ledger
	JWTSecret string
}

// Router registers the API routes. Everything is behind the Bearer token;
// approval, rejection and allocation additionally need an authority role.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	authority := RequireRole("service_center", "plant", "rsm")

	requests := api.Group("/requests")
	requestHandler := NewRequestHandler(deps.Engine)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/:id/approve", authority, requestHandler.Approve)
	requests.Post("/:id/reject", authority, requestHandler.Reject)
	requests.Post("/:id/allocate", authority, requestHandler.Allocate)
	requests.Post("/:id/cancel", requestHandler.Cancel)

	returnsGroup := api.Group("/returns")
	returnHandler := NewReturnHandler(deps.Returns)
	returnsGroup.Post("/", returnHandler.Create)
	returnsGroup.Get("/", returnHandler.List)

	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.Recorder)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/:id/in-transit", movementHandler.MarkInTransit)
	movements.Post("/:id/receive", movementHandler.Receive)
	movements.Post("/:id/cancel", authority, movementHandler.Cancel)

	balances := api.Group("/balances")
	balanceHandler := NewBalanceHandler(deps.Ledger)
	balances.Get("/", balanceHandler.Get)
}
