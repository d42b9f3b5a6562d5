package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Introductions  *handlers.IntroductionsHandler
	Customers      *handlers.CustomersHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/logout", cfg.Auth.Logout)
	app.Get("/auth/session", cfg.Auth.Session)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/eligible-targets", cfg.Tickets.EligibleTargets)
	tickets.Post("/rescore", cfg.Tickets.Rescore)
	tickets.Post("/bulk/complete", cfg.Tickets.BulkComplete)
	tickets.Post("/bulk/refer", cfg.Tickets.BulkRefer)
	tickets.Delete("/bulk", cfg.Tickets.BulkDelete)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/toggle-work", cfg.Tickets.ToggleWork)
	tickets.Post("/:id/refer", cfg.Tickets.ReferTicket)
	tickets.Get("/:id/referrals", cfg.Tickets.ListReferrals)
	tickets.Post("/:id/reopen", auth.RequireManager(), cfg.Tickets.ReopenTicket)
	tickets.Post("/:id/extend-edit", auth.RequireManager(), cfg.Tickets.ExtendEditWindow)

	introductions := protected.Group("/introductions")
	introductions.Get("/", cfg.Introductions.ListIntroductions)
	introductions.Post("/", cfg.Introductions.CreateIntroduction)
	introductions.Get("/:id", cfg.Introductions.GetIntroduction)
	introductions.Patch("/:id", cfg.Introductions.UpdateIntroduction)
	introductions.Delete("/:id", cfg.Introductions.DeleteIntroduction)
	introductions.Post("/:id/start", cfg.Introductions.StartIntroduction)
	introductions.Post("/:id/lose", cfg.Introductions.LoseIntroduction)
	introductions.Post("/:id/refer", cfg.Introductions.ReferIntroduction)
	introductions.Post("/:id/convert", cfg.Introductions.ConvertIntroduction)
	introductions.Get("/:id/referrals", cfg.Introductions.ListReferrals)

	customers := protected.Group("/customers")
	customers.Get("/", cfg.Customers.ListCustomers)
	customers.Post("/", cfg.Customers.CreateCustomer)
	customers.Get("/:id", cfg.Customers.GetCustomer)
	customers.Patch("/:id", cfg.Customers.UpdateCustomer)
	customers.Delete("/:id", cfg.Customers.DeleteCustomer)
	customers.Get("/:id/contracts", cfg.Customers.ListContracts)

	users := protected.Group("/users")
	users.Get("/", cfg.Users.ListUsers)
	users.Get("/:id", cfg.Users.GetUser)
	users.Post("/", auth.RequireManager(), cfg.Users.CreateUser)
	users.Patch("/:id", auth.RequireManager(), cfg.Users.UpdateUser)
	users.Delete("/:id", auth.RequireManager(), cfg.Users.DeleteUser)
}
