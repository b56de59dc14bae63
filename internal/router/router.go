package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/restman-ops/api/internal/config"
	"github.com/restman-ops/api/internal/database"
	"github.com/restman-ops/api/internal/enum"
	"github.com/restman-ops/api/internal/handler"
	mw "github.com/restman-ops/api/internal/middleware"
	"github.com/restman-ops/api/internal/notify"
	"github.com/restman-ops/api/internal/service"
	"github.com/restman-ops/api/internal/suggest"
	"github.com/restman-ops/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication, restaurant scoping, and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, suggester *suggest.Suggester) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // dashboard dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/restaurants/{rid}/alerts", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Core services
	varianceService := service.NewVarianceService(queries)
	alertService := service.NewAlertService(
		queries,
		notify.NewGatewaySMS(cfg.SMSGatewayURL, cfg.SMSGatewayToken),
		notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom),
	)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Restaurant-scoped routes
		r.Route("/restaurants/{rid}", func(r chi.Router) {
			r.Use(mw.RequireRestaurant)

			// Variance report (management only)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleOwner, enum.RoleManager))
				varianceHandler := handler.NewVarianceHandler(varianceService)
				varianceHandler.RegisterRoutes(r)
			})

			// Alert dispatch and variance scans (management only)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleOwner, enum.RoleManager))
				alertHandler := handler.NewAlertHandler(alertService, varianceService, hub)
				alertHandler.RegisterRoutes(r)
			})

			// Staff accounts (management only)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleOwner, enum.RoleManager))
				staffHandler := handler.NewStaffHandler(queries)
				r.Route("/staff", staffHandler.RegisterRoutes)
			})

			// Menu items
			menuHandler := handler.NewMenuHandler(queries)
			r.Route("/menu-items", menuHandler.RegisterRoutes)

			// Recipes and ingredient mappings
			recipeHandler := handler.NewRecipeHandler(
				queries,
				pool,
				func(tx pgx.Tx) handler.RecipeStore {
					return queries.WithTx(tx)
				},
				suggester,
			)
			r.Route("/recipes", recipeHandler.RegisterRoutes)

			// Grocery stock
			groceryHandler := handler.NewGroceryHandler(queries)
			r.Route("/groceries", groceryHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
