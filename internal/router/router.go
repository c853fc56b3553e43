package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/schoolsupply/orderdesk/internal/cache"
	"github.com/schoolsupply/orderdesk/internal/config"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/enum"
	"github.com/schoolsupply/orderdesk/internal/handler"
	mw "github.com/schoolsupply/orderdesk/internal/middleware"
	"github.com/schoolsupply/orderdesk/internal/orderid"
	"github.com/schoolsupply/orderdesk/internal/receipt"
	"github.com/schoolsupply/orderdesk/internal/service"
	"github.com/schoolsupply/orderdesk/internal/ws"
	"go.uber.org/zap"
)

// Deps are the long-lived collaborators the routes are built on.
type Deps struct {
	Queries  *database.Queries
	Pool     *pgxpool.Pool
	Hub      *ws.Hub
	Catalogs *cache.CatalogCache
	Receipts receipt.Store
	// Redis is optional; it backs the rate limiter when set.
	Redis *redis.Client
	Log   *zap.Logger
}

// New creates a Chi router with all application routes wired up.
// Customer routes are public; everything under /admin requires an ADMIN token.
func New(cfg *config.Config, deps Deps) (chi.Router, error) {
	ids, err := orderid.New(cfg.OrderIDStrategy)
	if err != nil {
		return nil, err
	}
	limit, err := mw.RateLimit(cfg.RateLimit, deps.Redis)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.ReceiptBackend == enum.ReceiptBackendLocal {
		fs := http.StripPrefix("/receipts/", http.FileServer(http.Dir(cfg.ReceiptDir)))
		r.Get("/receipts/*", fs.ServeHTTP)
	}

	// Services
	orderService := service.NewOrderService(
		deps.Pool,
		func(db database.DBTX) service.OrderStore { return database.New(db) },
		deps.Catalogs,
		deps.Receipts,
		ids,
		deps.Hub,
		deps.Log,
	)
	catalogService := service.NewCatalogService(
		deps.Pool,
		func(db database.DBTX) service.CatalogStore { return database.New(db) },
		deps.Catalogs,
		deps.Hub,
		deps.Log,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(deps.Queries, cfg.JWTSecret)
	catalogHandler := handler.NewCatalogHandler(deps.Catalogs, catalogService)
	orderHandler := handler.NewOrderHandler(orderService, deps.Queries, deps.Catalogs)
	reportsHandler := handler.NewReportsHandler(deps.Queries, deps.Catalogs)
	shareHandler := handler.NewShareHandler(deps.Queries, cfg.PublicAppURL, cfg.WhatsAppCountryCode)

	// Public routes
	authHandler.RegisterRoutes(r)
	catalogHandler.RegisterRoutes(r)
	orderHandler.RegisterRoutes(r, limit)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/admin/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(deps.Hub, cfg.JWTSecret, w, r)
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireAdmin)

		r.Route("/catalog", catalogHandler.RegisterAdminRoutes)
		r.Route("/orders", orderHandler.RegisterAdminRoutes)
		r.Route("/reports", reportsHandler.RegisterRoutes)
		r.Route("/share", shareHandler.RegisterRoutes)
	})

	deps.Log.Info("router initialized",
		zap.String("order_ids", cfg.OrderIDStrategy),
		zap.String("receipts", cfg.ReceiptBackend),
		zap.Bool("redis", deps.Redis != nil))
	return r, nil
}
