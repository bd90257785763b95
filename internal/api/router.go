package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/screenforge/screenforge/internal/api/handlers"
	"github.com/screenforge/screenforge/internal/api/middleware"
	"github.com/screenforge/screenforge/internal/audit"
	"github.com/screenforge/screenforge/internal/auth"
	"github.com/screenforge/screenforge/internal/config"
	"github.com/screenforge/screenforge/internal/llm"
	"github.com/screenforge/screenforge/internal/pipeline"
	"github.com/screenforge/screenforge/internal/tenant"
)

type Router struct {
	mux    *chi.Mux
	db     *pgxpool.Pool
	redis  *redis.Client
	cfg    *config.Config
	ts     *tenant.Service
	apikey *auth.APIKeyMiddleware
	gw     *llm.Gateway
	orch   *pipeline.Orchestrator
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, gw *llm.Gateway, orch *pipeline.Orchestrator) *Router {
	ts := tenant.NewService(db)
	return &Router{
		mux:    chi.NewRouter(),
		db:     db,
		redis:  rdb,
		cfg:    cfg,
		ts:     ts,
		apikey: auth.NewAPIKeyMiddleware(db, cfg.Auth.APIKeyHeader, ts),
		gw:     gw,
		orch:   orch,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis, rt.gw)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	auditSvc := audit.NewService(rt.db)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.apikey.Authenticate)

		genH := handlers.NewGenerateHandler(rt.orch)
		r.Post("/generate", genH.Generate)

		productsH := handlers.NewProductsHandler()
		r.Get("/products", productsH.List)

		adminH := handlers.NewAdminHandler(auditSvc)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/usage", adminH.Usage)
			r.Get("/records", adminH.Records)
		})
	})

	return r
}
