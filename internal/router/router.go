package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "farm-dashboard/docs"
	mem "farm-dashboard/internal/adapters/storage/memory"
	pg "farm-dashboard/internal/adapters/storage/postgres"
	"farm-dashboard/internal/config"
	"farm-dashboard/internal/domain/access"
	"farm-dashboard/internal/domain/categories"
	"farm-dashboard/internal/domain/cattle"
	"farm-dashboard/internal/domain/dashboard"
	"farm-dashboard/internal/domain/poultry"
	"farm-dashboard/internal/domain/sanitary"
	"farm-dashboard/internal/domain/vaccines"
	"farm-dashboard/internal/middleware"
	"farm-dashboard/internal/platform/logger"
	"farm-dashboard/internal/platform/metrics"
	"farm-dashboard/internal/platform/ratelimit"
	"farm-dashboard/internal/platform/validation"
	"farm-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config  *config.Config // nil => config.New()
	Logger  logger.Logger  // nil => Nop
	Metrics *metrics.Manager

	// Tokens verifica los Bearer; Issuer los emite en /auth/login.
	Tokens auth.AuthVerifier
	Issuer auth.TokenIssuer
	PINs   auth.PINChecker

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

type repos struct {
	cattle     cattle.Repository
	vaccines   vaccines.Repository
	roster     sanitary.RosterSource
	poultry    poultry.Repository
	categories categories.Repository
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log, opts.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.DebugUserHeader},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(opts.Tokens, cfg.DevMode))

	r.Get("/health", healthHandler(opts.DB))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var rp repos
	if opts.DB != nil {
		rp = repos{
			cattle:     pg.NewCattleRepo(opts.DB),
			vaccines:   pg.NewVaccinesRepo(opts.DB),
			roster:     pg.NewRosterSource(opts.DB),
			poultry:    pg.NewPoultryRepo(opts.DB),
			categories: pg.NewCategoriesRepo(opts.DB),
		}
	} else {
		store := mem.NewStore()
		rp = repos{
			cattle:     mem.NewCattleRepo(store),
			vaccines:   mem.NewVaccinesRepo(store),
			roster:     mem.NewRosterSource(store),
			poultry:    mem.NewPoultryRepo(store),
			categories: mem.NewCategoriesRepo(store),
		}
	}

	loc := cfg.Location()
	v := validation.New()

	// Services por módulo
	categoriesSvc := categories.NewService(rp.categories)
	seedCategories(categoriesSvc, log)

	cattleSvc := cattle.NewService(rp.cattle, loc)
	vaccinesSvc := vaccines.NewService(rp.vaccines, cattleSvc)
	sanitarySvc := sanitary.NewService(rp.roster, sanitary.Options{
		Location:      loc,
		UpcomingLimit: cfg.UpcomingLimit,
		Observer:      opts.Metrics,
	})
	poultrySvc := poultry.NewService(rp.poultry, categoriesSvc)
	dashboardSvc := dashboard.NewService(poultrySvc, cattleSvc, sanitarySvc, log)
	accessSvc := access.NewService(
		opts.PINs,
		opts.Issuer,
		ratelimit.New(cfg.LoginRPS, cfg.LoginBurst),
		opts.Metrics,
	)

	// Rutas por módulo
	access.RegisterRoutes(r, accessSvc, v, log)
	categories.RegisterRoutes(r, categoriesSvc)
	cattle.RegisterRoutes(r, cattleSvc, v)
	vaccines.RegisterRoutes(r, vaccinesSvc, v)
	sanitary.RegisterRoutes(r, sanitarySvc, log)
	poultry.RegisterRoutes(r, poultrySvc, v)
	dashboard.RegisterRoutes(r, dashboardSvc)

	return r
}

// seedCategories no es fatal: sin defaults cualquier categoría es válida.
func seedCategories(svc *categories.Service, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := svc.Seed(ctx, categories.Defaults)
	if err != nil {
		log.Warn("category seed failed", map[string]any{"error": err.Error()})
		return
	}
	if n > 0 {
		log.Info("categories seeded", map[string]any{"created": n})
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
