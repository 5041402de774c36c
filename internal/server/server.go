package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/candymap/internal/auth"
	"github.com/EmpoweredVote/candymap/internal/catalog"
	"github.com/EmpoweredVote/candymap/internal/config"
	"github.com/EmpoweredVote/candymap/internal/houses"
	"github.com/EmpoweredVote/candymap/internal/httputil"
	"github.com/EmpoweredVote/candymap/internal/metrics"
	"github.com/EmpoweredVote/candymap/internal/middleware"
)

// Stores groups the durable maps the API reads and writes.
type Stores struct {
	Accounts    auth.AccountStore
	Tokens      auth.TokenStore
	Submissions houses.Store
}

// MemoryStores returns process-local stores.
func MemoryStores() Stores {
	a := auth.NewMemoryStore()
	return Stores{Accounts: a, Tokens: a, Submissions: houses.NewMemoryStore()}
}

// PostgresStores migrates the schema and returns gorm-backed stores.
func PostgresStores(d *gorm.DB) (Stores, error) {
	if err := auth.Init(d); err != nil {
		return Stores{}, err
	}
	if err := houses.Init(d); err != nil {
		return Stores{}, err
	}
	a := auth.NewGormStore(d)
	return Stores{Accounts: a, Tokens: a, Submissions: houses.NewGormStore(d)}, nil
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

// NewRouter assembles the HTTP API.
func NewRouter(cfg config.Config, c *catalog.Catalog, stores Stores, logger *zap.Logger) http.Handler {
	authSvc := auth.NewService(stores.Accounts, stores.Tokens, logger.Named("auth"))
	houseSvc := houses.NewService(c, stores.Submissions, logger.Named("houses"))
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerSec, cfg.AuthRateBurst, logger.Named("ratelimit"))

	r := chi.NewRouter()
	// The auth rate limiter keys on RemoteAddr; forwarded headers are only
	// honoured when a proxy in front rewrites them.
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.IdentityMiddleware(authSvc))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.Message(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.Message(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", RootHandler)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		auth.SetupRoutes(r, auth.NewHandler(authSvc, logger.Named("auth")), limiter.Handler)
		houses.SetupRoutes(r, houses.NewHandler(houseSvc, logger.Named("houses")), cfg.Development())
	})

	return r
}
