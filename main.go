package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/EmpoweredVote/candymap/internal/catalog"
	"github.com/EmpoweredVote/candymap/internal/config"
	"github.com/EmpoweredVote/candymap/internal/db"
	"github.com/EmpoweredVote/candymap/internal/logging"
	"github.com/EmpoweredVote/candymap/internal/server"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		fatalf("logger setup failed: %v", err)
	}
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error("server exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("server stopped")
	_ = logger.Sync()
}

// run serves until ctx is cancelled or the listener fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	// The catalog must load before anything is served.
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load building catalog %s: %w", cfg.CatalogPath, err)
	}
	logger.Info("building catalog loaded", zap.Int("buildings", c.Len()))

	stores := server.MemoryStores()
	if cfg.Store == config.StorePostgres {
		d, err := db.Connect(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer db.Close(d)

		stores, err = server.PostgresStores(d)
		if err != nil {
			return fmt.Errorf("schema migration: %w", err)
		}
	} else {
		logger.Warn("using in-memory stores; data is lost on restart")
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           server.NewRouter(cfg, c, stores, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.Int("port", cfg.Port), zap.String("store", string(cfg.Store)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
