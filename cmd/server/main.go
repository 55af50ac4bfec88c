// Command server runs the confidential transcript registry.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"veritas/internal/audit"
	"veritas/internal/fhe/sim"
	"veritas/internal/jwtauth"
	"veritas/internal/oracle"
	"veritas/internal/platform/config"
	"veritas/internal/platform/database"
	"veritas/internal/platform/health"
	"veritas/internal/platform/httpserver"
	"veritas/internal/transcript/attest"
	"veritas/internal/transcript/handler"
	"veritas/internal/transcript/metrics"
	"veritas/internal/transcript/service"
	"veritas/internal/transcript/store"
	"veritas/internal/transcript/tracer"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/middleware/auth"
	"veritas/pkg/platform/middleware/request"

	"veritas/internal/platform/logger"
)

func main() {
	log := logger.New()
	cfg := config.FromEnv()

	if cfg.OracleParty.IsNil() {
		// Dev convenience: without ORACLE_PARTY_ID, mint a throwaway oracle
		// identity so the embedded worker can run.
		cfg.OracleParty = id.PartyID(uuid.New())
		log.Warn("ORACLE_PARTY_ID not set, generated ephemeral oracle identity",
			"oracle_party", cfg.OracleParty.String(),
		)
	}

	var (
		records    store.RecordStore
		reveals    store.RevealStore
		auditStore audit.Store
	)
	healthHandler := health.New(cfg.Environment)

	if cfg.DBPath != "" {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database", "error", err, "path", cfg.DBPath)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		records = store.NewSQLiteRecords(db)
		reveals = store.NewSQLiteReveals(db)
		auditStore = audit.NewSQLiteStore(db)
		healthHandler.RegisterCheck("database", db.Ping)
		log.Info("using sqlite persistence", "path", cfg.DBPath)
	} else {
		records = store.NewMemoryRecords()
		reveals = store.NewMemoryReveals()
		auditStore = audit.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	substrate := sim.New(cfg.SubstrateKey)
	attestor := attest.New(substrate, cfg.SubstrateContext)

	// Rebuild the handle registry from persisted records so the
	// cross-record reuse guard survives restarts.
	existing, err := records.List(context.Background())
	if err != nil {
		log.Error("failed to load records for attestation registry", "error", err)
		os.Exit(1)
	}
	for _, record := range existing {
		attestor.Restore(record.ID, record.CIDHandle, record.ScoreHandle)
	}
	if len(existing) > 0 {
		log.Info("attestation registry restored", "records", len(existing))
	}

	tokens := jwtauth.NewService(cfg.JWTSigningKey, cfg.TokenIssuer, cfg.TokenTTL)
	auditor := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	registry := service.New(
		records,
		reveals,
		substrate,
		attestor,
		cfg.OracleParty,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithAuditPublisher(auditor),
	)

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(request.Timeout(30 * time.Second))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtauth.NewMiddlewareAdapter(tokens), log))
		r.Use(request.ContentTypeJSON)
		handler.New(registry, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.OracleEmbedded {
		worker := oracle.New(registry, substrate, cfg.OracleParty,
			oracle.WithLogger(log),
			oracle.WithInterval(cfg.OracleInterval),
		)
		g.Go(func() error {
			log.Info("embedded oracle starting", "interval", cfg.OracleInterval)
			if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
