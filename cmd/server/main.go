package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	jwttoken "pns/internal/jwt_token"
	"pns/internal/names/adapters/access"
	"pns/internal/names/adapters/airdrop"
	"pns/internal/names/adapters/nft"
	"pns/internal/names/adapters/payment"
	"pns/internal/names/handler"
	namesmetrics "pns/internal/names/metrics"
	"pns/internal/names/ports"
	"pns/internal/names/service"
	"pns/internal/names/store/memory"
	pgstore "pns/internal/names/store/postgres"
	"pns/internal/platform/config"
	"pns/internal/platform/httpserver"
	"pns/internal/platform/logger"
	httpmetrics "pns/internal/platform/metrics"
	"pns/internal/platform/redis"
	"pns/pkg/platform/audit"
	"pns/pkg/platform/audit/publisher"
	"pns/pkg/platform/audit/publishers/kafka"
	"pns/pkg/platform/audit/store/failover"
	auditmemory "pns/pkg/platform/audit/store/memory"
	"pns/pkg/platform/circuit"
	"pns/pkg/platform/httputil"
	"pns/pkg/platform/middleware/request"
	"pns/pkg/platform/middleware/requesttime"
)

// main wires the registry, exposes the HTTP router and keeps the server
// lifecycle small. Business logic lives in internal/names.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("pns stopped", "error", err)
		os.Exit(1)
	}
}

// healthCheck is implemented by every backend with a Health method.
type healthCheck interface {
	Health(ctx context.Context) error
}

type backends struct {
	store    ports.Store
	nft      ports.NFTLedger
	airdrops ports.AirdropStore
	audit    audit.Store
	checks   map[string]healthCheck
	closers  []func()
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.IsDevSigningKey() {
		log.Warn("using the development JWT signing key")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	b, err := connect(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	defer func() {
		for i := len(b.closers) - 1; i >= 0; i-- {
			b.closers[i]()
		}
	}()

	auditPublisher := publisher.NewPublisher(b.audit,
		publisher.WithAsyncBuffer(1024),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	svc, err := service.New(b.store,
		payment.NewInMemoryRail(cfg.Registry.SupportedTokens...),
		b.nft,
		access.NewStaticAdmins(cfg.Registry.Admins...),
		cfg.Registry.Policy,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(namesmetrics.New(reg)),
		service.WithAirdropStore(b.airdrops),
		service.WithRailOperator(cfg.Registry.RailOperator),
	)
	if err != nil {
		return fmt.Errorf("build registry service: %w", err)
	}
	svc.RefreshGauges(ctx)

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	h := handler.New(svc, log, jwttoken.NewJWTServiceAdapter(jwtService), cfg.Registry.TokenDecimals)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(chimw.RealIP)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))
	r.Use(httpmetrics.New(reg).Middleware)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(requesttime.Middleware)

	r.Get("/health", healthHandler(b.checks))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	h.Register(r)

	srv := httpserver.New(cfg.Server.Addr, r)
	log.Info("starting pns", "addr", cfg.Server.Addr, "durable", cfg.Postgres.URL != "")
	return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout)
}

// connect opens the configured backends concurrently. Unconfigured ones
// fall back to in-memory implementations.
func connect(ctx context.Context, cfg config.Config, reg prometheus.Registerer, log *slog.Logger) (*backends, error) {
	b := &backends{
		store:    memory.New(memory.WithSettings(cfg.Registry.Settings)),
		nft:      nft.NewInMemoryLedger(),
		airdrops: airdrop.NewInMemoryStore(),
		audit:    auditmemory.NewInMemoryStore(),
		checks:   map[string]healthCheck{},
	}
	var (
		db  *sql.DB
		pg  *pgstore.Store
		rc  *redis.Client
		kfk *kafka.Store
	)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Postgres.URL != "" {
		g.Go(func() error {
			var err error
			db, err = sql.Open("postgres", cfg.Postgres.URL)
			if err != nil {
				return fmt.Errorf("open postgres: %w", err)
			}
			pg = pgstore.New(db)
			if err := pg.Migrate(gctx, cfg.Registry.Settings); err != nil {
				return fmt.Errorf("migrate postgres: %w", err)
			}
			return nil
		})
	}
	if cfg.Redis.URL != "" {
		g.Go(func() error {
			var err error
			rc, err = redis.New(gctx, cfg.Redis)
			return err
		})
	}
	if len(cfg.Kafka.Brokers) > 0 {
		g.Go(func() error {
			var err error
			kfk, err = kafka.New(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
			if err != nil {
				return fmt.Errorf("kafka client: %w", err)
			}
			return kfk.EnsureTopic(gctx, 3, 1)
		})
	}
	err := g.Wait()

	if db != nil {
		b.closers = append(b.closers, func() { _ = db.Close() })
	}
	if rc != nil {
		b.closers = append(b.closers, func() { _ = rc.Close() })
	}
	if kfk != nil {
		b.closers = append(b.closers, kfk.Close)
	}
	if err != nil {
		for _, c := range b.closers {
			c()
		}
		return nil, err
	}

	if pg != nil {
		b.store = pg
		b.nft = nft.NewPostgresLedger(db)
		b.checks["postgres"] = pg
	}
	if rc != nil {
		b.airdrops = airdrop.NewRedisStore(rc.Client, reg)
		b.checks["redis"] = rc
	}
	if kfk != nil {
		b.audit = failover.New(kfk, b.audit, circuit.New("kafka-audit"), log)
		b.checks["kafka"] = kfk
	}
	log.Info("backends ready",
		"postgres", pg != nil,
		"redis", rc != nil,
		"kafka", kfk != nil,
	)
	return b, nil
}

func healthHandler(checks map[string]healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		code := http.StatusOK
		for name, c := range checks {
			if err := c.Health(ctx); err != nil {
				status[name] = "down"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "up"
		}
		httputil.WriteJSON(w, code, map[string]any{"status": http.StatusText(code), "backends": status})
	}
}
