package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"pscfiling/internal/clients"
	"pscfiling/internal/clients/companyprofile"
	"pscfiling/internal/clients/psc"
	"pscfiling/internal/clients/transaction"
	"pscfiling/internal/filing/events"
	"pscfiling/internal/filing/filingdata"
	"pscfiling/internal/filing/gate"
	"pscfiling/internal/filing/handler"
	filingmetrics "pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/patch"
	"pscfiling/internal/filing/service"
	"pscfiling/internal/filing/validation"
	"pscfiling/internal/platform/config"
	"pscfiling/internal/platform/health"
	"pscfiling/internal/platform/kafka"
	"pscfiling/internal/platform/kafka/producer"
	"pscfiling/internal/platform/logger"
	"pscfiling/internal/platform/tracer"
	audit "pscfiling/pkg/platform/audit"
	auditmetrics "pscfiling/pkg/platform/audit/metrics"
	"pscfiling/pkg/platform/audit/publisher"
	"pscfiling/pkg/platform/circuit"
	"pscfiling/pkg/platform/middleware/auth"
	request "pscfiling/pkg/platform/middleware/request"
	"pscfiling/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/filing.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("psc filing service stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("initializing psc filing service",
		"addr", cfg.Server.Addr,
		"environment", cfg.Environment,
		"store_backend", cfg.Store.Backend,
		"kafka_enabled", cfg.Kafka.Enabled(),
	)

	m := filingmetrics.New()
	healthHandler := health.New(cfg.Environment)
	g, ctx := errgroup.WithContext(ctx)

	backend, err := openStore(ctx, cfg, m, prometheus.DefaultRegisterer, healthHandler, g)
	if err != nil {
		return err
	}
	defer backend.close(log)

	tr := tracer.NewOTel()
	txClient := transaction.New(clientConfig(cfg, cfg.Clients.TransactionsURL, "transactions-api", tr, log))
	pscClient := validation.NewCountingLookup(psc.New(clientConfig(cfg, cfg.Clients.PscURL, "psc-api", tr, log)), m)
	profileClient := companyprofile.New(clientConfig(cfg, cfg.Clients.CompanyProfileURL, "company-profile-api", tr, log))

	emitter, closeEvents, err := openEvents(cfg, log, healthHandler)
	if err != nil {
		return err
	}
	defer closeEvents()

	rules := cfg.Filing.Rules
	dispatcher := validation.NewDispatcher(validation.NewChains(pscClient, rules.Messages),
		validation.WithTracer(tr),
		validation.WithMetrics(m),
	)
	engine := patch.New(backend.store, validation.NewPatchValidators(rules.Messages), cfg.Filing.PatchMaxRetries,
		patch.WithMetrics(m),
		patch.WithLogger(log),
	)
	filings := service.New(backend.store, txClient, pscClient, dispatcher, engine, filingdata.NewProjector(rules.Description),
		service.WithMetrics(m),
		service.WithLogger(log),
		service.WithAuditor(audit.NewLogger(log, emitter)),
		service.WithBasePath(cfg.Filing.PublicBasePath),
	)
	gates := gate.New(txClient, profileClient, rules, gate.WithLogger(log), gate.WithMetrics(m))

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(request.NewMetrics(prometheus.DefaultRegisterer)))
	r.Use(requesttime.Middleware)
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePassthroughToken(log))
		r.Use(request.ContentTypeJSON)
		handler.New(filings, gates, log, cfg.Filing.PublicBasePath).Register(r)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func clientConfig(cfg *config.Config, baseURL, service string, tr tracer.Tracer, log *slog.Logger) clients.Config {
	return clients.Config{
		BaseURL: baseURL,
		Timeout: cfg.Clients.Timeout,
		Breaker: circuit.New(service,
			circuit.WithFailureThreshold(cfg.Clients.BreakerThreshold),
			circuit.WithCooldown(cfg.Clients.BreakerCooldown),
		),
		Tracer: tr,
		Logger: log,
	}
}

// openEvents builds the filing event emitter. Without brokers events go to a
// logging producer.
func openEvents(cfg *config.Config, log *slog.Logger, h *health.Handler) (audit.Emitter, func(), error) {
	var p producer.Publisher
	if cfg.Kafka.Enabled() {
		kp, err := producer.New(cfg.Kafka, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open kafka producer: %w", err)
		}
		checker := kafka.NewTopicChecker(kp.Client(), cfg.Kafka.FilingTopic)
		h.RegisterCheck(checker.Name(), checker.Check)
		p = kp
	} else {
		p = producer.NewNoopProducer(log)
	}

	pub := publisher.NewPublisher(events.NewKafkaSink(p, cfg.Kafka.FilingTopic),
		publisher.WithAsyncBuffer(cfg.Kafka.AuditBuffer),
		publisher.WithPublisherLogger(log),
		publisher.WithMetrics(auditmetrics.New(prometheus.DefaultRegisterer)),
	)
	closeFn := func() {
		pub.Close()
		if err := p.Close(); err != nil {
			log.Error("failed to close kafka producer", "error", err)
		}
	}
	return pub, closeFn, nil
}
