package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	titleregistry "leasebook/contracts/titleregistry"
	"leasebook/internal/credit"
	jwttoken "leasebook/internal/jwt_token"
	"leasebook/internal/platform/config"
	"leasebook/internal/platform/httpserver"
	"leasebook/internal/platform/logger"
	platformmetrics "leasebook/internal/platform/metrics"
	platformredis "leasebook/internal/platform/redis"
	"leasebook/internal/rental"
	rentalcache "leasebook/internal/rental/cache"
	rentalhandler "leasebook/internal/rental/handler"
	rentalmetrics "leasebook/internal/rental/metrics"
	"leasebook/internal/title"
	httptransport "leasebook/internal/transport/http"
	"leasebook/pkg/platform/events"
	"leasebook/pkg/platform/events/publisher"
	eventsmemory "leasebook/pkg/platform/events/store/memory"
	eventspostgres "leasebook/pkg/platform/events/store/postgres"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.DevMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := platformmetrics.New()
	lifecycleMetrics := rentalmetrics.New()

	// Event pipeline: durable store when Postgres is configured, Kafka
	// fan-out when brokers are configured.
	var eventStore events.Store
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgStore := eventspostgres.New(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Error("ensure event schema", "error", err)
			os.Exit(1)
		}
		eventStore = pgStore
	} else {
		eventStore = eventsmemory.NewInMemoryStore()
	}

	pubOpts := []publisher.Option{
		publisher.WithAsyncBuffer(1024),
		publisher.WithLogger(log),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := publisher.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		pubOpts = append(pubOpts, publisher.WithSink(sink))
	}
	pub := publisher.NewPublisher(eventStore, pubOpts...)
	defer pub.Close()

	// Title custody: external registry in production, in-process in dev.
	var titles titleregistry.Registry
	var devTitles *title.InMemoryRegistry
	switch {
	case cfg.TitleRegistryURL != "":
		titles = titleregistry.NewClient(cfg.TitleRegistryURL)
	case cfg.DevMode:
		devTitles = title.NewInMemoryRegistry()
		titles = devTitles
	default:
		log.Error("TITLE_REGISTRY_URL is required outside dev mode")
		os.Exit(1)
	}

	// Optional Redis-backed property-summary cache.
	var summaryCache rental.SummaryCache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		summaryCache = rentalcache.New(redisClient.Client, cfg.Redis.CacheTTL, log)
	}

	service := rental.NewService(rental.Deps{
		Store:     rental.NewInMemoryStore(),
		Credits:   credit.NewLedger(),
		Titles:    titles,
		Escrow:    titleregistry.Holder(cfg.EscrowHolder),
		Publisher: pub,
		Cache:     summaryCache,
		Metrics:   lifecycleMetrics,
		Logger:    log,
	})

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "leasebook", "leasebook-api")
	handler := rentalhandler.New(service, log, httpMetrics, httptransport.TokenValidatorAdapter{JWT: jwtService})
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Rental:    handler,
		JWT:       jwtService,
		DevTitles: devTitles,
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting leasebook", "addr", cfg.Addr, "dev_mode", cfg.DevMode)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
