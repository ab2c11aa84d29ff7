package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/config"
	"quizmaster-service/internal/domain"
	filestore "quizmaster-service/internal/infra/file"
	"quizmaster-service/internal/infra/memory"
	pgstore "quizmaster-service/internal/infra/postgres"
	redisstore "quizmaster-service/internal/infra/redis"
	"quizmaster-service/internal/logging"
	"quizmaster-service/internal/metrics"
	transport "quizmaster-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	log := logging.New("quizmaster")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8888"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Catalog source: flat file when configured, otherwise Postgres,
	// otherwise the built-in sample set.
	var loader memory.CatalogLoader
	catalogID := cfg.Catalog.ID
	switch {
	case cfg.Catalog.File != "":
		loader = filestore.NewCatalogLoader(cfg.Catalog.File, log)
		if catalogID == "" {
			catalogID = cfg.Catalog.File
		}
	case pool != nil:
		loader = pgstore.NewCatalogLoader(pool)
	default:
		loader = memory.NewStaticCatalogLoader(sampleCatalogs())
		log.Warn("no catalog source configured, using built-in sample questions")
	}
	if catalogID == "" {
		catalogID = "default"
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	catalog, err := app.LoadCatalogIndex(ctx, catalogRepo, catalogID)
	if err != nil {
		return err
	}
	log.WithField("questions", catalog.Size()).Info("catalog loaded")

	var sessions app.SessionStore
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var results app.ResultStore
	switch {
	case pool != nil:
		results = pgstore.NewResultStore(pool)
	case cfg.Results.File != "":
		results = filestore.NewResultStore(cfg.Results.File, log)
	default:
		log.Warn("no result store configured, finalized results will not be persisted")
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	service := app.NewQuizService(sessions, catalog, results, log, m)
	handlerRegistry := transport.NewRegistry()
	wsHandler := transport.NewWSHandler(service, handlerRegistry, log)
	adminHandler := transport.NewAdminHandler(service, handlerRegistry, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	adminHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", finalPort).Info("starting quiz server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		// bind failure or fatal listener error
		return err
	case <-stop:
		log.Info("shutdown signal received")
	case <-ctx.Done():
		log.Info("context canceled, shutting down")
	}

	// Close live handlers first so each runs its CLOSING path, then stop the
	// listener. Both are idempotent.
	handlerRegistry.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCatalogs provides a minimal built-in question set so the server can
// run without any backing store.
func sampleCatalogs() map[string]domain.Catalog {
	return map[string]domain.Catalog{
		"default": {
			ID: "default",
			Questions: []domain.Question{
				{
					ID:           1,
					Text:         "What is the default port for HTTP?",
					Options:      []string{"80", "443", "8080", "3306"},
					CorrectIndex: 0,
					Category:     "Networking",
					Points:       10,
				},
				{
					ID:           2,
					Text:         "What does TCP stand for?",
					Options:      []string{"Transfer Control Protocol", "Transmission Control Protocol", "Transport Communication Protocol", "Technical Control Protocol"},
					CorrectIndex: 1,
					Category:     "Networking",
					Points:       10,
				},
				{
					ID:           3,
					Text:         "Which layer of the OSI model handles routing?",
					Options:      []string{"Physical", "Data Link", "Network", "Transport"},
					CorrectIndex: 2,
					Category:     "Networking",
					Points:       10,
				},
			},
		},
	}
}
