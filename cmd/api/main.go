package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/amrgaberm/codesense/internal/application"
	appreview "github.com/amrgaberm/codesense/internal/application/review"
	"github.com/amrgaberm/codesense/internal/config"
	domain "github.com/amrgaberm/codesense/internal/domain/review"
	aifactory "github.com/amrgaberm/codesense/internal/infra/ai"
	mysqlp "github.com/amrgaberm/codesense/internal/infra/db/mysql"
	postgresp "github.com/amrgaberm/codesense/internal/infra/db/postgres"
	"github.com/amrgaberm/codesense/internal/infra/github"
	"github.com/amrgaberm/codesense/internal/infra/httpserver"
	minioStore "github.com/amrgaberm/codesense/internal/infra/storage"
	"github.com/amrgaberm/codesense/internal/logging"
	"github.com/amrgaberm/codesense/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}

	logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	ctx := context.Background()

	// LLM client: constructed once, injected everywhere. Missing
	// credentials fail here, not mid-request.
	client, err := aifactory.New(cfg.AI)
	if err != nil {
		logrus.Fatalf("ai client init error: %v", err)
	}

	// optional review history
	var history domain.Repository
	var db *sql.DB
	switch cfg.Database.Driver {
	case "", "none":
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logrus.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		history = mysqlp.NewReviewRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logrus.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		history = postgresp.NewReviewRepository(db)
	default:
		logrus.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}

	// optional report archive
	var archive domain.ArchiveStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logrus.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	svc := &appreview.Service{
		Client:  client,
		History: history,
		Archive: archive,
		Clock:   application.SystemClock{},
	}

	// optional GitHub webhook
	var webhook *github.Webhook
	if cfg.GitHub.WebhookSecret != "" {
		webhook = github.NewWebhook(cfg.GitHub.WebhookSecret, svc, github.NewClient(cfg.GitHub.Token))
	}

	checkers := map[string]middleware.HealthChecker{}
	if db != nil {
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Server.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
	if len(cfg.Server.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Server.APIKeys))
	}
	if cfg.Server.RateLimit.Enabled {
		mux.Use(middleware.RateLimitMiddleware(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate))
	}
	mux.Mount("/", httpserver.NewRouter(svc, history, webhook, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // review calls wait on the model
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on %s (provider=%s)", addr, client.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logrus.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logrus.Errorf("shutdown error: %v", err)
	}
}
