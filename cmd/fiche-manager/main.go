// cmd/fiche-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fiche-manager/internal/admin"
	"fiche-manager/internal/common/auth"
	"fiche-manager/internal/common/aws"
	"fiche-manager/internal/common/config"
	"fiche-manager/internal/common/database"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/common/observability"
	"fiche-manager/internal/document"
	"fiche-manager/internal/models"
	"fiche-manager/internal/notify"
	"fiche-manager/internal/orchestrator"
	"fiche-manager/internal/search"
	"fiche-manager/internal/storage"
	"fiche-manager/internal/store"
	"fiche-manager/internal/translate"
	"fiche-manager/internal/wizard"
	"fiche-manager/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// sessionFactory builds a per-user wizard session. Each authenticated user
// gets their own wizard store (draft + step in Redis) and controller over the
// shared backend components.
type sessionFactory struct {
	redis      *database.RedisClient
	keycloak   *auth.KeycloakClient
	clients    orchestrator.ClientResolver
	offers     orchestrator.OfferWriter
	renderers  map[models.FicheKind]document.Renderer
	uploader   orchestrator.Uploader
	notifier   orchestrator.Notifier
	translator translate.Translator
	registry   *registry.FicheRegistry
	docLang    string
	obs        *observability.Observability
	log        logger.Logger
}

// Open introspects the session token and builds the user's controller.
func (f *sessionFactory) Open(ctx context.Context, token string) (*orchestrator.Controller, *auth.Session, error) {
	session, err := f.keycloak.IntrospectToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	controller, err := f.openForUser(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	return controller, session, nil
}

func (f *sessionFactory) openForUser(ctx context.Context, userID string) (*orchestrator.Controller, error) {
	persist, err := wizard.NewRedisPersistence(f.redis, userID, f.log)
	if err != nil {
		return nil, err
	}
	wiz := wizard.NewStore(ctx, persist, f.log)
	controller := orchestrator.NewController(
		wiz, f.clients, f.offers, f.renderers, f.uploader, f.notifier, f.registry, f.obs, f.log,
	).WithTranslator(f.translator, f.docLang)
	return controller, nil
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting fiche manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS Clients ---
	s3Client, err := aws.NewS3Client(ctx, cfg.Storage.S3.Region)
	if err != nil {
		zapLog.Fatal("s3 client failed", zap.Error(err))
	}

	var sesClient *aws.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
	}

	var snsClient *aws.SNSClient
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
	}

	// --- Init External Service Clients ---
	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)

	zapLog.Info("All external service clients initialized")

	// --- Load the fiche registry ---
	ficheRegistry, err := registry.Load(cfg.Documents.RegistryPath)
	if err != nil {
		zapLog.Fatal("fiche registry load failed", zap.Error(err))
	}
	zapLog.Info("Fiche registry loaded",
		zap.String("version", ficheRegistry.Version),
		zap.Int("fiches", len(ficheRegistry.Fiches)),
	)

	// --- Assemble the application components ---
	repos := store.New(pg.DB, log)
	searchService := search.NewService(esClient.Client, log)
	catalog := admin.NewCatalog(repos.Clients, repos.Formations, searchService, log)
	uploader := storage.NewUploader(s3Client, cfg.Storage, log)
	notifier := notify.New(sesClient, snsClient, cfg.Integrations, log)
	translator := translate.NewClient(cfg.Integrations, redis.Client, log)
	renderers := document.NewRenderers(cfg.Documents, log)

	sessions := &sessionFactory{
		redis:      redis,
		keycloak:   keycloak,
		clients:    repos.Clients,
		offers:     repos.Offers,
		renderers:  renderers,
		uploader:   uploader,
		notifier:   notifier,
		translator: translator,
		registry:   ficheRegistry,
		docLang:    cfg.Documents.DefaultLang,
		obs:        obs,
		log:        log,
	}

	// The admin screens and the wizard UI sit in front of these; the service
	// itself only exposes health and metrics.
	_ = catalog

	zapLog.Info("Fiche manager ready",
		zap.String("environment", cfg.App.Environment),
		zap.String("bucket", cfg.Storage.S3.Bucket),
	)

	// --- Health/Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "healthy",
				"service": cfg.App.Name,
				"version": cfg.App.Version,
				"time":    time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			// A session open exercises the full wizard persistence path.
			if _, err := sessions.openForUser(r.Context(), "readiness-probe"); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.App.MetricsPort)
		zapLog.Info("Health/Metrics server listening on " + addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	zapLog.Info("Fiche manager stopped gracefully")
}
