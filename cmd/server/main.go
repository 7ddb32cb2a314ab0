// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"linkbio/internal/cache"
	"linkbio/internal/config"
	"linkbio/internal/geo"
	"linkbio/internal/handler"
	"linkbio/internal/repository"
	"linkbio/internal/repository/memory"
	postgresRepo "linkbio/internal/repository/postgres"
	"linkbio/internal/service"
	"linkbio/internal/sink"
	customLogger "linkbio/pkg/logger"
)

// gormWriter wraps our custom logger to implement gorm's logger.Writer interface
type gormWriter struct {
	logger *customLogger.Logger
}

// Printf implements the logger.Writer interface
func (w *gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(fmt.Sprintf(format, args...))
}

func main() {
	// Simple health check for Docker
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8081"
		}
		resp, err := http.Get("http://localhost:" + port + "/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load environment variables from .env file (development only)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appLogger := customLogger.NewLogger()
	defer appLogger.Sync()
	appLogger.Info("Starting link-in-bio service")

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", "error", err)
	}

	// Storage
	var (
		db        *gorm.DB
		linkRepo          repository.LinkRepository
		slugRepo          repository.SlugRepository
		customizationRepo repository.CustomizationRepository
		clickRepo         repository.ClickRepository
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err = initDatabase(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize database", "error", err)
		}
		withClicks := cfg.AnalyticsBackend == config.AnalyticsPostgres
		if err := postgresRepo.Migrate(db, withClicks); err != nil {
			appLogger.Fatal("Failed to run migrations", "error", err)
		}
		linkRepo = postgresRepo.NewLinkRepository(db)
		slugRepo = postgresRepo.NewSlugRepository(db)
		customizationRepo = postgresRepo.NewCustomizationRepository(db)
		if withClicks {
			clickRepo = postgresRepo.NewClickRepository(db)
		}
	default:
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		linkRepo = memory.NewLinkRepository()
		slugRepo = memory.NewSlugRepository()
		customizationRepo = memory.NewCustomizationRepository()
	}

	// Redis cache is optional
	var redisCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Warn("Failed to initialize Redis cache, continuing without cache", "error", err)
			redisCache = nil
		}
	}

	// Analytics pipeline
	locator := geo.NewLocator(cfg.GeoIPDBPath, cfg.TrustedGeoHeaders, appLogger)
	sinkLogger := appLogger.With("component", "sink")
	forwarder, source, kafkaForwarder := initAnalytics(cfg, clickRepo, sinkLogger)
	dispatcher := sink.NewDispatcher(forwarder, cfg.SinkTimeout, cfg.SinkMaxInflight, sinkLogger)

	// Services
	linkService := service.NewLinkService(linkRepo, slugRepo, appLogger)
	slugService := service.NewSlugService(slugRepo, linkRepo, redisCache, cfg, appLogger)
	profileService := service.NewProfileService(customizationRepo, slugRepo, appLogger)
	clickService := service.NewClickService(slugService, locator, dispatcher, appLogger)
	analyticsService := service.NewAnalyticsService(source, linkRepo, redisCache, cfg, appLogger)

	router := handler.NewRouter(handler.Handlers{
		Links:     handler.NewLinkHandler(linkService, profileService, appLogger),
		Slugs:     handler.NewSlugHandler(slugService, appLogger),
		Profiles:  handler.NewProfileHandler(profileService, appLogger),
		Clicks:    handler.NewClickHandler(clickService, appLogger),
		Analytics: handler.NewAnalyticsHandler(analyticsService, appLogger),
	}, cfg, appLogger)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		appLogger.Info("Server starting", "port", cfg.ServerPort, "storage", cfg.StorageDriver, "analytics", cfg.AnalyticsBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	// In-flight click deliveries share the shutdown deadline
	if err := dispatcher.Shutdown(ctx); err != nil {
		appLogger.Warn("Abandoned in-flight click deliveries", "error", err)
	}

	if kafkaForwarder != nil {
		if err := kafkaForwarder.Close(); err != nil {
			appLogger.Error("Error closing Kafka writer", "error", err)
		}
	}

	if err := locator.Close(); err != nil {
		appLogger.Error("Error closing GeoIP database", "error", err)
	}

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			appLogger.Error("Error closing Redis connection", "error", err)
		}
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	appLogger.Info("Server exited successfully")
}

// initAnalytics picks where click events go and where aggregation reads them from
func initAnalytics(cfg *config.Config, clicks repository.ClickRepository, log *customLogger.Logger) (sink.Forwarder, sink.EventSource, *sink.KafkaForwarder) {
	var (
		forwarders sink.Fanout
		source     sink.EventSource = sink.Unconfigured{}
	)

	switch cfg.AnalyticsBackend {
	case config.AnalyticsPostgres:
		store := sink.NewStoreSink(clicks)
		forwarders = append(forwarders, store)
		source = store
		log.Info("Click events stored in PostgreSQL")
	default:
		tinybird := sink.NewTinybirdClient(
			cfg.TinybirdHost, cfg.TinybirdToken, cfg.TinybirdDatasource, cfg.TinybirdClicksPipe,
			&http.Client{Timeout: cfg.SinkTimeout}, log,
		)
		if tinybird.Configured() {
			forwarders = append(forwarders, tinybird)
			source = tinybird
			log.Info("Click events forwarded to Tinybird", "host", cfg.TinybirdHost, "datasource", cfg.TinybirdDatasource)
		} else {
			log.Warn("Tinybird not configured, click forwarding disabled and analytics unavailable")
		}
	}

	var kafkaForwarder *sink.KafkaForwarder
	if len(cfg.KafkaBrokers) > 0 {
		kafkaForwarder = sink.NewKafkaForwarder(cfg.KafkaBrokers, cfg.KafkaTopic)
		forwarders = append(forwarders, kafkaForwarder)
		log.Info("Click events published to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	if len(forwarders) == 0 {
		return sink.Noop{}, source, nil
	}
	return forwarders, source, kafkaForwarder
}

// initDatabase initializes the PostgreSQL database connection with connection pooling
func initDatabase(cfg *config.Config, log *customLogger.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		&gormWriter{logger: log},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)

	// Connect to PostgreSQL with retry logic
	var db *gorm.DB
	var err error

	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:                 gormLogger,
			SkipDefaultTransaction: true,
			PrepareStmt:            true,
			TranslateError:         true,
		})
		if err == nil {
			break
		}

		log.Warn("Failed to connect to database, retrying...", "attempt", i+1, "error", err)
		time.Sleep(5 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established successfully")
	return db, nil
}
