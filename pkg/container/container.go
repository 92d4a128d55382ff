package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/config"
	contactHandler "podcasthub-backend/internal/domains/contact/handler"
	contactService "podcasthub-backend/internal/domains/contact/service"
	podcastHandler "podcasthub-backend/internal/domains/podcast/handler"
	podcastRepo "podcasthub-backend/internal/domains/podcast/repository"
	podcastService "podcasthub-backend/internal/domains/podcast/service"
	infraCache "podcasthub-backend/internal/infrastructure/cache"
	"podcasthub-backend/internal/infrastructure/database"
	"podcasthub-backend/internal/infrastructure/storage"
	"podcasthub-backend/pkg/cache"
	"podcasthub-backend/pkg/jwt"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph, shared by cmd/api and cmd/worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	// Lifecycle: Singleton (1 instance duy nhất trong app lifetime)

	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Storage     *storage.S3Storage
	Metrics     *prometheus.Registry

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	PodcastRepo podcastRepo.PodcastRepository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	CatalogService  podcastService.CatalogService
	ApprovalService podcastService.ApprovalService
	ExportService   podcastService.ExportService
	ContactService  contactService.ContactService

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	PodcastHandler *podcastHandler.Handler
	ContactHandler *contactHandler.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, Redis, queue client, object storage, metrics)
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("✅ Config loaded")

	// ========================================
	// STEP 2: INITIALIZE INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE REPOSITORIES
	// ========================================
	c.PodcastRepo = podcastRepo.NewPostgresPodcastRepository(c.DB.Pool)
	log.Info().Msg("✅ Repositories initialized")

	// ========================================
	// STEP 4: INITIALIZE SERVICES
	// ========================================
	if err := c.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	log.Info().Msg("✅ Services initialized")

	// ========================================
	// STEP 5: INITIALIZE HANDLERS
	// ========================================
	c.PodcastHandler = podcastHandler.NewHandler(
		c.CatalogService,
		c.ApprovalService,
		c.ExportService,
		cfg.App.BaseURL,
	)
	c.ContactHandler = contactHandler.NewHandler(c.ContactService)
	log.Info().Msg("✅ Handlers initialized")

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// Database
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("✅ Database connected")

	// Redis - failure không critical, cache misses fall through to Postgres
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical)")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Metrics registry, served on /metrics
	c.Metrics = prometheus.NewRegistry()
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Object storage
	observer, err := storage.NewPrometheusObserver(c.Metrics)
	if err != nil {
		return fmt.Errorf("failed to register storage metrics: %w", err)
	}
	c.Storage, err = storage.NewS3Storage(storage.S3Config{
		Endpoint:     cfg.Storage.Endpoint,
		Region:       cfg.Storage.Region,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		UseSSL:       cfg.Storage.UseSSL,
		TempBucket:   cfg.Storage.TempBucket,
		PermBucket:   cfg.Storage.PermBucket,
		UploadExpiry: cfg.Storage.UploadURLExpiry,
	}, observer)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	log.Info().
		Str("temp_bucket", cfg.Storage.TempBucket).
		Str("perm_bucket", cfg.Storage.PermBucket).
		Msg("✅ Object storage configured")

	return nil
}

func (c *Container) initServices() error {
	approvalMetrics, err := podcastService.NewApprovalMetrics(c.Metrics)
	if err != nil {
		return fmt.Errorf("failed to register approval metrics: %w", err)
	}

	c.CatalogService = podcastService.NewCatalogService(c.PodcastRepo, c.Storage, c.Cache)

	c.ApprovalService = podcastService.NewApprovalService(
		c.PodcastRepo,
		c.Storage,
		c.AsynqClient,
		c.Cache,
		approvalMetrics,
		podcastService.ApprovalConfig{
			PromotionConcurrency: c.Config.Approval.PromotionConcurrency,
			CleanupMaxRetry:      c.Config.Job.DeleteMaxRetry,
		},
	)

	c.ExportService = podcastService.NewExportService(c.PodcastRepo)

	c.ContactService = contactService.NewContactService(c.AsynqClient, c.Config.Email.MaxRetry)

	return nil
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close asynq client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Info().Msg("✅ Container cleanup completed")
}
