package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"dentalcare-backend/internal/config"
	infraCache "dentalcare-backend/internal/infrastructure/cache"
	"dentalcare-backend/internal/infrastructure/database"
	"dentalcare-backend/internal/infrastructure/email"
	"dentalcare-backend/internal/infrastructure/storage"
	"dentalcare-backend/pkg/cache"
	"dentalcare-backend/pkg/jwt"

	alertHandler "dentalcare-backend/internal/domains/alert/handler"
	alertRepo "dentalcare-backend/internal/domains/alert/repository"
	alertService "dentalcare-backend/internal/domains/alert/service"
	catalogHandler "dentalcare-backend/internal/domains/catalog/handler"
	catalogRepo "dentalcare-backend/internal/domains/catalog/repository"
	catalogService "dentalcare-backend/internal/domains/catalog/service"
	purchaseHandler "dentalcare-backend/internal/domains/purchase/handler"
	purchaseRepo "dentalcare-backend/internal/domains/purchase/repository"
	purchaseService "dentalcare-backend/internal/domains/purchase/service"
	stockHandler "dentalcare-backend/internal/domains/stock/handler"
	stockRepo "dentalcare-backend/internal/domains/stock/repository"
	stockService "dentalcare-backend/internal/domains/stock/service"
	treatmentHandler "dentalcare-backend/internal/domains/treatment/handler"
	treatmentRepo "dentalcare-backend/internal/domains/treatment/repository"
	treatmentService "dentalcare-backend/internal/domains/treatment/service"
	"dentalcare-backend/internal/shared"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton wired once at startup.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Storage     storage.ObjectStorage
	Email       email.EmailService
	Clock       shared.Clock

	CatalogRepo   catalogRepo.RepositoryInterface
	StockRepo     stockRepo.RepositoryInterface
	AlertRepo     alertRepo.RepositoryInterface
	PurchaseRepo  purchaseRepo.RepositoryInterface
	TreatmentRepo treatmentRepo.RepositoryInterface

	CatalogService   catalogService.ServiceInterface
	StockService     stockService.ServiceInterface
	AlertService     alertService.ServiceInterface
	PurchaseService  purchaseService.ServiceInterface
	TreatmentService treatmentService.ServiceInterface

	CatalogHandler   *catalogHandler.Handler
	StockHandler     *stockHandler.Handler
	AlertHandler     *alertHandler.Handler
	PurchaseHandler  *purchaseHandler.Handler
	TreatmentHandler *treatmentHandler.Handler
}

// NewContainer builds the full graph: config, infrastructure, repositories,
// services, handlers, in that order.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := &Container{Config: cfg, Clock: shared.NewClock()}
	log.Info().Str("environment", cfg.App.Environment).Msg("Initializing container")

	if cfg.App.Environment == "demo" {
		c.initMemoryInfrastructure()
	} else {
		if err := c.initInfrastructure(); err != nil {
			return nil, err
		}
	}

	c.initServices()
	c.initHandlers()

	log.Info().Msg("Container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Cache misses are survivable; the repos hit Postgres directly.
		log.Warn().Err(err).Msg("Redis connection failed, running without cache")
		c.Cache = cache.Noop{}
	} else {
		c.Cache = redisCache
	}

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	minioStorage, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage

	c.Email = email.NewSMTPService(c.Config.SMTP)

	pool := c.DB.Pool
	c.CatalogRepo = catalogRepo.NewRepository(pool)
	c.StockRepo = stockRepo.NewRepository(pool)
	c.AlertRepo = alertRepo.NewRepository(pool)
	c.PurchaseRepo = purchaseRepo.NewRepository(pool)
	c.TreatmentRepo = treatmentRepo.NewRepository(pool)
	return nil
}

// initMemoryInfrastructure backs everything with in-process stores. Used
// for local demos without Postgres, Redis or MinIO.
func (c *Container) initMemoryInfrastructure() {
	log.Warn().Msg("Demo mode: all state is in memory and will be lost on exit")

	c.Cache = cache.Noop{}
	c.Storage = storage.NewMemoryStorage()
	c.Email = email.NewNoopService()

	c.CatalogRepo = catalogRepo.NewMemoryRepository()
	c.StockRepo = stockRepo.NewMemoryRepository()
	c.AlertRepo = alertRepo.NewMemoryRepository()
	c.PurchaseRepo = purchaseRepo.NewMemoryRepository()
	c.TreatmentRepo = treatmentRepo.NewMemoryRepository()
}

func (c *Container) initServices() {
	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.AccessTokenExpiry)

	c.CatalogService = catalogService.NewService(c.CatalogRepo, c.Cache, c.Clock)

	stockSvc := stockService.NewService(c.StockRepo, c.Clock)
	c.StockService = stockSvc

	alertSvc := alertService.NewService(c.AlertRepo, c.CatalogService, c.StockRepo, c.AsynqClient, c.Clock)
	c.AlertService = alertSvc

	// The alert engine sees every ledger change synchronously, while the
	// per-key lock is held.
	stockSvc.RegisterListener(alertSvc)

	var sequence purchaseService.OrderNumberSequence
	if c.DB != nil {
		sequence = purchaseService.NewPostgresSequence(c.DB.Pool)
	} else {
		sequence = purchaseService.NewMemorySequence()
	}

	c.PurchaseService = purchaseService.NewService(
		c.PurchaseRepo,
		c.StockService,
		c.AlertService,
		sequence,
		c.Storage,
		c.Clock,
		c.Config.Purchasing.TaxRate,
		c.Config.Purchasing.OrderNumberPrefix,
	)

	c.TreatmentService = treatmentService.NewService(c.TreatmentRepo, c.StockService, c.Clock)
}

func (c *Container) initHandlers() {
	c.CatalogHandler = catalogHandler.NewHandler(c.CatalogService)
	c.StockHandler = stockHandler.NewHandler(c.StockService)
	c.AlertHandler = alertHandler.NewHandler(c.AlertService)
	c.PurchaseHandler = purchaseHandler.NewHandler(c.PurchaseService)
	c.TreatmentHandler = treatmentHandler.NewHandler(c.TreatmentService)
}

// Close releases external connections.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
