package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"melivro-backend/internal/config"
	activityHandler "melivro-backend/internal/domains/activity/handler"
	activityRepo "melivro-backend/internal/domains/activity/repository"
	activityService "melivro-backend/internal/domains/activity/service"
	bookHandler "melivro-backend/internal/domains/book/handler"
	bookRepo "melivro-backend/internal/domains/book/repository"
	bookService "melivro-backend/internal/domains/book/service"
	citationHandler "melivro-backend/internal/domains/citation/handler"
	citationRepo "melivro-backend/internal/domains/citation/repository"
	citationService "melivro-backend/internal/domains/citation/service"
	importerHandler "melivro-backend/internal/domains/importer/handler"
	importerRepo "melivro-backend/internal/domains/importer/repository"
	importerService "melivro-backend/internal/domains/importer/service"
	personHandler "melivro-backend/internal/domains/person/handler"
	personRepo "melivro-backend/internal/domains/person/repository"
	personService "melivro-backend/internal/domains/person/service"
	infraCache "melivro-backend/internal/infrastructure/cache"
	"melivro-backend/internal/infrastructure/database"
	"melivro-backend/internal/infrastructure/enrichment"
	"melivro-backend/internal/infrastructure/extraction"
	"melivro-backend/internal/infrastructure/storage"
	"melivro-backend/pkg/cache"
	"melivro-backend/pkg/jwt"
	"melivro-backend/pkg/logger"
)

// Container is the root of the dependency graph. Initialization order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	AsynqClient *asynq.Client
	Storage     *storage.MinIOStorage // nil when object storage is unreachable
	Extraction  *extraction.Client
	Resolver    *enrichment.Resolver

	BookRepo     bookRepo.RepositoryInterface
	PersonRepo   personRepo.RepositoryInterface
	CitationRepo citationRepo.RepositoryInterface
	ActivityRepo activityRepo.RepositoryInterface
	SessionStore importerRepo.SessionStore

	BookService     bookService.ServiceInterface
	PersonService   personService.ServiceInterface
	CitationService citationService.ServiceInterface
	ActivityService activityService.ServiceInterface
	ImporterService importerService.ServiceInterface

	BookHandler     *bookHandler.BookHandler
	PersonHandler   *personHandler.PersonHandler
	CitationHandler *citationHandler.CitationHandler
	ActivityHandler *activityHandler.ActivityHandler
	ImporterHandler *importerHandler.ImporterHandler
}

// NewContainer builds the whole dependency graph. A failure here means
// the application must not start; optional collaborators (Redis, MinIO)
// degrade instead of failing.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initCache()
	c.initExternalClients()
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) initDatabase() error {
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
	return nil
}

// initCache connects Redis; on failure the container falls back to a
// no-op cache so list views are served uncached.
func (c *Container) initCache() {
	redisCache, err := infraCache.NewRedisCache(c.Config.Redis)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", err)
		c.Cache = cache.NewNoop()
		return
	}
	c.Cache = redisCache
}

func (c *Container) initExternalClients() {
	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	store, err := storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		logger.Warn("object storage unavailable, cover mirroring disabled", err)
	} else {
		c.Storage = store
	}

	c.Extraction = extraction.NewClient(c.Config.Extraction)
	c.Resolver = enrichment.NewResolver(
		enrichment.NewGoogleBooksClient(c.Config.GoogleBooks),
		enrichment.NewOpenLibraryClient(c.Config.OpenLibrary),
	)
}

func (c *Container) initRepositories() {
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	c.PersonRepo = personRepo.NewPostgresRepository(c.DB.Pool)
	c.CitationRepo = citationRepo.NewPostgresRepository(c.DB.Pool)
	c.ActivityRepo = activityRepo.NewPostgresRepository(c.DB.Pool)
	c.SessionStore = importerRepo.NewMemoryStore()
}

func (c *Container) initServices() {
	c.BookService = bookService.NewBookService(c.BookRepo, c.Extraction, c.AsynqClient)
	c.PersonService = personService.NewPersonService(c.PersonRepo, c.Cache)
	c.CitationService = citationService.NewCitationService(c.CitationRepo, c.PersonRepo, c.BookRepo, c.Cache)
	c.ActivityService = activityService.NewActivityService(c.ActivityRepo)
	c.ImporterService = importerService.NewImporterService(
		c.SessionStore,
		c.Extraction,
		c.Resolver,
		c.BookService,
		c.CitationService,
		c.PersonService,
		c.ActivityService,
	)
}

func (c *Container) initHandlers() {
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.PersonHandler = personHandler.NewPersonHandler(c.PersonService, c.CitationService)
	c.CitationHandler = citationHandler.NewCitationHandler(c.CitationService)
	c.ActivityHandler = activityHandler.NewActivityHandler(c.ActivityService)
	c.ImporterHandler = importerHandler.NewImporterHandler(c.ImporterService)
}

// Cleanup releases every held connection. Safe to call once on shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Warn("failed to close asynq client", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Warn("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
