package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"library-api/internal/config"
	infraCache "library-api/internal/infrastructure/cache"
	"library-api/internal/infrastructure/database"
	"library-api/internal/shared/ratelimit"
	txdb "library-api/pkg/database"

	authorHandler "library-api/internal/domains/author/handler"
	authorRepo "library-api/internal/domains/author/repository"
	authorService "library-api/internal/domains/author/service"

	bookHandler "library-api/internal/domains/book/handler"
	bookRepo "library-api/internal/domains/book/repository"
	bookService "library-api/internal/domains/book/service"
)

const connectTimeout = 30 * time.Second

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config *config.Config
	DB     *database.PostgresDB

	// Redis is nil when disabled or unreachable at startup
	Redis *infraCache.RedisClient

	// Limiter is nil when rate limiting is disabled
	Limiter ratelimit.Limiter

	Transactor txdb.Transactor

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	AuthorRepo authorRepo.RepositoryInterface
	BookRepo   bookRepo.RepositoryInterface

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.BookHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in order:
// infrastructure, repositories, services, handlers.
// On error every resource opened so far is released.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("Initializing DI container...")

	c := &Container{Config: cfg}
	if err := c.init(); err != nil {
		c.Cleanup()
		return nil, err
	}

	log.Info().
		Str("environment", cfg.App.Environment).
		Bool("redis", c.Redis != nil).
		Msg("DI container initialized")
	return c, nil
}

func (c *Container) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(c.Config.Database)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// ========================================
	// STEP 2: REDIS (optional)
	// ========================================
	c.initRedis(ctx)

	// ========================================
	// STEP 3: RATE LIMITER
	// ========================================
	c.initRateLimiter()

	// ========================================
	// STEP 4: DOMAINS
	// ========================================
	c.Transactor = txdb.NewTransactor(db.Pool)
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return nil
}

// initRedis is non-critical: the rate limiter falls back to memory
func (c *Container) initRedis(ctx context.Context) {
	if !c.Config.Redis.Enabled {
		log.Info().Msg("[REDIS] Disabled")
		return
	}

	rc := infraCache.NewRedisClient(c.Config.Redis)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[REDIS] Connection failed (non-critical), falling back to in-memory rate limiting")
		if closeErr := rc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("[REDIS] Failed to close client")
		}
		return
	}

	c.Redis = rc
}

func (c *Container) initRateLimiter() {
	rl := c.Config.RateLimit
	if !rl.Enabled {
		log.Info().Msg("Rate limiting disabled")
		return
	}

	if c.Redis != nil {
		c.Limiter = ratelimit.NewFixedWindow(c.Redis, rl.Requests, rl.Window)
	} else {
		c.Limiter = ratelimit.NewMemory(rl.Requests, rl.Window)
	}

	log.Info().
		Str("store", c.Limiter.Name()).
		Int("requests", rl.Requests).
		Dur("window", rl.Window).
		Msg("Rate limiter initialized")
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool)
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.Transactor)

	// the author repository takes the share lock the book service needs
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo, c.Transactor)
}

func (c *Container) initHandlers() {
	bounds := c.Config.Pagination.Bounds()
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, bounds)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService, bounds)
}

// Cleanup releases resources in reverse order of creation
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.Limiter != nil {
		if err := c.Limiter.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop rate limiter")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[REDIS] Failed to close")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("[DATABASE] Failed to close")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
