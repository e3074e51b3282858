package di

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gofiber-cms/application/serviceimpl"
	"gofiber-cms/domain/ports"
	"gofiber-cms/domain/repositories"
	"gofiber-cms/domain/services"
	"gofiber-cms/infrastructure/memory"
	"gofiber-cms/infrastructure/messaging"
	natspkg "gofiber-cms/infrastructure/nats"
	"gofiber-cms/infrastructure/postgres"
	redispkg "gofiber-cms/infrastructure/redis"
	"gofiber-cms/infrastructure/storage"
	"gofiber-cms/interfaces/api/handlers"
	"gofiber-cms/pkg/config"
	"gofiber-cms/pkg/logger"
	"gofiber-cms/pkg/scheduler"
)

const trashPurgeJobID = "trash-purge"

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client // nil เมื่อปิด Redis หรือเชื่อมต่อไม่ได้
	NATSClient     *natspkg.Client  // nil เมื่อปิด NATS หรือเชื่อมต่อไม่ได้
	Storage        ports.StoragePort
	EventScheduler scheduler.EventScheduler

	// Messaging / cache ports
	Events          ports.EventPublisherPort
	PermissionCache ports.PermissionCachePort
	PermissionSync  *serviceimpl.PermissionCacheSync

	// Repositories
	UserRepository       repositories.UserRepository
	RoleRepository       repositories.RoleRepository
	PermissionRepository repositories.PermissionRepository
	CategoryRepository   repositories.CategoryRepository
	PostRepository       repositories.PostRepository
	CommentRepository    repositories.CommentRepository

	// Services
	UserService       services.UserService
	RoleService       services.RoleService
	PermissionService services.PermissionService
	CategoryService   services.CategoryService
	PostService       services.PostService
	CommentService    services.CommentService
	TrashService      services.TrashService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	c.initPermissionSync()

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Host:            c.Config.Database.Host,
		Port:            c.Config.Database.Port,
		User:            c.Config.Database.User,
		Password:        c.Config.Database.Password,
		DBName:          c.Config.Database.DBName,
		SSLMode:         c.Config.Database.SSLMode,
		LogLevel:        c.Config.Database.LogLevel,
		MaxOpenConns:    c.Config.Database.MaxOpenConns,
		MaxIdleConns:    c.Config.Database.MaxIdleConns,
		ConnMaxLifetime: c.Config.Database.ConnMaxLifetime,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database migrated")

	c.initCache()
	c.initEvents()

	return c.initStorage()
}

// initCache ใช้ Redis ถ้าเปิดและเชื่อมต่อได้ ไม่งั้น fallback เป็น cache ใน memory
func (c *Container) initCache() {
	ttl := c.Config.Cache.PermissionTTL

	if c.Config.Redis.Enabled && c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (using in-memory cache)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.PermissionCache = redispkg.NewPermissionCache(redisClient, ttl)
			logger.Info("Permission cache initialized", "backend", "redis", "ttl", ttl)
			return
		}
	}

	c.PermissionCache = memory.NewPermissionCache(ttl)
	logger.Info("Permission cache initialized", "backend", "memory", "ttl", ttl)
}

// initEvents: ถ้าไม่มี NATS จะใช้ publisher ที่ไม่ทำอะไร
func (c *Container) initEvents() {
	c.Events = messaging.NoopEventPublisher{}

	if !c.Config.NATS.Enabled {
		logger.Info("Content events disabled")
		return
	}

	natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
		URL:  c.Config.NATS.URL,
		Name: c.Config.App.Name,
	})
	if err != nil {
		logger.Warn("NATS client initialization failed (content events disabled)", "error", err)
		return
	}

	c.NATSClient = natsClient
	c.Events = messaging.NewNATSEventPublisher(natspkg.NewPublisher(natsClient))
	logger.Info("Content events enabled", "url", c.Config.NATS.URL, "stream", natspkg.StreamName)
}

// initStorage สร้าง storage adapter ตาม config
func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		s3Config := storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		}
		s3Storage, err := storage.NewS3Storage(s3Config)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Storage = s3Storage
		logger.Info("S3 Storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)

	default:
		localStorage, err := storage.NewLocalStorage(storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		logger.Info("Local Storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.RoleRepository = postgres.NewRoleRepository(c.DB)
	c.PermissionRepository = postgres.NewPermissionRepository(c.DB)
	c.CategoryRepository = postgres.NewCategoryRepository(c.DB)
	c.PostRepository = postgres.NewPostRepository(c.DB)
	c.CommentRepository = postgres.NewCommentRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(
		c.UserRepository,
		c.PermissionCache,
		c.Events,
		c.Config.JWT.Secret,
		c.Config.JWT.TTL,
	)
	c.RoleService = serviceimpl.NewRoleService(c.RoleRepository, c.PermissionCache, c.Events)
	c.PermissionService = serviceimpl.NewPermissionService(c.PermissionRepository, c.PermissionCache, c.Events)

	c.CategoryService = serviceimpl.NewCategoryService(c.CategoryRepository, c.Events)
	c.PostService = serviceimpl.NewPostService(c.PostRepository, c.CategoryRepository, c.Storage, c.Events)
	c.CommentService = serviceimpl.NewCommentService(c.CommentRepository, c.PostRepository, c.Events)

	// comment ก่อน post ก่อน category เพื่อไม่ให้ลบ parent ก่อนลูก
	c.TrashService = serviceimpl.NewTrashService(c.Config.Trash.Retention,
		serviceimpl.TrashTarget{Name: "comment", Purger: c.CommentService},
		serviceimpl.TrashTarget{Name: "post", Purger: c.PostService},
		serviceimpl.TrashTarget{Name: "category", Purger: c.CategoryService},
		serviceimpl.TrashTarget{Name: "user", Purger: c.UserService},
	)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler(10 * time.Minute)

	if c.Config.Trash.PurgeCron != "" {
		err := c.EventScheduler.AddJob(trashPurgeJobID, c.Config.Trash.PurgeCron, func(ctx context.Context) error {
			purged, err := c.TrashService.Purge(ctx)
			logger.InfoContext(ctx, "Trash purged", "purged", purged)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to schedule trash purge: %w", err)
		}
		logger.Info("Trash purge job registered",
			"cron", c.Config.Trash.PurgeCron,
			"retention", c.Config.Trash.Retention,
		)
	}

	c.EventScheduler.Start()
	logger.Info("Event scheduler started")
	return nil
}

// initPermissionSync: cache ใน memory ของหลาย instance ต้องรู้เมื่อสิทธิ์เปลี่ยน
func (c *Container) initPermissionSync() {
	if c.NATSClient == nil || c.RedisClient != nil {
		return
	}

	subscriber := messaging.NewNATSEventSubscriber(natspkg.NewSubscriber(c.NATSClient.Conn()))
	c.PermissionSync = serviceimpl.NewPermissionCacheSync(subscriber, c.PermissionCache)
	if err := c.PermissionSync.Start(context.Background()); err != nil {
		logger.Warn("Permission cache sync failed to start", "error", err)
		c.PermissionSync = nil
		return
	}
	logger.Info("Permission cache sync started")
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.PermissionSync != nil {
		if err := c.PermissionSync.Stop(); err != nil {
			logger.Warn("Failed to stop permission cache sync", "error", err)
		}
	}

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) pingDB(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:       c.UserService,
		RoleService:       c.RoleService,
		PermissionService: c.PermissionService,
		CategoryService:   c.CategoryService,
		PostService:       c.PostService,
		CommentService:    c.CommentService,
		TrashService:      c.TrashService,
		NATSClient:        c.NATSClient,
		Scheduler:         c.EventScheduler,
		PingDB:            c.pingDB,
		MaxCoverBytes:     c.Config.Storage.MaxUploadSize,
	}
}
