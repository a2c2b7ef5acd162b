package di

import (
	"gorm.io/gorm"

	"jobcore-api/application/serviceimpl"
	"jobcore-api/domain/ports"
	"jobcore-api/domain/repositories"
	"jobcore-api/domain/services"
	"jobcore-api/infrastructure/catalog"
	natspkg "jobcore-api/infrastructure/nats"
	"jobcore-api/infrastructure/postgres"
	redispkg "jobcore-api/infrastructure/redis"
	"jobcore-api/interfaces/api/handlers"
	"jobcore-api/interfaces/api/routes"
	"jobcore-api/pkg/authz"
	"jobcore-api/pkg/config"
	"jobcore-api/pkg/errors"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client // schedule cache (optional)
	NATSClient     *natspkg.Client  // execution events (optional)
	Publisher      ports.ExecutionEventPublisher
	Catalog        *catalog.FileCatalog
	EventScheduler scheduler.EventScheduler

	// Authorization
	Policy *authz.Policy
	Guard  *authz.Guard

	// Repositories
	ExecutionRepository repositories.ExecutionRepository
	ScheduleRepository  repositories.ScheduleRepository

	// Services
	TaskService      services.TaskService
	ExecutionService services.ExecutionService
	QueueMonitor     *serviceimpl.QueueMonitorService
}

func NewContainer() *Container {
	return &Container{}
}

// Initialize wires everything the HTTP server needs.
func (c *Container) Initialize() error {
	if err := c.InitializeDatabase(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initAuthz(); err != nil {
		return err
	}

	c.initRepositories()
	c.initServices()

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

// InitializeDatabase config, logger and database only (migrate command).
func (c *Container) InitializeDatabase() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	return c.initDatabase()
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
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

func (c *Container) initDatabase() error {
	dbConfig := postgres.DatabaseConfig{
		Driver:   c.Config.Database.Driver,
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
		Path:     c.Config.Database.Path,
		LogLevel: "warn",
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", dbConfig.Driver)
	return nil
}

// Migrate สร้าง/อัปเดต task_executions และ task_schedules
func (c *Container) Migrate() error {
	if c.DB == nil {
		return errors.New("database not initialized")
	}
	if err := postgres.Migrate(c.DB); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	logger.Info("Database migrated")
	return nil
}

func (c *Container) initInfrastructure() error {
	if err := c.Migrate(); err != nil {
		return err
	}

	// Redis (optional)
	if c.Config.Redis.URL != "" {
		client, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis not available, schedule cache disabled", "error", err)
		} else {
			c.RedisClient = client
		}
	}

	// NATS (optional)
	c.Publisher = natspkg.NoopPublisher{}
	if c.Config.NATS.URL != "" {
		client, err := natspkg.NewClient(natspkg.ClientConfig{URL: c.Config.NATS.URL})
		if err != nil {
			logger.Warn("NATS not available, execution events disabled", "error", err)
		} else {
			c.NATSClient = client
			c.Publisher = natspkg.NewPublisher(client)
		}
	}

	// Task catalog
	c.Catalog = catalog.NewFileCatalog(c.Config.Catalog.ManifestPath)
	if c.Config.Catalog.Watch {
		if err := c.Catalog.Watch(); err != nil {
			// ไม่มี watcher ก็ยังอ่านไฟล์ทุก request ได้
			logger.Warn("Task manifest watcher disabled", "path", c.Config.Catalog.ManifestPath, "error", err)
		}
	}

	logger.Info("Infrastructure initialized",
		"redis", c.RedisClient != nil,
		"nats", c.NATSClient != nil,
		"manifest", c.Config.Catalog.ManifestPath,
	)
	return nil
}

func (c *Container) initAuthz() error {
	policy, err := authz.LoadPolicy(c.Config.Authz.PermissionsFile)
	if err != nil {
		return err
	}
	c.Policy = policy
	c.Guard = authz.NewGuard(policy)
	logger.Info("Authorization policy loaded", "file", c.Config.Authz.PermissionsFile, "roles", policy.Roles())
	return nil
}

func (c *Container) initRepositories() {
	c.ExecutionRepository = postgres.NewExecutionRepository(c.DB)

	c.ScheduleRepository = postgres.NewScheduleRepository(c.DB)
	if c.RedisClient != nil {
		c.ScheduleRepository = redispkg.NewCachedScheduleRepository(c.ScheduleRepository, c.RedisClient, c.Config.Redis.ScheduleTTL)
		logger.Info("Schedule repository initialized with Redis cache")
	}
}

func (c *Container) initServices() {
	c.TaskService = serviceimpl.NewTaskService(c.Catalog, c.ScheduleRepository, c.ExecutionRepository)
	c.ExecutionService = serviceimpl.NewExecutionService(c.ExecutionRepository, c.Catalog, c.Publisher)
	logger.Info("Services initialized")
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	c.QueueMonitor = serviceimpl.NewQueueMonitorService(
		serviceimpl.QueueMonitorConfig{
			Cron:       c.Config.Monitor.Cron,
			StaleAfter: c.Config.Monitor.StaleAfter,
		},
		c.ExecutionRepository,
		c.Publisher,
		c.EventScheduler,
	)
	if err := c.QueueMonitor.RegisterMonitorJob(); err != nil {
		logger.Warn("Failed to register queue monitor", "cron", c.Config.Monitor.Cron, "error", err)
	}

	c.EventScheduler.Start()
	logger.Info("Event scheduler started")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		TaskService:      c.TaskService,
		ExecutionService: c.ExecutionService,
		Publisher:        c.Publisher,
		QueueMonitor:     c.QueueMonitor,
		Scheduler:        c.EventScheduler,
	}
}

func (c *Container) GetRouteOptions() routes.Options {
	return routes.Options{
		AppName:     c.Config.App.Name,
		CORSOrigins: c.Config.App.CORSOrigins,
		Guard:       c.Guard,
		JWTSecret:   c.Config.JWT.Secret,
		AuthCookie:  c.Config.JWT.CookieName,
	}
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	// Stop scheduler
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.Catalog != nil {
		if err := c.Catalog.Close(); err != nil {
			logger.Warn("Failed to stop manifest watcher", "error", err)
		}
	}

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	// Close database connection
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
