package bootstrap

import (
	"context"
	"log"

	"subtracker-be/internal/config"
	"subtracker-be/internal/controller"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/pkg/mailer"
	"subtracker-be/internal/repository/contract"
	"subtracker-be/internal/repository/implementation"
	"subtracker-be/internal/repository/memory"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/internal/service"
	"subtracker-be/internal/worker"
	"subtracker-be/pkg/admin/catalog"
	"subtracker-be/pkg/admin/dashboard"
	"subtracker-be/pkg/lifecycle"
	pktNats "subtracker-be/pkg/nats"
	"subtracker-be/pkg/provisioner"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger     logger.ILogger
	UowFactory unitofwork.RepositoryFactory

	// Controllers
	CatalogController      controller.ICatalogController
	SubscriptionController controller.ISubscriptionController
	AnalyticsController    controller.IAnalyticsController
	UserController         controller.IUserController
	AdminController        controller.IAdminController

	// Used by cmd/ctl and the worker
	SubscriptionService service.ISubscriptionService
	ReminderService     service.IReminderService
	CatalogService      service.ICatalogService

	// Background Services (Exposed for main.go to run)
	AuditConsumer service.IAuditConsumerService
	Scheduler     *worker.Scheduler

	closers []func()
}

// NewContainer wires every service. A nil db selects the in-memory store.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	return NewContainerWithLogger(db, cfg, sysLogger)
}

func NewContainerWithLogger(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// 1. Core Facades
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Printf("[WARN] No database configured, using the in-memory store")
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	}
	c.UowFactory = uowFactory

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// remote stays a nil interface unless NATS connects
	var remote service.RemotePublisher
	if cfg.Events.NatsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			remote = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	publisherService := service.NewPublisherService(pubSub, remote, service.BreakerSettings{
		MaxFailures: uint32(cfg.Events.BreakerMaxFailures),
		Timeout:     cfg.Events.BreakerTimeout,
	}, sysLogger)
	c.AuditConsumer = service.NewAuditConsumerService(pubSub, uowFactory, sysLogger)

	// 3. Cache
	catalogCache := newCatalogCache(cfg, c)

	// 4. Services
	catalogService := service.NewCatalogService(uowFactory, catalogCache, cfg.Cache.TTL, sysLogger)
	userService := service.NewUserService(uowFactory)
	subscriptionService := service.NewSubscriptionService(uowFactory, lifecycle.NewManager(sysLogger), publisherService, sysLogger)
	analyticsService := service.NewAnalyticsService(uowFactory, cfg.App.DefaultCurrency, sysLogger)
	customProductService := service.NewCustomProductService(uowFactory, provisioner.NewProvisioner(sysLogger), publisherService, sysLogger)

	// Admin Domain Components
	adminService := service.NewAdminService(
		uowFactory,
		sysLogger,
		catalog.NewManager(),
		dashboard.NewAggregator(sysLogger),
		publisherService,
		catalogService,
	)

	if cfg.SMTP.Host != "" {
		emailService := mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
		)
		c.ReminderService = service.NewReminderService(uowFactory, emailService, sysLogger)
	} else {
		log.Printf("[INFO] SMTP_HOST not set, renewal reminders are disabled")
	}

	c.SubscriptionService = subscriptionService
	c.CatalogService = catalogService
	c.Scheduler = worker.NewScheduler(subscriptionService, c.ReminderService, cfg.Worker.Interval, cfg.Worker.ReminderWindowDays, sysLogger)

	// 5. Controllers
	c.CatalogController = controller.NewCatalogController(catalogService, customProductService)
	c.SubscriptionController = controller.NewSubscriptionController(subscriptionService)
	c.AnalyticsController = controller.NewAnalyticsController(analyticsService)
	c.UserController = controller.NewUserController(userService)
	c.AdminController = controller.NewAdminController(adminService, userService)

	return c
}

func newCatalogCache(cfg *config.Config, c *Container) contract.CatalogCache {
	if cfg.Cache.Driver != "redis" {
		return memory.NewCatalogCache(cfg.Cache.TTL)
	}

	opt, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.Cache.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to the in-process cache", err)
		_ = rdb.Close()
		return memory.NewCatalogCache(cfg.Cache.TTL)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return implementation.NewRedisCatalogCache(rdb)
}

// Start launches the audit consumer and, when enabled, the worker. Both stop with ctx.
func (c *Container) Start(ctx context.Context, withWorker bool) error {
	if err := c.AuditConsumer.Consume(ctx); err != nil {
		return err
	}
	if withWorker {
		go c.Scheduler.Start(ctx)
	}
	return nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
