package bootstrap

import (
	"context"
	"log"

	"subscription-webhook-be/internal/config"
	"subscription-webhook-be/internal/controller"
	"subscription-webhook-be/internal/pkg/cache"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/pkg/mailer"
	"subscription-webhook-be/internal/repository/contract"
	"subscription-webhook-be/internal/repository/implementation"
	"subscription-webhook-be/internal/repository/memory"
	"subscription-webhook-be/internal/service"
	adminEvents "subscription-webhook-be/pkg/admin/events"
	"subscription-webhook-be/pkg/admin/subscription"
	"subscription-webhook-be/pkg/billing"
	pktNats "subscription-webhook-be/pkg/nats"
	"subscription-webhook-be/pkg/razorpay"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController      controller.IWebhookController
	PaymentLinkController  controller.IPaymentLinkController
	SubscriptionController controller.ISubscriptionController
	AdminController        controller.IAdminController
	HealthController       controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger  logger.ILogger
	closers []func()
}

// NewContainer wires every dependency. db may be nil when the memory store
// driver is selected.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	c := &Container{Logger: sysLogger}

	calendar, err := billing.LoadCalendar(cfg.Billing.Timezone)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// 1. Stores
	var (
		subscriptionRepo contract.SubscriptionRepository
		ledger           contract.WebhookEventRepository
	)
	if db != nil {
		subscriptionRepo = implementation.NewSubscriptionRepository(db, calendar)
		ledger = implementation.NewWebhookEventRepository(db)
		log.Printf("[INFO] Using store driver: POSTGRES")
	} else {
		subscriptionRepo = memory.NewSubscriptionRepository()
		ledger = memory.NewWebhookEventRepository()
		log.Printf("[INFO] Using store driver: MEMORY")
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		} else {
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// Redis
	statusCache := newStatusCache(cfg, sysLogger, c)

	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			cfg.SMTP.AlertEmail,
		)
	}

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, service.SubscriptionEventsTopic, sysLogger)
	reconciler := service.NewSubscriptionReconciler(
		subscriptionRepo,
		calendar,
		publisherService,
		sysLogger,
		cfg.Billing.StoreTimeout,
	)
	webhookService := service.NewWebhookService(
		cfg.Razorpay.WebhookSecret,
		reconciler,
		ledger,
		sysLogger,
		cfg.Billing.StoreTimeout,
	)

	razorpayClient := razorpay.NewClient(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.BaseURL,
		cfg.Billing.UpstreamTimeout,
	)
	paymentLinkService := service.NewPaymentLinkService(razorpayClient, cfg.Razorpay, cfg.Billing.UpstreamTimeout, sysLogger)

	subscriptionService := service.NewSubscriptionService(
		subscriptionRepo,
		statusCache,
		calendar,
		sysLogger,
		cfg.Billing.StoreTimeout,
		cfg.Billing.StatusCacheTTL,
	)

	// Admin Domain Components
	subscriptionManager := subscription.NewManager(subscriptionRepo, calendar, sysLogger, cfg.Billing.StoreTimeout)
	adminService := service.NewAdminService(subscriptionManager, calendar, publisherService)

	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		service.SubscriptionEventsTopic,
		statusCache,
		adminEventPublisher,
		emailService,
		sysLogger,
	)

	// 5. Controllers
	c.WebhookController = controller.NewWebhookController(webhookService)
	c.PaymentLinkController = controller.NewPaymentLinkController(paymentLinkService)
	c.SubscriptionController = controller.NewSubscriptionController(subscriptionService)
	c.AdminController = controller.NewAdminController(adminService, cfg.Auth.AdminJWTSecret)
	c.HealthController = controller.NewHealthController(subscriptionRepo, cfg.Billing.StoreTimeout)

	return c
}

func newStatusCache(cfg *config.Config, sysLogger logger.ILogger, c *Container) cache.StatusCache {
	if cfg.App.RedisURL == "" {
		return cache.NewLocalStatusCache(cfg.Billing.StatusCacheTTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-process cache", err)
		_ = rdb.Close()
		return cache.NewLocalStatusCache(cfg.Billing.StatusCacheTTL)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return cache.NewRedisStatusCache(rdb, sysLogger)
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
