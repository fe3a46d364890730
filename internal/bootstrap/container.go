package bootstrap

import (
	"context"
	"log"

	"ai-crm-be/internal/config"
	"ai-crm-be/internal/controller"
	"ai-crm-be/internal/handler"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/pkg/mailer"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/internal/service"
	"ai-crm-be/internal/websocket"
	"ai-crm-be/pkg/ai/contactcontext"
	"ai-crm-be/pkg/ai/dealcontext"
	"ai-crm-be/pkg/ai/signal"
	"ai-crm-be/pkg/cache"
	"ai-crm-be/pkg/llm/factory"

	pkgnats "ai-crm-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const analyzeDealTopic = "ANALYZE_DEAL_SIGNAL"

type Container struct {
	// Controllers
	HealthController   controller.IHealthController
	AuthController     controller.IAuthController
	ContactController  controller.IContactController
	DealController     controller.IDealController
	ActivityController controller.IActivityController
	InsightController  controller.IInsightController

	// Background services (exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus (in-process analysis queue)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pkgnats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgnats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
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
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Analysis cache backend
	var cacheStore cache.Store
	if cfg.App.CacheBackend == "redis" {
		cacheStore = cache.NewRedisStore(rdb)
		log.Printf("[INFO] Using analysis cache: REDIS")
	} else {
		cacheStore = cache.NewMemoryStore()
		log.Printf("[INFO] Using analysis cache: MEMORY")
	}

	// LLM provider
	llmProvider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.BaseURL,
		cfg.Ai.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 3. AI pipeline
	dealAssembler := dealcontext.NewAssembler(uowFactory)
	contactBuilder := contactcontext.NewBuilder(uowFactory)
	analyzer := signal.NewAnalyzer(dealAssembler, llmProvider, uowFactory, sysLogger)

	// WebSocket hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 4. Services
	publisherService := service.NewPublisherService(analyzeDealTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, analyzeDealTopic, analyzer, uowFactory, cacheStore, natsPub, sysLogger)

	authService := service.NewAuthService(uowFactory, emailService, cfg.Auth, cfg.App.ClientURL)
	contactService := service.NewContactService(uowFactory, natsPub)
	dealService := service.NewDealService(uowFactory, publisherService, natsPub, sysLogger)
	activityService := service.NewActivityService(uowFactory, publisherService, natsPub, sysLogger)
	insightService := service.NewInsightService(analyzer, dealAssembler, contactBuilder, llmProvider, cacheStore, sysLogger)

	// 5. Notification bridge (NATS -> WS)
	var notifService *service.NotificationService
	if natsSub != nil {
		notifService = service.NewNotificationService(natsSub, wsHub, sysLogger)
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(wsHub, cfg.Auth.JWTSecret, sysLogger)

	return &Container{
		HealthController:   controller.NewHealthController(db),
		AuthController:     controller.NewAuthController(authService),
		ContactController:  controller.NewContactController(contactService),
		DealController:     controller.NewDealController(dealService),
		ActivityController: controller.NewActivityController(activityService),
		InsightController:  controller.NewInsightController(insightService),

		ConsumerService:     consumerService,
		NotificationService: notifService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
