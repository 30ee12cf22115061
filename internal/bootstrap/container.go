package bootstrap

import (
	"context"
	"fmt"
	"log"

	"accio-playground-be/internal/config"
	"accio-playground-be/internal/controller"
	"accio-playground-be/internal/handler"
	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/internal/repository/memory"
	"accio-playground-be/internal/repository/unitofwork"
	"accio-playground-be/internal/service"
	"accio-playground-be/internal/websocket"
	"accio-playground-be/pkg/codegen"
	"accio-playground-be/pkg/llm/factory"
	pktNats "accio-playground-be/pkg/nats"
	"accio-playground-be/pkg/turnlock"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionEventsTopic is the in-process watermill topic carrying session events.
const SessionEventsTopic = "session.events"

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	SessionController controller.ISessionController
	WsHandler         *handler.WsHandler

	// Background services, started by Start
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger
	DB     *gorm.DB

	eventsLogger *logger.ZapLogger
	sysLogger    *logger.ZapLogger
	pubSub       *gochannel.GoChannel
	natsPub      *pktNats.Publisher
	rdb          *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	eventsLogger := logger.NewIsolatedLogger(cfg.App.EventsLogFilePath)

	// 2. Optional infrastructure
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = pub
		}
	}

	// 3. Generation
	baseURL := cfg.Ai.OpenRouterBaseURL
	if cfg.Ai.LLMProvider == "ollama" {
		baseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(factory.Params{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  baseURL,
		APIKey:   cfg.Ai.OpenRouterAPIKey,
		Referer:  cfg.App.ClientURL,
		AppTitle: cfg.Ai.AppTitle,
		Timeout:  cfg.Ai.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	generator := codegen.NewGenerator(llmProvider, sysLogger,
		codegen.WithMaxTokens(cfg.Ai.MaxTokens),
		codegen.WithTemperature(cfg.Ai.Temperature),
	)

	locker, err := turnlock.New(cfg.Chat.TurnLock, rdb, cfg.Chat.TurnLockTTL, cfg.Chat.TurnLockWait)
	if err != nil {
		return nil, fmt.Errorf("init turn lock: %w", err)
	}

	// 4. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	wsHub := websocket.NewHub(rdb, eventsLogger)

	// A nil *Publisher must not become a non-nil interface.
	var sink service.EventSink
	if natsPub != nil {
		sink = natsPub
	}

	publisherService := service.NewPublisherService(pubSub, SessionEventsTopic)
	consumerService := service.NewConsumerService(pubSub, SessionEventsTopic, wsHub, sink, eventsLogger)

	// 5. Services
	chatService := service.NewChatService(uowFactory, generator, locker, publisherService, sysLogger)
	sessionService := service.NewSessionService(uowFactory, publisherService, sysLogger)
	modelService := service.NewModelService(
		llmProvider,
		memory.NewModelCatalogCache(cfg.Ai.ModelCatalogTTL),
		cfg.Ai.LLMProvider,
		sysLogger,
	)

	return &Container{
		ChatController:    controller.NewChatController(chatService, modelService, cfg.Auth.JwtSecret),
		SessionController: controller.NewSessionController(sessionService, cfg.Auth.JwtSecret),
		WsHandler:         handler.NewWsHandler(wsHub, cfg.Auth.JwtSecret, eventsLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,

		Logger: sysLogger,
		DB:     db,

		eventsLogger: eventsLogger,
		sysLogger:    sysLogger,
		pubSub:       pubSub,
		natsPub:      natsPub,
		rdb:          rdb,
	}, nil
}

// Start runs the websocket hub and the event consumer until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	if err := c.WebSocketHub.Start(ctx); err != nil {
		return fmt.Errorf("start websocket hub: %w", err)
	}
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start event consumer: %w", err)
	}
	return nil
}

// Close releases every external handle. The database pool is owned by the caller.
func (c *Container) Close() {
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close event bus: %v", err)
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			log.Printf("[WARN] Failed to close Redis client: %v", err)
		}
	}
	_ = c.eventsLogger.Sync()
	_ = c.sysLogger.Sync()
}
