package bootstrap

import (
	"context"
	"log"
	"os"

	"ship-consultant-be/internal/config"
	"ship-consultant-be/internal/constant"
	"ship-consultant-be/internal/controller"
	"ship-consultant-be/internal/pkg/logger"
	"ship-consultant-be/internal/pkg/mailer"
	"ship-consultant-be/internal/repository/memory"
	"ship-consultant-be/internal/repository/unitofwork"
	"ship-consultant-be/internal/service"
	"ship-consultant-be/pkg/catalog"
	"ship-consultant-be/pkg/consultant"
	"ship-consultant-be/pkg/embedding"
	"ship-consultant-be/pkg/llm/factory"
	pktNats "ship-consultant-be/pkg/nats"
	"ship-consultant-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConsultantController controller.IConsultantController
	ShipController       controller.IShipController

	// Background services (exposed for main.go to run)
	ConsumerService   service.IConsumerService
	ConsultantService service.IConsultantService
	ShipService       service.IShipService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (lifecycle analytics); the app runs without it
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis (embedding cache); cache is skipped when unreachable
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (embedding cache disabled)", err)
		redisUp = false
	}

	// 3. AI collaborators
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}
	if redisUp {
		embeddingProvider = embedding.NewCachedProvider(embeddingProvider, rdb)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Anthropic,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.LLMProvider)

	// 4. Retrieval core
	index := catalog.NewIndex(cfg.Ai.EmbeddingDim)
	engine := retrieval.NewEngine(
		embeddingProvider,
		index,
		cfg.Consultant.MinConfidence,
		cfg.Consultant.CollaboratorTimeout,
		stdLogger,
	)
	orchestrator := consultant.NewOrchestrator(
		llmProvider,
		engine,
		cfg.Consultant.CollaboratorTimeout,
		stdLogger,
	)

	sessionRepo := memory.NewSessionRepository(cfg.Consultant.SessionTTL)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, constant.FleetGuideTopicName)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.FleetGuideTopicName,
		uowFactory,
		emailService,
		sysLogger,
	)

	shipService := service.NewShipService(
		uowFactory,
		embeddingProvider,
		index,
		engine,
		sysLogger,
	)

	consultantService := service.NewConsultantService(
		uowFactory,
		sessionRepo,
		orchestrator,
		publisherService,
		natsPub,
		sysLogger,
		cfg.Consultant.IdleTimeout,
		cfg.Consultant.SweepInterval,
	)

	// Analytics worker over the durable event stream. Gets its own file-only
	// logger so the event feed stays out of the main log.
	if natsSub != nil {
		analyticsLogger := logger.NewIsolatedLogger(cfg.App.AnalyticsLogPath)
		analyticsService := service.NewAnalyticsService(natsSub, analyticsLogger)
		go analyticsService.Start()
	}

	// 6. Controllers
	consultantController := controller.NewConsultantController(consultantService)
	shipController := controller.NewShipController(shipService)

	return &Container{
		ConsultantController: consultantController,
		ShipController:       shipController,
		ConsumerService:      consumerService,
		ConsultantService:    consultantService,
		ShipService:          shipService,
	}
}
