package bootstrap

import (
	"context"
	"io"
	"log"
	"os"

	"hybrid-chatbot-be/internal/config"
	"hybrid-chatbot-be/internal/controller"
	"hybrid-chatbot-be/internal/pkg/logger"
	"hybrid-chatbot-be/internal/pkg/mailer"
	"hybrid-chatbot-be/internal/repository/contract"
	"hybrid-chatbot-be/internal/repository/memory"
	redisrepo "hybrid-chatbot-be/internal/repository/redis"
	"hybrid-chatbot-be/internal/repository/unitofwork"
	"hybrid-chatbot-be/internal/service"
	"hybrid-chatbot-be/pkg/ai/pipeline"
	"hybrid-chatbot-be/pkg/ai/router"
	"hybrid-chatbot-be/pkg/convo"
	"hybrid-chatbot-be/pkg/embedding"
	"hybrid-chatbot-be/pkg/embedding/jina"
	"hybrid-chatbot-be/pkg/llm"
	"hybrid-chatbot-be/pkg/llm/factory"
	"hybrid-chatbot-be/pkg/rag/intent"
	"hybrid-chatbot-be/pkg/rag/response"
	"hybrid-chatbot-be/pkg/rag/search"

	pktNats "hybrid-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	IntakeController   controller.IIntakeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	NotifierService service.INotifierService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// LLM/RAG traffic is chatty; keep its trace in its own rotated file
	// alongside stdout.
	llmTrace := &lumberjack.Logger{
		Filename:   "logs/llm_rag.log",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	pipelineLogger := log.New(io.MultiWriter(os.Stdout, llmTrace), "", log.LstdFlags)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.EmbeddingAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.EmbeddingAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		GroqAPIKey:    cfg.Ai.GroqAPIKey,
		GroqBaseURL:   cfg.Ai.GroqBaseURL,
		HFAPIKey:      cfg.Ai.HFAPIKey,
		HFBaseURL:     cfg.Ai.HFBaseURL,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// The classifier can run a cheaper model than the generator
	classifierProvider := llmProvider
	if cfg.Ai.ClassifierModel != "" && cfg.Ai.ClassifierModel != cfg.Ai.LLMModel {
		classifierProvider = mustProvider(factory.NewLLMProvider(factory.Config{
			Provider:      cfg.Ai.LLMProvider,
			Model:         cfg.Ai.ClassifierModel,
			OllamaBaseURL: cfg.Ai.OllamaBaseURL,
			GroqAPIKey:    cfg.Ai.GroqAPIKey,
			GroqBaseURL:   cfg.Ai.GroqBaseURL,
			HFAPIKey:      cfg.Ai.HFAPIKey,
			HFBaseURL:     cfg.Ai.HFBaseURL,
		}))
	}

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	var sessionRepo contract.SessionRepository
	if cfg.Session.Backend == "redis" {
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
		sessionRepo = redisrepo.NewSessionRepository(rdb, cfg.Session.TTL, pipelineLogger)
		log.Printf("[INFO] Using Session Backend: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL)
		log.Printf("[INFO] Using Session Backend: MEMORY (TTL %s)", cfg.Session.TTL)
	}

	// 5. Conversation Capabilities
	engine := convo.NewEngine(convo.DefaultScript(), cfg.Ai.KnowledgeTopic, pipelineLogger)

	classifier := intent.NewClassifier(classifierProvider, cfg.Ai.KnowledgeTopic, pipelineLogger)
	orchestrator := search.NewOrchestrator(embeddingProvider, pipelineLogger)
	generator := response.NewGenerator(llmProvider, cfg.Ai.KnowledgeTopic, pipelineLogger)

	searchConfig := search.Config{
		Threshold: cfg.Ai.SearchThreshold,
		TopK:      cfg.Ai.SearchTopK,
	}
	ragPipeline := pipeline.NewRAGPipeline(orchestrator, generator, searchConfig, pipelineLogger)
	bypassPipeline := pipeline.NewBypassPipeline(generator, pipelineLogger)
	aiRouter := router.NewRouter(classifier, ragPipeline, bypassPipeline, pipelineLogger)

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ai.EmbedDocumentTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbedDocumentTopic,
		uowFactory,
		embeddingProvider,
	)

	chatService := service.NewChatService(sessionRepo, engine, aiRouter, uowFactory, natsPub, sysLogger)
	documentService := service.NewDocumentService(uowFactory, publisherService, embeddingProvider, natsPub, sysLogger)
	intakeService := service.NewIntakeService(uowFactory)

	var notifierService service.INotifierService
	if natsSub != nil {
		notifierService = service.NewNotifierService(natsSub, emailService, cfg.SMTP.NotifyRecipient, sysLogger)
	}

	// 7. Controllers
	chatController := controller.NewChatController(chatService)
	documentController := controller.NewDocumentController(documentService)
	intakeController := controller.NewIntakeController(intakeService)

	return &Container{
		ChatController:     chatController,
		DocumentController: documentController,
		IntakeController:   intakeController,
		ConsumerService:    consumerService,
		NotifierService:    notifierService,
		Logger:             sysLogger,
	}
}

func mustProvider(p llm.LLMProvider, err error) llm.LLMProvider {
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	return p
}
