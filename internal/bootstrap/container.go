package bootstrap

import (
	"log"

	"multikb-rag-be/internal/config"
	"multikb-rag-be/internal/controller"
	"multikb-rag-be/internal/pkg/logger"
	"multikb-rag-be/internal/repository/memory"
	"multikb-rag-be/internal/repository/unitofwork"
	"multikb-rag-be/internal/service"
	"multikb-rag-be/pkg/embedding"
	"multikb-rag-be/pkg/embedding/jina"
	"multikb-rag-be/pkg/extract"
	"multikb-rag-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	KbController   controller.IKbController
	ChatController controller.IChatController
	ToolController controller.IToolController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Collaborator providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// PDF extraction degrades to unsupported when no OCR service is configured
	ocrClient := extract.NewOcrClient(cfg.Ai.OcrServiceURL)
	if ocrClient == nil {
		log.Printf("[WARN] OCR_SERVICE_URL not set, PDF uploads will be rejected")
	}
	extractor := extract.NewDispatchExtractor(ocrClient)

	// 4. In-memory conversation store
	conversations := memory.NewConversationRepository(cfg.Rag.MaxHistoryTurns)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.App.IngestEventTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IngestEventTopic,
		uowFactory,
		sysLogger,
	)

	routerService := service.NewRouterService(
		uowFactory,
		embeddingProvider,
		cfg.Rag.RouterThreshold,
		sysLogger,
	)
	registryService := service.NewRegistryService(
		uowFactory,
		routerService,
		conversations,
		sysLogger,
	)
	ingestionService := service.NewIngestionService(
		uowFactory,
		registryService,
		routerService,
		extractor,
		embeddingProvider,
		llmProvider,
		publisherService,
		cfg.Rag.ChunkSize,
		cfg.Rag.ChunkOverlap,
		sysLogger,
	)
	chatService := service.NewChatService(
		uowFactory,
		routerService,
		conversations,
		embeddingProvider,
		llmProvider,
		cfg.Rag.DefaultTopK,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		KbController:   controller.NewKbController(registryService, ingestionService),
		ChatController: controller.NewChatController(chatService),
		ToolController: controller.NewToolController(registryService, ingestionService, chatService),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
