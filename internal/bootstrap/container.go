package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rmf-policy-be/internal/config"
	"rmf-policy-be/internal/constant"
	"rmf-policy-be/internal/controller"
	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/internal/repository/implementation"
	"rmf-policy-be/internal/repository/memory"
	"rmf-policy-be/internal/service"
	"rmf-policy-be/internal/websocket"
	"rmf-policy-be/pkg/embedding"
	"rmf-policy-be/pkg/embedding/jina"
	"rmf-policy-be/pkg/events"
	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/llm/factory"
	pktNats "rmf-policy-be/pkg/nats"
	"rmf-policy-be/pkg/policy/checklist"
	"rmf-policy-be/pkg/policy/validator"
	"rmf-policy-be/pkg/questionnaire"
	"rmf-policy-be/pkg/rag/corpus"
	"rmf-policy-be/pkg/rag/response"
	"rmf-policy-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	ChatController   controller.IChatController
	PolicyController controller.IPolicyController
	HealthController *controller.HealthController

	// Background services, started by Start
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService
	WebSocketHub        *websocket.Hub

	closers []func() error
}

// NewContainer wires every dependency. db may be nil, in which case the
// corpus is indexed in memory and transcripts go to the transcript log.
// Startup problems that make the service useless (question bank, corpus,
// provider config) are returned as errors.
func NewContainer(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	transcriptLogger := logger.NewIsolatedLogger(cfg.App.TranscriptLogPath)
	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, transcriptLogger.Sync)

	prompts, err := config.LoadPrompts(cfg.Paths.PromptsFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyModels(prompts)

	// 2. Providers
	llmProvider, err := newLLMProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	llmProvider = llm.WithRetry(llmProvider, cfg.Ai.MaxAttempts, sysLogger)
	sysLogger.Info("Bootstrap", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	embeddingProvider, err := newEmbeddingProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize embedding provider: %w", err)
	}
	sysLogger.Info("Bootstrap", "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
	})

	// 3. Knowledge
	bank, err := questionnaire.LoadFile(cfg.Paths.QuestionsFile, questionnaire.RandomPicker)
	if err != nil {
		return nil, err
	}

	passages, err := corpus.LoadFile(cfg.Paths.CorpusFile)
	if err != nil {
		return nil, err
	}

	var corpusRepo contract.CorpusRepository
	var transcriptRepo contract.TranscriptRepository
	if db != nil {
		corpusRepo = implementation.NewCorpusRepository(db)
		transcriptRepo = implementation.NewTranscriptRepository(db)
	} else {
		corpusRepo = memory.NewCorpusRepository()
	}

	indexed, err := corpus.NewIndexer(corpusRepo, embeddingProvider, sysLogger).EnsureIndexed(ctx, passages)
	if err != nil {
		return nil, fmt.Errorf("index corpus: %w", err)
	}
	sysLogger.Info("Bootstrap", "Corpus ready", map[string]interface{}{
		"passages": len(passages),
		"indexed":  indexed,
	})

	template, err := os.ReadFile(cfg.Paths.TemplateFile)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Policy template unavailable", map[string]interface{}{
			"path":  cfg.Paths.TemplateFile,
			"error": err.Error(),
		})
	}

	// 4. Infrastructure
	rdb := connectRedis(ctx, cfg, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, rdb.Close)
	}

	var sessionRepo contract.SessionRepository
	var locker service.UserLocker
	switch cfg.Session.Store {
	case "redis":
		if rdb == nil {
			return nil, errors.New("SESSION_STORE=redis but redis is unreachable")
		}
		sessionRepo = implementation.NewRedisSessionRepository(rdb, cfg.Session.TTL)
		// Instances share sessions, so they must share the per-user lock too.
		locker = service.NewRedisLock(rdb, 0, sysLogger)
	default:
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL)
	}

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	publishers := events.MultiPublisher{events.NewWatermillPublisher(pubSub, constant.TranscriptTopic)}

	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			publishers = append(publishers, natsPub)
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}

		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
			natsSub = nil
		} else {
			sub := natsSub
			c.closers = append(c.closers, func() error { sub.Close(); return nil })
		}
	}

	c.WebSocketHub = websocket.NewHub(rdb, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, constant.TranscriptTopic, transcriptRepo, transcriptLogger, sysLogger)
	if natsSub != nil {
		c.NotificationService = service.NewNotificationService(natsSub, c.WebSocketHub, sysLogger)
	}

	// 5. Services
	answerer := response.NewGenerator(
		search.NewRetriever(corpusRepo, embeddingProvider),
		llmProvider,
		prompts.SystemPrompts.Generic,
		cfg.Ai.GenericModel,
	)

	chatService := service.NewChatService(service.ChatServiceDeps{
		Sessions:  sessionRepo,
		Bank:      bank,
		Embedder:  embeddingProvider,
		Validator: validator.New(llmProvider, prompts.SystemPrompts.Validator, cfg.Ai.ValidatorModel, sysLogger),
		Advisor:   validator.NewAdvisor(llmProvider, prompts.SystemPrompts.Policy, cfg.Ai.QueryAgentModel, sysLogger),
		Assembler: checklist.NewAssembler(llmProvider, cfg.Ai.PolicyModel, string(template), sysLogger),
		Answerer:  answerer,
		Publisher: publishers,
		Locker:    locker,
		Logger:    sysLogger,
	})

	// 6. Controllers
	c.ChatController = controller.NewChatController(chatService, c.WebSocketHub, cfg.App.StreamDelay, sysLogger)
	c.PolicyController = controller.NewPolicyController(chatService)
	c.HealthController = controller.NewHealthController()

	return c, nil
}

// Start runs the background services until ctx is cancelled.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start transcript consumer: %w", err)
	}

	if c.NotificationService != nil {
		if err := c.NotificationService.Start(ctx); err != nil {
			c.Logger.Warn("Bootstrap", "Policy notifications disabled", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}

func newLLMProvider(cfg *config.Config) (llm.LLMProvider, error) {
	params := factory.Params{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMBaseURL,
	}
	switch cfg.Ai.LLMProvider {
	case "ollama":
		if params.BaseURL == "" {
			params.BaseURL = cfg.Ai.OllamaBaseURL
		}
	case "openai":
		params.APIKey = cfg.Keys.OpenAI
	case "anthropic":
		params.APIKey = cfg.Keys.Anthropic
	}
	return factory.NewLLMProvider(params)
}

func newEmbeddingProvider(ctx context.Context, cfg *config.Config) (embedding.EmbeddingProvider, error) {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel), nil
	case "gemini":
		return embedding.NewGeminiProvider(ctx, cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
	case "jina":
		if cfg.Keys.Jina == "" {
			return nil, errors.New("jina embedding provider requires JINA_API_KEY")
		}
		return jina.NewJinaProvider(cfg.Keys.Jina, "", cfg.Ai.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Ai.EmbeddingProvider)
	}
}

// connectRedis returns nil when no URL is set or the server does not answer.
func connectRedis(ctx context.Context, cfg *config.Config, log logger.ILogger) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis unavailable", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
