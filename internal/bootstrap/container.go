package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"discharge-assist-be/internal/config"
	"discharge-assist-be/internal/constant"
	"discharge-assist-be/internal/controller"
	"discharge-assist-be/internal/pkg/logger"
	"discharge-assist-be/internal/pkg/mailer"
	"discharge-assist-be/internal/repository/implementation"
	"discharge-assist-be/internal/repository/memory"
	"discharge-assist-be/internal/repository/unitofwork"
	"discharge-assist-be/internal/service"
	"discharge-assist-be/pkg/agent/router"
	"discharge-assist-be/pkg/embedding"
	"discharge-assist-be/pkg/events"
	"discharge-assist-be/pkg/llm/factory"
	pkgNats "discharge-assist-be/pkg/nats"
	"discharge-assist-be/pkg/rag/generator"
	"discharge-assist-be/pkg/rag/pipeline"
	"discharge-assist-be/pkg/rag/retriever"
	"discharge-assist-be/pkg/rag/websearch"
	"discharge-assist-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	AgentController   controller.IAgentController
	SearchController  controller.ISearchController
	PatientController controller.IPatientController
	IngestController  controller.IIngestController
	AdminController   controller.IAdminController

	// Background services (main.go runs these)
	ConsumerService service.IConsumerService

	// Shared infrastructure exposed for shutdown
	Logger        logger.ILogger
	NatsPublisher *pkgNats.Publisher
}

// NewContainer wires every dependency once at process start. db may be
// nil: the container then falls back to the in-memory chunk index and
// patient directory so the assistant still runs offline.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// Event bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel, cfg.Ai.EmbeddingDims)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewHashingProvider(cfg.Ai.EmbeddingDims)
		log.Printf("[INFO] Using Embedding Provider: HASHING (offline)")
	}

	// Text-generation backend; degrades to the deterministic mock when
	// no credential is configured.
	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.GrokBaseURL,
		cfg.Keys.Grok,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Storage: pgvector-backed when a database is wired, in-memory
	// otherwise.
	var (
		chunkIndex retriever.Index
		chunkStore service.IChunkStore
		directory  router.PatientDirectory
		patientSvc service.IPatientService
	)
	if db != nil {
		uowFactory := unitofwork.NewRepositoryFactory(db)
		chunkIndex = implementation.NewPgvectorIndex(implementation.NewKnowledgeChunkRepository(db))
		chunkStore = service.NewUowChunkStore(uowFactory)
		directory = service.NewPatientDirectory(uowFactory)
		patientSvc = service.NewPatientService(uowFactory)
	} else {
		log.Printf("[WARN] No database configured, running with in-memory storage")
		memIndex := memory.NewChunkIndex()
		chunkIndex = memIndex
		chunkStore = memIndex
		memDirectory := memory.NewPatientDirectory()
		directory = memDirectory
		patientSvc = service.NewMemoryPatientService(memDirectory)
	}

	sessionRepo := memory.NewSessionRepository()

	// NATS (urgent triage events); best-effort
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.CareTeamEmails,
		)
	}

	// RAG chain
	ret := retriever.NewRetriever(embeddingProvider, chunkIndex, cfg.Ai.SimilarityThreshold, stdLogger)
	gen := generator.NewGenerator(llmProvider, stdLogger)
	searcher := websearch.NewStubSearcher()
	ragPipeline := pipeline.NewPipeline(ret, gen, searcher, cfg.Ai.RetrievalTopK, stdLogger)

	// Conversation router with urgent side effects
	urgentHook := newUrgentHook(sysLogger, natsPub, emailService)
	rt := router.NewRouter(llmProvider, directory, urgentHook, stdLogger)

	// Services
	assistantSvc := service.NewAssistantService(sessionRepo, rt, ragPipeline, searcher, sysLogger)
	publisherSvc := service.NewPublisherService(pubSub, cfg.Keys.IndexChunkTopic)
	ingestionSvc := service.NewIngestionService(publisherSvc, sysLogger)
	consumerSvc := service.NewConsumerService(pubSub, cfg.Keys.IndexChunkTopic, chunkStore, embeddingProvider)

	return &Container{
		SessionController: controller.NewSessionController(assistantSvc),
		AgentController:   controller.NewAgentController(assistantSvc),
		SearchController:  controller.NewSearchController(assistantSvc),
		PatientController: controller.NewPatientController(patientSvc),
		IngestController:  controller.NewIngestController(ingestionSvc),
		AdminController:   controller.NewAdminController(sysLogger),
		ConsumerService:   consumerSvc,
		Logger:            sysLogger,
		NatsPublisher:     natsPub,
	}
}

// newUrgentHook bundles the urgent triage side effects: a Warn-level
// structured log record, a TRIAGE_URGENT event, and an optional alert
// mail. All best-effort.
func newUrgentHook(sysLogger logger.ILogger, natsPub *pkgNats.Publisher, emailService mailer.IEmailService) router.UrgentHook {
	return func(ctx context.Context, session *store.Session, userText string) {
		sysLogger.Warn(constant.ModuleTriage, "urgent triage", map[string]interface{}{
			"session_id": session.ID,
			"patient_id": session.PatientID,
			"user_input": userText,
		})

		if natsPub != nil {
			evt := events.UrgentTriage{
				SessionID:  session.ID,
				PatientID:  session.PatientID,
				UserInput:  userText,
				OccurredAt: time.Now(),
			}
			if err := natsPub.Publish(ctx, evt); err != nil {
				sysLogger.Error(constant.ModuleTriage, "failed to publish urgent event", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
			}
		}

		if emailService != nil {
			patientName := ""
			if session.Patient != nil {
				patientName = session.Patient.Name
			}
			if err := emailService.SendUrgentAlert(session.ID, patientName, userText); err != nil {
				sysLogger.Error(constant.ModuleTriage, "failed to send urgent alert mail", map[string]interface{}{
					"session_id": session.ID,
					"error":      err.Error(),
				})
			}
		}
	}
}
