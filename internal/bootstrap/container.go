package bootstrap

import (
	"context"
	"log"

	"redis-copilot-be/internal/config"
	"redis-copilot-be/internal/constant"
	"redis-copilot-be/internal/controller"
	"redis-copilot-be/internal/pkg/logger"
	"redis-copilot-be/internal/repository/memory"
	"redis-copilot-be/internal/repository/unitofwork"
	"redis-copilot-be/internal/service"
	"redis-copilot-be/pkg/assistant/dbcontext"
	"redis-copilot-be/pkg/assistant/query"
	"redis-copilot-be/pkg/assistant/socket"
	"redis-copilot-be/pkg/database"

	pktNats "redis-copilot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	AgreementController controller.IAgreementController
	DatabaseController  controller.IDatabaseController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Assistant Infrastructure
	redisManager := database.NewRedisManager()
	contextStore := memory.NewContextRepository()
	contextProvider := dbcontext.NewProvider(contextStore, dbcontext.NewRedisBuilder(), sysLogger)

	allowedCommands := cfg.Assistant.AllowedCommands
	if len(allowedCommands) == 0 {
		allowedCommands = constant.DefaultAllowedCommands
	}
	queryExecutor := query.NewExecutor(
		query.NewGuard(allowedCommands),
		cfg.Assistant.QueryReplyMaxResults,
		cfg.Assistant.QueryReplyMaxNested,
	)

	// Protocol traffic gets its own file so chunk-level noise stays out of
	// the main application log.
	socketLogger := logger.NewIsolatedLogger("logs/assistant.log")
	socketFactory := socket.NewFactory(cfg.Assistant.BackendURL, socketLogger)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Assistant.TurnCompletedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Assistant.TurnCompletedTopic,
		natsPub,
		sysLogger,
	)

	assistantService := service.NewAssistantService(
		uowFactory,
		socketFactory,
		redisManager,
		contextProvider,
		contextStore,
		queryExecutor,
		publisherService,
		sysLogger,
	)
	// The backend invalidates sessions in place; the same credentials are
	// re-presented once on an expired-session rejection.
	assistantService = service.NewRetryAssistantService(assistantService,
		func(ctx context.Context, stale *socket.Auth) (*socket.Auth, error) {
			return stale, nil
		},
		sysLogger,
	)

	agreementService := service.NewAgreementService(uowFactory, contextStore)
	databaseService := service.NewDatabaseService(uowFactory, redisManager, contextStore)

	// 5. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		AgreementController: controller.NewAgreementController(agreementService),
		DatabaseController:  controller.NewDatabaseController(databaseService),

		ConsumerService: consumerService,
	}
}
