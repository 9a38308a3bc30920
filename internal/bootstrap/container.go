package bootstrap

import (
	"log"

	"tree-editor-be/internal/config"
	"tree-editor-be/internal/controller"
	"tree-editor-be/internal/handler"
	"tree-editor-be/internal/pkg/logger"
	"tree-editor-be/internal/repository/memory"
	"tree-editor-be/internal/repository/unitofwork"
	"tree-editor-be/internal/service"
	"tree-editor-be/internal/tree/gormtree"
	"tree-editor-be/internal/websocket"

	pktNats "tree-editor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NodeController controller.INodeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Live Updates
	TreeEventsHandler *handler.TreeEventsHandler
	WebSocketHub      *websocket.Hub
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

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	// 4. Tree Engine & Sessions
	if cfg.Tree.OrderByName {
		log.Println("[INFO] Sibling ordering: by node name (sorted mode)")
	} else {
		log.Println("[INFO] Sibling ordering: explicit positions")
	}
	engineFactory := gormtree.NewFactory(uowFactory, cfg.Tree.OrderByName)
	sessionRepo := memory.NewEditSessionRepository()

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Events.TreeChangedTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Events.TreeChangedTopic,
		natsPub,
		wsHub,
		sysLogger,
	)

	nodeService := service.NewNodeService(engineFactory, publisherService, sysLogger)
	editService := service.NewNodeEditService(engineFactory, sessionRepo, publisherService, sysLogger)

	// 6. Controllers & Handlers
	nodeController := controller.NewNodeController(nodeService, editService)
	treeEventsHandler := handler.NewTreeEventsHandler(wsHub, sysLogger)

	return &Container{
		NodeController:    nodeController,
		ConsumerService:   consumerService,
		TreeEventsHandler: treeEventsHandler,
		WebSocketHub:      wsHub,
	}
}
