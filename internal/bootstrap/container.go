package bootstrap

import (
	"log"

	"marketmind-be/internal/config"
	"marketmind-be/internal/controller"
	"marketmind-be/internal/pkg/logger"
	"marketmind-be/internal/pkg/serverutils"
	"marketmind-be/internal/pkg/token"
	"marketmind-be/internal/repository/contract"
	"marketmind-be/internal/repository/implementation"
	"marketmind-be/internal/repository/memory"
	"marketmind-be/internal/service"
	"marketmind-be/pkg/chatbot"
	pktNats "marketmind-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	ChatController controller.IChatController

	// Middleware guarding the chat routes
	SessionMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	UsageConsumerService service.IUsageConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// 2. Storage
	var chatRepo contract.ChatSessionRepository
	if db != nil {
		chatRepo = implementation.NewChatSessionRepository(db)
	} else {
		log.Println("[WARN] No database configured, chat history is in-memory only")
		chatRepo = memory.NewChatSessionRepository()
	}

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (optional; onboarding events only)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 4. Provider
	geminiChatbot := chatbot.NewGeminiChatbot(cfg.Gemini)

	// 5. Services
	authService := service.NewAuthService(codec, natsPub)
	chatService := service.NewChatService(chatRepo, geminiChatbot, pubSub, cfg.App.UsageTopic, sysLogger)
	usageConsumerService := service.NewUsageConsumerService(pubSub, cfg.App.UsageTopic, sysLogger)

	// 6. Middleware
	verifiedTokens := cache.New(cfg.Auth.TokenCacheTTL, 2*cfg.Auth.TokenCacheTTL)
	sessionMiddleware := serverutils.SessionMiddleware(codec, cfg.Auth.CookieName, verifiedTokens)

	return &Container{
		AuthController:    controller.NewAuthController(authService, cfg.Auth, cfg.App.Environment == "production"),
		ChatController:    controller.NewChatController(chatService),
		SessionMiddleware: sessionMiddleware,

		UsageConsumerService: usageConsumerService,
		Logger:               sysLogger,
	}
}
