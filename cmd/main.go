package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"widgetbot/internal/config"
	"widgetbot/internal/infrastructure"
	"widgetbot/internal/interfaces"
	httpapi "widgetbot/internal/interfaces/http"
	"widgetbot/internal/repository"
	"widgetbot/internal/usecases"
	"widgetbot/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Load()

	// Store. A missing DATABASE_URL degrades store-backed endpoints to 503
	// instead of refusing to start.
	var (
		bots          interfaces.BotStore
		customers     interfaces.CustomerStore
		conversations interfaces.ConversationStore
		orders        interfaces.OrderStore
		users         interfaces.UserStore
	)
	if cfg.HasStore() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pgClient, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pgClient.Close()

		bots = repository.NewBotRepository(pgClient.Pool)
		customers = repository.NewCustomerRepository(pgClient.Pool)
		conversations = repository.NewConversationRepository(pgClient.Pool)
		orders = repository.NewOrderRepository(pgClient.Pool)
		users = repository.NewUserRepository(pgClient.Pool)
	} else {
		logger.Warn("DATABASE_URL not set; store-backed endpoints will return 503")
	}

	var ai interfaces.AIClient
	if cfg.HasCompletion() {
		ai = infrastructure.NewCompletionClient(cfg.CompletionAPIKey, cfg.CompletionBaseURL, cfg.CompletionModel)
	} else {
		logger.Warn("COMPLETION_API_KEY not set; chat endpoints will return 503")
	}

	var messenger interfaces.Messenger
	if cfg.HasWhatsApp() {
		messenger = infrastructure.NewWhatsAppBusinessClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID)
	} else {
		logger.Warn("WhatsApp credentials not set; webhook messages will be acked and ignored")
	}

	var chatService *usecases.ChatService
	if bots != nil && ai != nil {
		chatService = usecases.NewChatService(bots, ai)
	}

	var webhookService *usecases.WebhookService
	if customers != nil && ai != nil && messenger != nil {
		webhookService = usecases.NewWebhookService(
			customers, conversations, orders, ai, messenger,
			cfg.OrderPageURL, cfg.TypingDelay, cfg.ButtonDelay, logger,
		)
	}

	var authUsecase *usecases.AuthUsecase
	if users != nil {
		authUsecase = usecases.NewAuthUsecase(users, cfg.JWTSecret)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := authUsecase.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Warn("failed to ensure admin user", "error", err)
		}
		cancel()
	}

	r := gin.Default()
	handler := httpapi.NewHandler(cfg, bots, chatService, webhookService, authUsecase, logger)
	middleware := httpapi.NewMiddleware(cfg.JWTSecret)
	httpapi.SetupRoutes(r, handler, middleware)

	// Widget assets ship inside the binary.
	staticFS := http.FS(web.Static())
	r.StaticFileFS("/", "demo.html", staticFS)
	r.StaticFileFS("/widget.js", "widget.js", staticFS)

	logger.Info("listening", "port", cfg.Port)
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
