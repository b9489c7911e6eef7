package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"widgetbot/internal/config"
	"widgetbot/internal/entities"
	"widgetbot/internal/interfaces"
	"widgetbot/internal/usecases"
)

// Static operator-facing responses. Internal detail stays in the logs.
const (
	msgStoreUnavailable = "Database not configured"
	msgAIUnavailable    = "AI service not configured"
	msgAIAuthFailure    = "AI service is not configured correctly"
	msgAIQuotaFailure   = "AI service is temporarily over capacity. Please try again later."
	msgAIGenericFailure = "Failed to generate a reply. Please try again."
)

type Handler struct {
	cfg     *config.Config
	bots    interfaces.BotStore
	chat    *usecases.ChatService
	webhook *usecases.WebhookService
	auth    *usecases.AuthUsecase
	logger  *slog.Logger
}

func NewHandler(
	cfg *config.Config,
	bots interfaces.BotStore,
	chat *usecases.ChatService,
	webhook *usecases.WebhookService,
	auth *usecases.AuthUsecase,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		cfg:     cfg,
		bots:    bots,
		chat:    chat,
		webhook: webhook,
		auth:    auth,
		logger:  logger,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, m *Middleware) {
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20)) // 1MB max request size
	r.Use(m.CORSMiddleware())

	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/get-bot", h.GetBot)
		api.POST("/chat", m.RateLimitPerClient(rate.Limit(2), 5), h.Chat)
		api.POST("/auth/login", h.Login)
	}

	// Bot management requires a signed-in operator.
	manage := api.Group("")
	manage.Use(m.AuthRequired())
	{
		manage.POST("/create-bot", h.CreateBot)
		manage.GET("/list-bots", h.ListBots)
		manage.PUT("/update-bot/:id", h.UpdateBot)
		manage.DELETE("/delete-bot/:id", h.DeleteBot)
	}

	r.GET("/webhook/whatsapp", h.VerifyWebhook)
	r.POST("/webhook/whatsapp", h.ReceiveWebhook)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found", "path": c.Request.URL.Path})
	})
}

// Health reports liveness plus per-dependency configuration flags. Never fails.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"store":    h.cfg.HasStore(),
		"ai":       h.cfg.HasCompletion(),
		"whatsapp": h.cfg.HasWhatsApp(),
	})
}

func (h *Handler) GetBot(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing bot id"})
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot id"})
		return
	}
	if h.bots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
		return
	}

	bot, err := h.bots.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get bot failed", "id", id, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		return
	}
	if bot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		return
	}
	c.JSON(http.StatusOK, bot)
}

func (h *Handler) Chat(c *gin.Context) {
	var payload struct {
		Message string `json:"message"`
		BotID   string `json:"botId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	payload.Message = SanitizeString(payload.Message)
	if payload.Message == "" || payload.BotID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing message or botId"})
		return
	}
	if !ValidateLength(payload.Message, 1, MaxMessageLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message too long"})
		return
	}
	if !h.cfg.HasStore() || h.chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
		return
	}
	if !h.cfg.HasCompletion() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgAIUnavailable})
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), payload.BotID, payload.Message)
	if err != nil {
		h.logger.Error("chat failed", "bot_id", payload.BotID, "error", err)
		switch {
		case errors.Is(err, usecases.ErrBotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		case errors.Is(err, interfaces.ErrAIUnauthorized):
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgAIAuthFailure})
		case errors.Is(err, interfaces.ErrAIQuotaExceeded):
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgAIQuotaFailure})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgAIGenericFailure})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply, "success": true})
}

func (h *Handler) CreateBot(c *gin.Context) {
	var payload struct {
		Name     string `json:"name"`
		Greeting string `json:"greeting"`
		Context  string `json:"context"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if payload.Name == "" || payload.Greeting == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name or greeting"})
		return
	}
	if !ValidateLength(payload.Name, 1, MaxNameLength) ||
		!ValidateLength(payload.Greeting, 1, MaxGreetingLength) ||
		!ValidateLength(payload.Context, 0, MaxContextLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field too long"})
		return
	}
	if h.bots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
		return
	}

	bot := &entities.Bot{
		Name:     SanitizeString(payload.Name),
		Greeting: SanitizeString(payload.Greeting),
		Context:  SanitizeString(payload.Context),
	}
	if err := h.bots.Create(c.Request.Context(), bot); err != nil {
		h.logger.Error("create bot failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": bot.ID, "bot": bot})
}

func (h *Handler) ListBots(c *gin.Context) {
	if h.bots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
		return
	}

	bots, err := h.bots.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list bots failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bots"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bots": bots})
}

func (h *Handler) UpdateBot(c *gin.Context) {
	if h.bots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
		return
	}

	var upd entities.BotUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	bot, err := h.bots.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.logger.Error("update bot failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bot"})
		return
	}
	if bot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bot": bot})
}

func (h *Handler) DeleteBot(c *gin.Context) {
	if h.bots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
		return
	}

	if err := h.bots.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("delete bot failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if h.auth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgStoreUnavailable})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), loginReq.Username, loginReq.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
