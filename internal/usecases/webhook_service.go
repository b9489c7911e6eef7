package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"widgetbot/internal/entities"
	"widgetbot/internal/interfaces"
)

const (
	defaultHistoryLimit = 5

	apologyMessage = "Sorry, something went wrong on our side. Please try again in a moment. 🙏"

	orderButtonBody    = "Tap the button below to place your order 👇"
	orderButtonDisplay = "Place Order"
)

const orderPromptTemplate = `You are a cheerful assistant for a food business, helping a customer place an order.
The customer's name is %s. %s
Write one short, enthusiastic message (two sentences at most) telling them you can help them order right away. Do not include any links; a button will follow your message.`

const generalPromptTemplate = `You are a friendly assistant for a food business, chatting with a customer named %s over WhatsApp.
Answer briefly and warmly. If you do not know something, say so and suggest asking about the menu or placing an order.%s`

// WebhookService runs the inbound WhatsApp pipeline after the webhook handler
// has already acknowledged the delivery. Delays are named configuration so
// tests can zero them.
type WebhookService struct {
	Customers     interfaces.CustomerStore
	Conversations interfaces.ConversationStore
	Orders        interfaces.OrderStore
	AI            interfaces.AIClient
	Messenger     interfaces.Messenger

	OrderPageURL string
	TypingDelay  time.Duration
	ButtonDelay  time.Duration
	HistoryLimit int

	Logger *slog.Logger
}

func NewWebhookService(
	customers interfaces.CustomerStore,
	conversations interfaces.ConversationStore,
	orders interfaces.OrderStore,
	ai interfaces.AIClient,
	messenger interfaces.Messenger,
	orderPageURL string,
	typingDelay, buttonDelay time.Duration,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		Customers:     customers,
		Conversations: conversations,
		Orders:        orders,
		AI:            ai,
		Messenger:     messenger,
		OrderPageURL:  orderPageURL,
		TypingDelay:   typingDelay,
		ButtonDelay:   buttonDelay,
		HistoryLimit:  defaultHistoryLimit,
		Logger:        logger,
	}
}

// ProcessMessage handles one inbound message end to end. Failures never reach
// the platform; the customer gets a fixed apology instead.
func (s *WebhookService) ProcessMessage(ctx context.Context, msg entities.InboundMessage) {
	seen, err := s.Conversations.MarkProcessed(ctx, msg.MessageID)
	if err != nil {
		s.Logger.Error("webhook idempotency check failed", "message_id", msg.MessageID, "error", err)
	} else if seen {
		s.Logger.Info("dropping redelivered message", "message_id", msg.MessageID)
		return
	}

	if err := s.process(ctx, msg); err != nil {
		s.Logger.Error("webhook pipeline failed", "from", msg.From, "error", err)
		if sendErr := s.Messenger.SendText(ctx, msg.From, apologyMessage); sendErr != nil {
			s.Logger.Error("apology send failed", "from", msg.From, "error", sendErr)
		}
	}
}

func (s *WebhookService) process(ctx context.Context, msg entities.InboundMessage) error {
	if err := s.Messenger.MarkRead(ctx, msg.MessageID); err != nil {
		// Read receipts are cosmetic; keep going.
		s.Logger.Warn("read receipt failed", "message_id", msg.MessageID, "error", err)
	}
	s.sleep(ctx, s.TypingDelay)

	intent := ClassifyIntent(msg.Content)

	var name *string
	if msg.ProfileName != "" {
		name = &msg.ProfileName
	}
	customer, returning, err := s.Customers.Upsert(ctx, msg.From, name)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}

	if err := s.Conversations.Append(ctx, &entities.ConversationEntry{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Direction:  entities.DirectionIncoming,
		Content:    msg.Content,
	}); err != nil {
		return fmt.Errorf("log incoming message: %w", err)
	}

	limit := s.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	history, err := s.Conversations.Recent(ctx, customer.Phone, limit)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	var reply string
	switch intent {
	case IntentOrder:
		reply, err = s.handleOrder(ctx, customer, returning)
	default:
		reply, err = s.handleGeneral(ctx, customer, msg.Content, history)
	}
	if err != nil {
		return err
	}

	if err := s.Conversations.Append(ctx, &entities.ConversationEntry{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Direction:  entities.DirectionOutgoing,
		Content:    reply,
	}); err != nil {
		return fmt.Errorf("log outgoing message: %w", err)
	}

	s.Logger.Info("processed message", "from", customer.Phone, "intent", intent.String())
	return nil
}

func (s *WebhookService) handleOrder(ctx context.Context, customer *entities.Customer, returning bool) (string, error) {
	displayName := customerDisplayName(customer)

	visit := "This is their first time here, so make them feel welcome."
	if returning {
		visit = "They have ordered with us before, so welcome them back."
	}

	reply, err := s.AI.GenerateReply(ctx, fmt.Sprintf(orderPromptTemplate, displayName, visit), "I would like to order.")
	if err != nil {
		return "", fmt.Errorf("generate order reply: %w", err)
	}
	if err := s.Messenger.SendText(ctx, customer.Phone, reply); err != nil {
		return "", fmt.Errorf("send order reply: %w", err)
	}

	s.sleep(ctx, s.ButtonDelay)

	if err := s.Messenger.SendURLButton(ctx, customer.Phone, orderButtonBody, s.orderURL(customer.Phone), orderButtonDisplay); err != nil {
		// Best-effort plain-text fallback naming the customer.
		s.Logger.Error("order button send failed", "to", customer.Phone, "error", err)
		fallback := fmt.Sprintf("Sorry %s, I couldn't send the order button. You can place your order here: %s", displayName, s.orderURL(customer.Phone))
		if fbErr := s.Messenger.SendText(ctx, customer.Phone, fallback); fbErr != nil {
			s.Logger.Error("order button fallback failed", "to", customer.Phone, "error", fbErr)
		}
	}

	if err := s.Orders.Create(ctx, &entities.Order{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Status:     entities.OrderStatusPending,
	}); err != nil {
		return "", fmt.Errorf("create order record: %w", err)
	}

	return reply, nil
}

func (s *WebhookService) handleGeneral(ctx context.Context, customer *entities.Customer, content string, history []entities.ConversationEntry) (string, error) {
	prompt := fmt.Sprintf(generalPromptTemplate, customerDisplayName(customer), formatHistory(history))

	reply, err := s.AI.GenerateReply(ctx, prompt, content)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if err := s.Messenger.SendText(ctx, customer.Phone, reply); err != nil {
		return "", fmt.Errorf("send reply: %w", err)
	}
	return reply, nil
}

func (s *WebhookService) orderURL(phone string) string {
	return s.OrderPageURL + "?phone=" + url.QueryEscape(phone)
}

func (s *WebhookService) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func customerDisplayName(c *entities.Customer) string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return "there"
}

// formatHistory renders recent turns as a short transcript for the prompt.
func formatHistory(history []entities.ConversationEntry) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nRecent conversation:\n")
	for _, e := range history {
		speaker := "Customer"
		if e.Direction == entities.DirectionOutgoing {
			speaker = "You"
		}
		sb.WriteString(speaker)
		sb.WriteString(": ")
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
