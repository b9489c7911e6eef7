package interfaces

import (
	"context"
	"errors"

	"widgetbot/internal/entities"
)

// AI error kinds, decided at the adapter boundary so callers never inspect
// provider error text.
var (
	ErrAIUnauthorized  = errors.New("ai: invalid or missing API key")
	ErrAIQuotaExceeded = errors.New("ai: quota exceeded")
)

// AIClient generates a reply from a system prompt and the user's message.
type AIClient interface {
	GenerateReply(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Messenger pushes messages to a customer on the messaging platform.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendURLButton(ctx context.Context, to, body, url, display string) error
	MarkRead(ctx context.Context, messageID string) error
}

// BotStore persists widget bot records.
type BotStore interface {
	Create(ctx context.Context, bot *entities.Bot) error
	GetByID(ctx context.Context, id string) (*entities.Bot, error)
	List(ctx context.Context) ([]entities.Bot, error)
	Update(ctx context.Context, id string, upd entities.BotUpdate) (*entities.Bot, error)
	Delete(ctx context.Context, id string) error
}

// CustomerStore upserts customers keyed by phone number.
type CustomerStore interface {
	// Upsert creates or updates the customer, bumping the interaction counter.
	// The returned flag reports whether the customer already existed.
	Upsert(ctx context.Context, phone string, name *string) (*entities.Customer, bool, error)
}

// ConversationStore is the append-only message log plus webhook idempotency.
type ConversationStore interface {
	Append(ctx context.Context, entry *entities.ConversationEntry) error
	// Recent returns at most limit entries for the phone number in
	// chronological (oldest first) order.
	Recent(ctx context.Context, phone string, limit int) ([]entities.ConversationEntry, error)
	// MarkProcessed records a platform message id; it reports true when the
	// id was seen before so redelivered webhooks can be dropped.
	MarkProcessed(ctx context.Context, messageID string) (bool, error)
}

// OrderStore inserts order attempts.
type OrderStore interface {
	Create(ctx context.Context, order *entities.Order) error
}

// UserStore persists management-API accounts.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}
