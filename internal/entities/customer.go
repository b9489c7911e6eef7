package entities

import "time"

// Customer is a WhatsApp contact, keyed by phone number.
type Customer struct {
	ID                int       `json:"id"`
	Phone             string    `json:"phone"`
	Name              *string   `json:"name"` // profile name, last non-null write wins
	TotalInteractions int       `json:"total_interactions"`
	LastInteraction   time.Time `json:"last_interaction"`
	CreatedAt         time.Time `json:"created_at"`
}

// Message directions in the conversation log.
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// ConversationEntry is one row of the append-only conversation log.
type ConversationEntry struct {
	ID         int       `json:"id"`
	CustomerID int       `json:"customer_id"`
	Phone      string    `json:"phone"`
	Direction  string    `json:"direction"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Order is a detected order attempt. Status never advances past pending here;
// fulfilment happens on the external ordering page.
type Order struct {
	ID         int       `json:"id"`
	CustomerID int       `json:"customer_id"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderStatusPending is the only status this service writes.
const OrderStatusPending = "pending"
