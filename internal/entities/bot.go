package entities

import "time"

// Bot is a persisted widget configuration: a name, a greeting shown on open,
// and a free-form knowledge-base context the AI answers from.
type Bot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Greeting  string    `json:"greeting"`
	Context   string    `json:"context"`
	CreatedAt time.Time `json:"created_at"`
}

// BotUpdate carries a partial update; nil fields are left untouched.
type BotUpdate struct {
	Name     *string `json:"name"`
	Greeting *string `json:"greeting"`
	Context  *string `json:"context"`
}
