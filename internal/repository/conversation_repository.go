package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"widgetbot/internal/entities"
)

type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Append(ctx context.Context, entry *entities.ConversationEntry) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO conversations (customer_id, phone, direction, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, entry.CustomerID, entry.Phone, entry.Direction, entry.Content).
		Scan(&entry.ID, &entry.CreatedAt)
}

// Recent fetches the newest entries for a phone number and returns them in
// chronological order, ready for prompt assembly.
func (r *ConversationRepository) Recent(ctx context.Context, phone string, limit int) ([]entities.ConversationEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, phone, direction, content, created_at
		FROM conversations
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []entities.ConversationEntry{}
	for rows.Next() {
		var e entities.ConversationEntry
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.Phone, &e.Direction, &e.Content, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// newest-first from the store, oldest-first for callers
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// MarkProcessed records a platform message id and reports whether it was
// already seen, so redelivered webhooks are dropped exactly once.
func (r *ConversationRepository) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO processed_messages (message_id)
		VALUES ($1)
		ON CONFLICT (message_id) DO NOTHING
	`, messageID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 0, nil
}
