package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"widgetbot/internal/entities"
)

type BotRepository struct {
	db *pgxpool.Pool
}

func NewBotRepository(db *pgxpool.Pool) *BotRepository {
	return &BotRepository{db: db}
}

// Create inserts the bot and fills in its generated id and timestamp.
func (r *BotRepository) Create(ctx context.Context, bot *entities.Bot) error {
	bot.ID = uuid.NewString()
	return r.db.QueryRow(ctx, `
		INSERT INTO bots (id, name, greeting, context)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, bot.ID, bot.Name, bot.Greeting, bot.Context).Scan(&bot.CreatedAt)
}

func (r *BotRepository) GetByID(ctx context.Context, id string) (*entities.Bot, error) {
	var bot entities.Bot
	err := r.db.QueryRow(ctx,
		"SELECT id, name, greeting, context, created_at FROM bots WHERE id = $1",
		id).Scan(&bot.ID, &bot.Name, &bot.Greeting, &bot.Context, &bot.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

// List returns all bots, newest-created first.
func (r *BotRepository) List(ctx context.Context) ([]entities.Bot, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, name, greeting, context, created_at FROM bots ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bots := []entities.Bot{}
	for rows.Next() {
		var b entities.Bot
		if err := rows.Scan(&b.ID, &b.Name, &b.Greeting, &b.Context, &b.CreatedAt); err != nil {
			return nil, err
		}
		bots = append(bots, b)
	}
	return bots, rows.Err()
}

// Update applies the non-nil fields and returns the updated row, or nil when
// no row matched.
func (r *BotRepository) Update(ctx context.Context, id string, upd entities.BotUpdate) (*entities.Bot, error) {
	var bot entities.Bot
	err := r.db.QueryRow(ctx, `
		UPDATE bots SET
			name = COALESCE($1, name),
			greeting = COALESCE($2, greeting),
			context = COALESCE($3, context)
		WHERE id = $4
		RETURNING id, name, greeting, context, created_at
	`, upd.Name, upd.Greeting, upd.Context, id).
		Scan(&bot.ID, &bot.Name, &bot.Greeting, &bot.Context, &bot.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bot, nil
}

func (r *BotRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM bots WHERE id = $1", id)
	return err
}
