package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"widgetbot/internal/entities"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a pending order attempt. Repeated order-intent messages
// create repeated rows on purpose; dedup happens on the ordering page.
func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	if order.Status == "" {
		order.Status = entities.OrderStatusPending
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO orders (customer_id, phone, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, order.CustomerID, order.Phone, order.Status).Scan(&order.ID, &order.CreatedAt)
}
