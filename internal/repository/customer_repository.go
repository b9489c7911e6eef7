package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"widgetbot/internal/entities"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Upsert creates or bumps the customer row for a phone number in one
// statement, so concurrent deliveries cannot lose counter updates. A non-null
// name overwrites the stored one; null leaves it alone.
func (r *CustomerRepository) Upsert(ctx context.Context, phone string, name *string) (*entities.Customer, bool, error) {
	var c entities.Customer
	var inserted bool
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (phone, name, total_interactions, last_interaction)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (phone) DO UPDATE SET
			name = COALESCE(EXCLUDED.name, customers.name),
			total_interactions = customers.total_interactions + 1,
			last_interaction = NOW()
		RETURNING id, phone, name, total_interactions, last_interaction, created_at,
			(xmax = 0) AS inserted
	`, phone, name).Scan(&c.ID, &c.Phone, &c.Name, &c.TotalInteractions,
		&c.LastInteraction, &c.CreatedAt, &inserted)
	if err != nil {
		return nil, false, err
	}
	return &c, !inserted, nil
}
