package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/postgres"
)

// UserRepository maintains the user -> order history link table.
type UserRepository struct {
	conn postgres.Querier
}

// NewUserRepository creates a new user repository.
func NewUserRepository(conn postgres.Querier) *UserRepository {
	return &UserRepository{
		conn: conn,
	}
}

// AppendOrder links an order to a user's history. The link set is
// append-only, so replays of the same webhook are no-ops.
func (r *UserRepository) AppendOrder(ctx context.Context, userID, orderID string) error {
	query, args, err := sq.Insert("user_orders").
		Columns("user_id", "order_id").
		Values(userID, orderID).
		Suffix("ON CONFLICT (user_id, order_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link order to user: %w", err)
	}

	return nil
}
