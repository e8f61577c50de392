package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/overwatch-coder/souppp-ecom/internal/dal/postgres"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/restaurant"
)

// RestaurantRepository reads the restaurant read model maintained by
// the restaurant service.
type RestaurantRepository struct {
	conn postgres.Querier
}

// NewRestaurantRepository creates a new restaurant repository.
func NewRestaurantRepository(conn postgres.Querier) *RestaurantRepository {
	return &RestaurantRepository{
		conn: conn,
	}
}

// GetByID retrieves a restaurant by its id.
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByMerchant retrieves the restaurant owned by the given merchant.
// A merchant owns at most one restaurant.
func (r *RestaurantRepository) GetByMerchant(ctx context.Context, merchantID string) (*restaurant.Restaurant, error) {
	return r.getOne(ctx, sq.Eq{"merchant_id": merchantID})
}

func (r *RestaurantRepository) getOne(ctx context.Context, where sq.Eq) (*restaurant.Restaurant, error) {
	query, args, err := sq.Select(
		"id",
		"merchant_id",
		"name",
		"expected_delivery_time",
		"created_at",
		"updated_at",
	).
		From("restaurants").
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var rest restaurant.Restaurant
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&rest.ID,
		&rest.MerchantID,
		&rest.Name,
		&rest.ExpectedDeliveryTime,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, restaurant.ErrRestaurantNotFound
		}

		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}

	return &rest, nil
}
