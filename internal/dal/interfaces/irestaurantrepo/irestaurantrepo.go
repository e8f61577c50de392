package irestaurantrepo

import (
	"context"

	"github.com/overwatch-coder/souppp-ecom/internal/service/models/restaurant"
)

// IRestaurantRepository is an interface for the restaurant read-model
// repository.
type IRestaurantRepository interface {
	GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error)
	// GetByMerchant returns the single restaurant owned by the given
	// merchant, or restaurant.ErrRestaurantNotFound.
	GetByMerchant(ctx context.Context, merchantID string) (*restaurant.Restaurant, error)
}
