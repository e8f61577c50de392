package restaurantorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/transport/http/respond"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/auth"
)

type service interface {
	GetOrdersByRestaurant(
		ctx context.Context,
		merchantID string,
		restaurantID string,
		page, limit int,
	) ([]order.Order, error)
}

type queryRequest struct {
	Page  int `schema:"page,omitempty"`
	Limit int `schema:"limit,omitempty"`
}

// ListRestaurantOrders returns the orders of the merchant's restaurant.
func ListRestaurantOrders(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, "unauthorized", nil)

		return
	}
	if identity.Role != auth.RoleMerchant {
		respond.JSON(w, http.StatusForbidden, "merchant role required", nil)

		return
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	query := &queryRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.JSON(w, http.StatusBadRequest, "invalid query parameters", nil)
		slog.Error("Error decoding restaurant orders query", "error", err)

		return
	}

	restaurantID := chi.URLParam(r, "id")

	orders, err := service.GetOrdersByRestaurant(r.Context(), identity.UserID, restaurantID, query.Page, query.Limit)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting restaurant orders",
			"restaurant_id", restaurantID,
			"merchant_id", identity.UserID,
			"error", err,
		)

		return
	}

	respond.JSON(w, http.StatusOK, "orders retrieved", orders)
}
