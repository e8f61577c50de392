package listorders

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/transport/http/respond"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/auth"
)

type service interface {
	GetOrders(ctx context.Context, userID string, page, limit int) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Page  int `schema:"page,omitempty"`
	Limit int `schema:"limit,omitempty"`
}

// ListOrders returns the authenticated customer's orders.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, "unauthorized", nil)

		return
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		respond.JSON(w, http.StatusBadRequest, "invalid query parameters", nil)
		slog.Error("Error decoding list orders query", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), identity.UserID, query.Page, query.Limit)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting orders", "user_id", identity.UserID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, "orders retrieved", orders)
}
