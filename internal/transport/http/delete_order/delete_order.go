package deleteorder

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/overwatch-coder/souppp-ecom/internal/transport/http/respond"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/auth"
)

type service interface {
	DeleteOrder(ctx context.Context, orderID, email string) error
}

// DeleteOrder removes an order owned by the authenticated customer.
func DeleteOrder(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, "unauthorized", nil)

		return
	}

	orderID := chi.URLParam(r, "id")

	if err := service.DeleteOrder(r.Context(), orderID, identity.Email); err != nil {
		respond.Error(w, err)
		slog.Error("Error deleting order", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, "order deleted", nil)
}
