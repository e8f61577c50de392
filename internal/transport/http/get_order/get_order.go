package getorder

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/transport/http/respond"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/auth"
)

type service interface {
	GetOrder(ctx context.Context, orderID, email string) (order.Order, error)
}

// GetOrder returns a single order owned by the authenticated customer.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, "unauthorized", nil)

		return
	}

	orderID := chi.URLParam(r, "id")

	ord, err := service.GetOrder(r.Context(), orderID, identity.Email)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, "order retrieved", ord)
}
