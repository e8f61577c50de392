package updateorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/transport/http/respond"
	"github.com/overwatch-coder/souppp-ecom/pkg/http/middleware/auth"
)

type service interface {
	TransitionStatus(
		ctx context.Context,
		merchantID string,
		orderID string,
		target order.Status,
		claimedRestaurantID string,
	) (order.Order, error)
}

// updateOrderRequest represents an order status update request.
type updateOrderRequest struct {
	Status       string `json:"status"     validate:"required"`
	RestaurantID string `json:"restaurant" validate:"required"`
}

// Validate validates the update order request.
func (r *updateOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// UpdateOrder moves an order to a new fulfillment status on behalf of
// the restaurant's merchant.
func UpdateOrder(w http.ResponseWriter, r *http.Request, service service) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, "unauthorized", nil)

		return
	}
	if identity.Role != auth.RoleMerchant {
		respond.JSON(w, http.StatusForbidden, "merchant role required", nil)

		return
	}

	req := updateOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, "invalid request body", nil)
		slog.Error("Error decoding update order request", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		respond.JSON(w, http.StatusBadRequest, err.Error(), nil)
		slog.Error("Error validating update order request", "error", err)

		return
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		respond.Error(w, err)

		return
	}

	orderID := chi.URLParam(r, "id")

	ord, err := service.TransitionStatus(r.Context(), identity.UserID, orderID, target, req.RestaurantID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating order status",
			"order_id", orderID,
			"merchant_id", identity.UserID,
			"target", target,
			"error", err,
		)

		return
	}

	respond.JSON(w, http.StatusOK, "order status updated", ord)
}
