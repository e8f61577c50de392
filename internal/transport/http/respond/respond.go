package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/overwatch-coder/souppp-ecom/internal/service/models/intent"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/restaurant"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes an envelope with the given status code.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{
		Success: status < http.StatusBadRequest,
		Message: message,
		Data:    data,
	}); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// Error maps a service error onto an HTTP status and writes the
// envelope. Unrecognized errors become opaque 500s.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrNoRestaurant),
		errors.Is(err, restaurant.ErrRestaurantNotFound):
		JSON(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, order.ErrNotRestaurantOwner):
		JSON(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, intent.ErrMalformedCart),
		errors.Is(err, intent.ErrMissingCustomerField):
		JSON(w, http.StatusBadRequest, err.Error(), nil)
	default:
		slog.Error("Unhandled service error", "error", err)
		JSON(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
