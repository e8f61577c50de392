package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/overwatch-coder/souppp-ecom/internal/service/models/intent"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/payment"
	"github.com/overwatch-coder/souppp-ecom/internal/transport/http/respond"
	"github.com/stripe/stripe-go/v81/webhook"
)

// maxBodyBytes bounds webhook payloads, per Stripe's recommendation.
const maxBodyBytes = int64(65536)

const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventIntentSucceeded   = "payment_intent.succeeded"
)

// service is an interface for the service layer.
type service interface {
	CreateFromIntent(ctx context.Context, in intent.Intent) (order.Order, bool, error)
}

// Handle verifies a provider webhook, normalizes the two supported
// event shapes and materializes the order.
func Handle(w http.ResponseWriter, r *http.Request, service service) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respond.JSON(w, http.StatusBadRequest, "failed to read webhook payload", nil)
		slog.Error("Error reading webhook payload", "error", err)

		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		respond.JSON(w, http.StatusBadRequest, "invalid webhook signature", nil)
		slog.Error("Webhook signature verification failed", "error", err)

		return
	}

	var in intent.Intent
	switch event.Type {
	case eventCheckoutCompleted:
		var session payment.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			respond.JSON(w, http.StatusBadRequest, "malformed checkout session payload", nil)

			return
		}
		in, err = intent.FromCheckoutSession(session)
	case eventIntentSucceeded:
		var pi payment.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			respond.JSON(w, http.StatusBadRequest, "malformed payment intent payload", nil)

			return
		}
		in, err = intent.FromPaymentIntent(pi)
	default:
		// Unhandled event types are acknowledged so the provider stops
		// retrying them.
		slog.Info("Ignoring webhook event", "type", event.Type)
		respond.JSON(w, http.StatusOK, "event ignored", nil)

		return
	}

	if err != nil {
		if errors.Is(err, intent.ErrMalformedCart) || errors.Is(err, intent.ErrMissingCustomerField) {
			respond.Error(w, err)
			slog.Error("Webhook payload failed validation", "type", event.Type, "error", err)

			return
		}

		respond.JSON(w, http.StatusBadRequest, "invalid webhook payload", nil)
		slog.Error("Error normalizing webhook payload", "type", event.Type, "error", err)

		return
	}

	if in.PaymentStatus != order.PaymentStatusSuccess {
		slog.Warn("Ignoring event with unsuccessful payment",
			"type", event.Type,
			"reference", in.ExternalReference,
			"payment_status", in.PaymentStatus,
		)
		respond.JSON(w, http.StatusOK, "payment not successful, no order created", nil)

		return
	}

	ord, created, err := service.CreateFromIntent(r.Context(), in)
	if err != nil {
		respond.JSON(w, http.StatusInternalServerError, "failed to create order", nil)
		slog.Error("Error creating order from webhook", "type", event.Type, "error", err)

		return
	}

	message := "order created"
	if !created {
		message = "order already exists"
	}

	respond.JSON(w, http.StatusOK, message, map[string]string{"orderId": ord.ID})
}
