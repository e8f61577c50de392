package stripewebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/overwatch-coder/souppp-ecom/internal/service/models/intent"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
)

const testSecret = "whsec_test_secret"

type fakeService struct {
	intents []intent.Intent
	err     error
	created bool
}

func (s *fakeService) CreateFromIntent(_ context.Context, in intent.Intent) (order.Order, bool, error) {
	if s.err != nil {
		return order.Order{}, false, s.err
	}

	s.intents = append(s.intents, in)

	return order.Order{ID: "order-1"}, s.created, nil
}

// sign produces a Stripe-Signature header for the payload.
func sign(payload []byte, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)

	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(t *testing.T, eventType string, object map[string]any) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":   "evt_test_1",
		"type": eventType,
		"data": map[string]any{"object": object},
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	return payload
}

func checkoutSessionObject() map[string]any {
	return map[string]any{
		"id":             "cs_test_123",
		"amount_total":   2550,
		"created":        1704152400,
		"customer":       "cus_123",
		"payment_intent": "pi_test_123",
		"payment_status": "paid",
		"status":         "complete",
		"customer_details": map[string]any{
			"email": "jane@example.com",
			"name":  "Jane Doe",
			"phone": "+233200000000",
			"address": map[string]any{
				"line1":       "12 Main St",
				"city":        "Accra",
				"country":     "GH",
				"postal_code": "00233",
			},
		},
		"metadata": map[string]any{
			"cartItems":  `[{"product":"prod-1","quantity":2,"restaurant":"rest-1"}]`,
			"userId":     "user-1",
			"username":   "jane",
			"email":      "jane@example.com",
			"restaurant": "rest-1",
		},
	}
}

func post(t *testing.T, svc *fakeService, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/payment/stripe-webhook", strings.NewReader(string(payload)))
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()

	Handle(rec, req, svc)

	return rec
}

func TestHandle(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", testSecret)

	t.Run("checkout session completed creates an order", func(t *testing.T) {
		svc := &fakeService{created: true}
		payload := eventPayload(t, "checkout.session.completed", checkoutSessionObject())

		rec := post(t, svc, payload, sign(payload, time.Now()))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
		}
		if len(svc.intents) != 1 {
			t.Fatalf("intents = %d, want 1", len(svc.intents))
		}

		in := svc.intents[0]
		if in.ExternalReference != "cs_test_123" {
			t.Errorf("reference = %s, want cs_test_123", in.ExternalReference)
		}
		if in.TotalAmount != 25.50 {
			t.Errorf("amount = %v, want 25.50", in.TotalAmount)
		}
		if in.Source != order.PaymentSourceCheckoutSession {
			t.Errorf("source = %s", in.Source)
		}
	})

	t.Run("payment intent succeeded creates an order", func(t *testing.T) {
		svc := &fakeService{created: true}
		payload := eventPayload(t, "payment_intent.succeeded", map[string]any{
			"id":            "pi_test_456",
			"amount":        1200,
			"client_secret": "pi_test_456_secret",
			"created":       1704152400,
			"customer":      "cus_123",
			"status":        "succeeded",
			"shipping": map[string]any{
				"name":  "Jane Doe",
				"phone": "+233200000000",
				"address": map[string]any{
					"line1":       "12 Main St",
					"city":        "Accra",
					"country":     "GH",
					"postal_code": "00233",
				},
			},
			"metadata": map[string]any{
				"cartItems":  `[{"product":"prod-1","quantity":1,"restaurant":"rest-1"}]`,
				"userId":     "user-1",
				"username":   "jane",
				"email":      "jane@example.com",
				"restaurant": "rest-1",
			},
		})

		rec := post(t, svc, payload, sign(payload, time.Now()))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
		}
		if len(svc.intents) != 1 {
			t.Fatalf("intents = %d, want 1", len(svc.intents))
		}
		if svc.intents[0].Source != order.PaymentSourcePaymentIntent {
			t.Errorf("source = %s", svc.intents[0].Source)
		}
		if svc.intents[0].Customer.Email != "jane@example.com" {
			t.Errorf("email = %s", svc.intents[0].Customer.Email)
		}
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		svc := &fakeService{}
		payload := eventPayload(t, "checkout.session.completed", checkoutSessionObject())

		rec := post(t, svc, payload, "t=0,v1=deadbeef")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if len(svc.intents) != 0 {
			t.Error("order must not be created on a bad signature")
		}
	})

	t.Run("malformed cart is rejected", func(t *testing.T) {
		svc := &fakeService{}
		object := checkoutSessionObject()
		object["metadata"].(map[string]any)["cartItems"] = "{not json"
		payload := eventPayload(t, "checkout.session.completed", object)

		rec := post(t, svc, payload, sign(payload, time.Now()))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if len(svc.intents) != 0 {
			t.Error("order must not be created from a malformed cart")
		}
	})

	t.Run("missing customer email is rejected", func(t *testing.T) {
		svc := &fakeService{}
		object := checkoutSessionObject()
		object["customer_details"].(map[string]any)["email"] = ""
		object["metadata"].(map[string]any)["email"] = ""
		payload := eventPayload(t, "checkout.session.completed", object)

		rec := post(t, svc, payload, sign(payload, time.Now()))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unpaid session is acknowledged without an order", func(t *testing.T) {
		svc := &fakeService{}
		object := checkoutSessionObject()
		object["payment_status"] = "unpaid"
		payload := eventPayload(t, "checkout.session.completed", object)

		rec := post(t, svc, payload, sign(payload, time.Now()))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if len(svc.intents) != 0 {
			t.Error("order must not be created for an unpaid session")
		}
	})

	t.Run("unhandled event types are acknowledged", func(t *testing.T) {
		svc := &fakeService{}
		payload := eventPayload(t, "charge.refunded", map[string]any{"id": "ch_1"})

		rec := post(t, svc, payload, sign(payload, time.Now()))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if len(svc.intents) != 0 {
			t.Error("unhandled events must not create orders")
		}
	})

	t.Run("service failure returns 500", func(t *testing.T) {
		svc := &fakeService{err: errors.New("db down")}
		payload := eventPayload(t, "checkout.session.completed", checkoutSessionObject())

		rec := post(t, svc, payload, sign(payload, time.Now()))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}
