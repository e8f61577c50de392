package intent

import (
	"errors"
	"testing"
	"time"

	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/payment"
)

const cartJSON = `[{"product":"prod_1","quantity":2,"restaurant":"rest_1"},{"product":"prod_2","quantity":1,"restaurant":"rest_1"}]`

func validCheckoutSession() payment.CheckoutSession {
	return payment.CheckoutSession{
		ID:          "cs_test_123",
		AmountTotal: 2550,
		Created:     1704152400,
		Customer:    "cus_1",
		CustomerDetails: payment.CustomerDetails{
			Address: payment.Address{
				City:       "Accra",
				Country:    "GH",
				Line1:      "12 Oxford Street",
				PostalCode: "00233",
			},
			Email: "ama@example.com",
			Name:  "Ama Mensah",
			Phone: "+233201234567",
		},
		Metadata: payment.Metadata{
			CartItems:  cartJSON,
			UserID:     "user_1",
			Username:   "ama",
			Restaurant: "rest_1",
		},
		PaymentIntent: "pi_test_123",
		PaymentStatus: "paid",
		Status:        "complete",
	}
}

func validPaymentIntent() payment.PaymentIntent {
	return payment.PaymentIntent{
		ID:           "pi_test_123",
		Amount:       2550,
		ClientSecret: "pi_test_123_secret_abc",
		Created:      1704152400,
		Customer:     "cus_1",
		Metadata: payment.Metadata{
			CartItems:  cartJSON,
			UserID:     "user_1",
			Username:   "ama",
			Email:      "ama@example.com",
			Restaurant: "rest_1",
		},
		Shipping: payment.Shipping{
			Address: payment.Address{
				City:       "Accra",
				Country:    "GH",
				Line1:      "12 Oxford Street",
				PostalCode: "00233",
			},
			Name:  "Ama Mensah",
			Phone: "+233201234567",
		},
		Status: "succeeded",
	}
}

func TestFromCheckoutSession(t *testing.T) {
	in, err := FromCheckoutSession(validCheckoutSession())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if in.ExternalReference != "cs_test_123" {
		t.Errorf("expected reference cs_test_123, got %s", in.ExternalReference)
	}
	if in.TotalAmount != 25.50 {
		t.Errorf("expected total 25.50, got %v", in.TotalAmount)
	}
	if want := time.Date(2024, 1, 2, 0, 20, 0, 0, time.UTC); !in.OccurredAt.Equal(want) {
		t.Errorf("expected occurredAt %v, got %v", want, in.OccurredAt)
	}
	if len(in.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(in.LineItems))
	}
	if in.LineItems[0].ProductID != "prod_1" || in.LineItems[0].Quantity != 2 {
		t.Errorf("unexpected first line item: %+v", in.LineItems[0])
	}
	if in.PaymentStatus != order.PaymentStatusSuccess {
		t.Errorf("expected SUCCESS, got %s", in.PaymentStatus)
	}
	if in.Source != order.PaymentSourceCheckoutSession {
		t.Errorf("expected checkout_session source, got %s", in.Source)
	}
	if in.Customer.UserID != "user_1" || in.Customer.Email != "ama@example.com" {
		t.Errorf("unexpected customer: %+v", in.Customer)
	}
}

func TestFromCheckoutSessionUnpaid(t *testing.T) {
	session := validCheckoutSession()
	session.PaymentStatus = "unpaid"

	in, err := FromCheckoutSession(session)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if in.PaymentStatus != order.PaymentStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", in.PaymentStatus)
	}
}

func TestCrossKindEquivalence(t *testing.T) {
	fromSession, err := FromCheckoutSession(validCheckoutSession())
	if err != nil {
		t.Fatalf("checkout session: %v", err)
	}
	fromIntent, err := FromPaymentIntent(validPaymentIntent())
	if err != nil {
		t.Fatalf("payment intent: %v", err)
	}

	// The two events describe the same logical purchase: everything
	// except the provider references and the source kind must match.
	if fromSession.TotalAmount != fromIntent.TotalAmount {
		t.Errorf("amounts differ: %v vs %v", fromSession.TotalAmount, fromIntent.TotalAmount)
	}
	if !fromSession.OccurredAt.Equal(fromIntent.OccurredAt) {
		t.Errorf("timestamps differ: %v vs %v", fromSession.OccurredAt, fromIntent.OccurredAt)
	}
	if fromSession.Customer != fromIntent.Customer {
		t.Errorf("customers differ:\n%+v\n%+v", fromSession.Customer, fromIntent.Customer)
	}
	if len(fromSession.LineItems) != len(fromIntent.LineItems) {
		t.Fatalf("line item counts differ")
	}
	for i := range fromSession.LineItems {
		if fromSession.LineItems[i] != fromIntent.LineItems[i] {
			t.Errorf("line item %d differs: %+v vs %+v", i, fromSession.LineItems[i], fromIntent.LineItems[i])
		}
	}
	if fromSession.RestaurantID != fromIntent.RestaurantID {
		t.Errorf("restaurants differ")
	}
	if fromSession.PaymentStatus != fromIntent.PaymentStatus {
		t.Errorf("payment statuses differ")
	}
	if fromSession.Source == fromIntent.Source {
		t.Errorf("sources should differ between event kinds")
	}
	if fromSession.PaymentIntentID != fromIntent.PaymentIntentID {
		t.Errorf("payment intent refs differ: %s vs %s", fromSession.PaymentIntentID, fromIntent.PaymentIntentID)
	}
}

func TestFromCheckoutSessionMalformedCart(t *testing.T) {
	session := validCheckoutSession()
	session.Metadata.CartItems = `[{"product":"prod_1",`

	if _, err := FromCheckoutSession(session); !errors.Is(err, ErrMalformedCart) {
		t.Fatalf("expected ErrMalformedCart, got %v", err)
	}
}

func TestFromPaymentIntentMissingEmail(t *testing.T) {
	pi := validPaymentIntent()
	pi.Metadata.Email = ""

	if _, err := FromPaymentIntent(pi); !errors.Is(err, ErrMissingCustomerField) {
		t.Fatalf("expected ErrMissingCustomerField, got %v", err)
	}
}

func TestFromCheckoutSessionMissingAddress(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*payment.CheckoutSession)
	}{
		{"line1", func(s *payment.CheckoutSession) { s.CustomerDetails.Address.Line1 = "" }},
		{"city", func(s *payment.CheckoutSession) { s.CustomerDetails.Address.City = "" }},
		{"country", func(s *payment.CheckoutSession) { s.CustomerDetails.Address.Country = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := validCheckoutSession()
			tt.mutate(&session)
			if _, err := FromCheckoutSession(session); !errors.Is(err, ErrMissingCustomerField) {
				t.Fatalf("expected ErrMissingCustomerField, got %v", err)
			}
		})
	}
}

func TestAmountConversion(t *testing.T) {
	session := validCheckoutSession()
	session.AmountTotal = 2550

	in, err := FromCheckoutSession(session)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if in.TotalAmount != 25.50 {
		t.Fatalf("expected 25.50, got %v", in.TotalAmount)
	}
}
