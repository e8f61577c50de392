package notification

import (
	"strings"
	"testing"
)

func TestConfirmation(t *testing.T) {
	msg := Confirmation("order-1", 25.5, "Ama")

	if msg.Subject != "Order Confirmation" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "order-1") {
		t.Errorf("expected order id in body")
	}
	if !strings.Contains(msg.HTML, "$25.50") {
		t.Errorf("expected formatted total in body, got:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "Ama") {
		t.Errorf("expected customer name in body")
	}
	if strings.Contains(msg.HTML, "Tracking Number") {
		t.Errorf("confirmation must not carry tracking details")
	}
}

func TestStatusChange(t *testing.T) {
	msg := StatusChange("order-1", "", "PROCESSING")

	if !strings.Contains(msg.HTML, "PROCESSING") {
		t.Errorf("expected status in body")
	}
	if !strings.Contains(msg.HTML, "Dear User") {
		t.Errorf("expected fallback name in body")
	}
	if strings.Contains(msg.HTML, "Tracking Number") {
		t.Errorf("status change must not carry tracking details")
	}
}

func TestShipped(t *testing.T) {
	msg := Shipped("order-1", "Ama", "TRK123", Carrier, "January 5, 2024", "Accra")

	for _, want := range []string{"order-1", "TRK123", Carrier, "January 5, 2024", "Accra"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("expected %q in shipped body", want)
		}
	}
	if msg.Subject != "Order Shipped Notification" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
}

func TestOutForDelivery(t *testing.T) {
	msg := OutForDelivery("order-1", "Ama", "TRK123", Carrier, "13:45", "12 Oxford Street, Accra 00233")

	for _, want := range []string{"order-1", "TRK123", "13:45", "12 Oxford Street"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("expected %q in delivery body", want)
		}
	}
}

func TestNewTrackingNumber(t *testing.T) {
	a := NewTrackingNumber()
	b := NewTrackingNumber()

	if len(a) != 15 || !strings.HasPrefix(a, "TRK") {
		t.Errorf("unexpected tracking number format %q", a)
	}
	if a == b {
		t.Errorf("tracking numbers should be unique, got %q twice", a)
	}
}
