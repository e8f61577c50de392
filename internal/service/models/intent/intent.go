// Package intent normalizes the two provider event shapes into one
// canonical pre-order structure, so order materialization has exactly
// one consumption path.
package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
	"github.com/overwatch-coder/souppp-ecom/internal/service/models/payment"
)

var (
	// ErrMalformedCart means the embedded cartItems metadata could not
	// be decoded.
	ErrMalformedCart = errors.New("cart items metadata is not valid JSON")

	// ErrMissingCustomerField means a required customer field was
	// absent from the provider payload.
	ErrMissingCustomerField = errors.New("missing required customer field")
)

// LineItem is one purchased product line as encoded in the provider
// metadata.
type LineItem struct {
	ProductID    string `json:"product"`
	Quantity     int    `json:"quantity"`
	RestaurantID string `json:"restaurant"`
}

// Intent is the canonical pre-order data derived from either provider
// event shape. It is transient and never persisted as-is.
type Intent struct {
	ExternalReference string
	SessionID         string
	PaymentIntentID   string
	TotalAmount       float64
	OccurredAt        time.Time
	LineItems         []LineItem
	Customer          order.Customer
	PaymentStatus     order.PaymentStatus
	CustomerRef       string
	RestaurantID      string
	Source            order.PaymentSource
}

// FromCheckoutSession normalizes a checkout.session.completed payload.
func FromCheckoutSession(session payment.CheckoutSession) (Intent, error) {
	items, err := parseCartItems(session.Metadata.CartItems)
	if err != nil {
		return Intent{}, err
	}

	customer := order.Customer{
		Address:  normalizeAddress(session.CustomerDetails.Address),
		Email:    session.CustomerDetails.Email,
		Name:     session.CustomerDetails.Name,
		Phone:    session.CustomerDetails.Phone,
		UserID:   session.Metadata.UserID,
		Username: session.Metadata.Username,
	}

	if err := validateCustomer(customer); err != nil {
		return Intent{}, err
	}

	return Intent{
		ExternalReference: session.ID,
		SessionID:         session.ID,
		PaymentIntentID:   session.PaymentIntent,
		TotalAmount:       minorToAmount(session.AmountTotal),
		OccurredAt:        time.Unix(session.Created, 0).UTC(),
		LineItems:         items,
		Customer:          customer,
		PaymentStatus:     statusFromProvider(session.PaymentStatus, "paid"),
		CustomerRef:       session.Customer,
		RestaurantID:      session.Metadata.Restaurant,
		Source:            order.PaymentSourceCheckoutSession,
	}, nil
}

// FromPaymentIntent normalizes a payment_intent.succeeded payload. The
// intent carries no native email field, so the email comes from the
// metadata attached when the payment was created.
func FromPaymentIntent(pi payment.PaymentIntent) (Intent, error) {
	items, err := parseCartItems(pi.Metadata.CartItems)
	if err != nil {
		return Intent{}, err
	}

	customer := order.Customer{
		Address:  normalizeAddress(pi.Shipping.Address),
		Email:    pi.Metadata.Email,
		Name:     pi.Shipping.Name,
		Phone:    pi.Shipping.Phone,
		UserID:   pi.Metadata.UserID,
		Username: pi.Metadata.Username,
	}

	if err := validateCustomer(customer); err != nil {
		return Intent{}, err
	}

	return Intent{
		ExternalReference: pi.ID,
		SessionID:         pi.ClientSecret,
		PaymentIntentID:   pi.ID,
		TotalAmount:       minorToAmount(pi.Amount),
		OccurredAt:        time.Unix(pi.Created, 0).UTC(),
		LineItems:         items,
		Customer:          customer,
		PaymentStatus:     statusFromProvider(pi.Status, "succeeded"),
		CustomerRef:       pi.Customer,
		RestaurantID:      pi.Metadata.Restaurant,
		Source:            order.PaymentSourcePaymentIntent,
	}, nil
}

func parseCartItems(raw string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}

	return items, nil
}

func normalizeAddress(a payment.Address) order.Address {
	return order.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		Country:    a.Country,
		State:      a.State,
		PostalCode: a.PostalCode,
	}
}

func validateCustomer(c order.Customer) error {
	switch {
	case c.Email == "":
		return fmt.Errorf("%w: email", ErrMissingCustomerField)
	case c.Address.Line1 == "":
		return fmt.Errorf("%w: address.line1", ErrMissingCustomerField)
	case c.Address.City == "":
		return fmt.Errorf("%w: address.city", ErrMissingCustomerField)
	case c.Address.Country == "":
		return fmt.Errorf("%w: address.country", ErrMissingCustomerField)
	}

	return nil
}

// minorToAmount converts the provider's minor-unit amount to a decimal
// amount, e.g. 2550 -> 25.50.
func minorToAmount(minor int64) float64 {
	return float64(minor) / 100
}

func statusFromProvider(status, success string) order.PaymentStatus {
	if status == success {
		return order.PaymentStatusSuccess
	}

	return order.PaymentStatusCancelled
}
