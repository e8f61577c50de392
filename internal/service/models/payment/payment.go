// Package payment holds the raw webhook payload shapes delivered by
// the payment provider. Field names mirror the provider wire format.
package payment

// Address is the provider's billing/shipping address block.
type Address struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	PostalCode string `json:"postal_code"`
	State      string `json:"state"`
}

// CustomerDetails is the customer block of a checkout session.
type CustomerDetails struct {
	Address Address `json:"address"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
}

// Shipping is the shipping block of a payment intent. Unlike
// CustomerDetails it carries no email; that arrives in the metadata.
type Shipping struct {
	Address Address `json:"address"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
}

// Metadata is attached to both event kinds when the checkout flow is
// created. CartItems is a JSON-encoded array of purchased lines.
type Metadata struct {
	CartItems  string `json:"cartItems"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Restaurant string `json:"restaurant"`
}

// CheckoutSession is the object of a checkout.session.completed event.
type CheckoutSession struct {
	ID              string          `json:"id"`
	AmountTotal     int64           `json:"amount_total"`
	Created         int64           `json:"created"`
	Customer        string          `json:"customer"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	Metadata        Metadata        `json:"metadata"`
	PaymentIntent   string          `json:"payment_intent"`
	PaymentStatus   string          `json:"payment_status"`
	Status          string          `json:"status"`
}

// PaymentIntent is the object of a payment_intent.succeeded event.
type PaymentIntent struct {
	ID           string   `json:"id"`
	Amount       int64    `json:"amount"`
	ClientSecret string   `json:"client_secret"`
	Created      int64    `json:"created"`
	Customer     string   `json:"customer"`
	Metadata     Metadata `json:"metadata"`
	Shipping     Shipping `json:"shipping"`
	Status       string   `json:"status"`
}
