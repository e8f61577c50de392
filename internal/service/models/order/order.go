package order

import (
	"time"
)

// PaymentSource tags which provider event an order was materialized from.
type PaymentSource string

const (
	PaymentSourceCheckoutSession PaymentSource = "checkout_session"
	PaymentSourcePaymentIntent   PaymentSource = "payment_intent"
)

func (p PaymentSource) String() string {
	return string(p)
}

// PaymentStatus is the normalized provider payment outcome.
type PaymentStatus string

const (
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

func (p PaymentStatus) String() string {
	return string(p)
}

// Address is the delivery address captured from the payment provider.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Country    string `json:"country"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Customer is an embedded snapshot of the purchasing user. It is copied
// into the order at creation time so the order survives deletion of the
// user record.
type Customer struct {
	Address  Address `json:"address"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	UserID   string  `json:"user"`
	Username string  `json:"username"`
}

// PaymentInfo holds the provider references for an order. SessionID and
// PaymentIntent double as the idempotency keys for webhook retries.
type PaymentInfo struct {
	SessionID     string        `json:"sessionId"`
	PaymentIntent string        `json:"paymentIntent"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Customer      string        `json:"customer"`
	RestaurantID  string        `json:"restaurant"`
}

// OrderItem is a single purchased product line.
type OrderItem struct {
	ProductID    string `json:"product"`
	Quantity     int    `json:"quantity"`
	RestaurantID string `json:"restaurant"`
}

// Order represents a paid order in the system.
type Order struct {
	ID                   string        `json:"id"`
	TotalAmount          float64       `json:"totalAmount"`
	OrderedDate          time.Time     `json:"orderedDate"`
	Items                []OrderItem   `json:"items"`
	Customer             Customer      `json:"customer"`
	PaymentInfo          PaymentInfo   `json:"paymentInfo"`
	OrderStatus          Status        `json:"orderStatus"`
	ExpectedDeliveryTime string        `json:"expectedDeliveryTime"`
	PaymentBy            PaymentSource `json:"paymentBy"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// Query represents filter parameters for listing orders.
type Query struct {
	CustomerUserID string `json:"customerUserId,omitempty"`
	RestaurantID   string `json:"restaurantId,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
}
