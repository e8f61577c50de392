package iorderrepo

import (
	"context"

	"github.com/overwatch-coder/souppp-ecom/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	// Insert persists a new order. It returns
	// order.ErrDuplicateReference when an order with the same provider
	// reference already exists.
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, id string) (*order.Order, error)
	// GetByExternalReference finds an order whose payment session id
	// or payment intent matches ref.
	GetByExternalReference(ctx context.Context, ref string) (*order.Order, error)
	UpdateStatus(ctx context.Context, id string, status order.Status) (*order.Order, error)
	Query(ctx context.Context, filter *order.Query) ([]order.Order, error)
	// DeleteByOwner removes an order only when the given email matches
	// the order's customer snapshot.
	DeleteByOwner(ctx context.Context, id, email string) error
}
