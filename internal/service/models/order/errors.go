package order

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateReference = errors.New("order with this payment reference already exists")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("order status can only move forward")
	ErrNoRestaurant       = errors.New("merchant does not own a restaurant")
	ErrNotRestaurantOwner = errors.New("not authorized to update orders of this restaurant")
)
