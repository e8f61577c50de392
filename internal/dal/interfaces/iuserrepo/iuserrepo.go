package iuserrepo

import "context"

// IUserRepository links orders to a user's order history. The user
// records themselves belong to the account service.
type IUserRepository interface {
	// AppendOrder adds the order to the user's history. The set is
	// append-only; duplicate appends are no-ops.
	AppendOrder(ctx context.Context, userID, orderID string) error
}
