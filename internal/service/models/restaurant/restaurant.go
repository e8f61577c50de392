package restaurant

import (
	"errors"
	"time"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

// Restaurant is the read model this service consumes: lead time for
// delivery estimation and the owning merchant for authorization.
type Restaurant struct {
	ID                   string    `json:"id"`
	MerchantID           string    `json:"merchant"`
	Name                 string    `json:"name"`
	ExpectedDeliveryTime string    `json:"expectedDeliveryTime"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}
