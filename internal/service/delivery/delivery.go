// Package delivery computes customer-facing delivery estimates from a
// restaurant's configured lead time.
package delivery

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultLeadTimeMinutes is used when a restaurant has no configured
// lead time.
const DefaultLeadTimeMinutes = "30"

// ExpectedTime adds the restaurant lead time (minutes, as stored on
// the restaurant record) to the order timestamp and renders the result
// as "H:MM", 24-hour, without a zero-padded hour. Calendar arithmetic
// is delegated to time.Add, so minute and day rollover come for free.
func ExpectedTime(leadMinutes string, orderedAt time.Time) string {
	if leadMinutes == "" {
		leadMinutes = DefaultLeadTimeMinutes
	}

	minutes, err := strconv.Atoi(leadMinutes)
	if err != nil {
		minutes, _ = strconv.Atoi(DefaultLeadTimeMinutes)
	}

	deliveredAt := orderedAt.Add(time.Duration(minutes) * time.Minute)

	return fmt.Sprintf("%d:%02d", deliveredAt.Hour(), deliveredAt.Minute())
}

// ExpectedDate renders "now + daysToAdd" in a long human-readable
// form, used in shipped-style notifications.
func ExpectedDate(now time.Time, daysToAdd int) string {
	return now.AddDate(0, 0, daysToAdd).Format("January 2, 2006")
}
