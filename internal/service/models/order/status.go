package order

// Status is the fulfillment state of an order. States only move
// forward: PENDING -> PROCESSING -> SHIPPED -> DELIVERED.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
)

var statusRank = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from s to target is a legal
// forward step. Any forward move is allowed, backward moves and
// self-transitions are not.
func (s Status) CanTransitionTo(target Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}

	return to > from
}

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := statusRank[status]; !ok {
		return "", ErrInvalidStatus
	}

	return status, nil
}
