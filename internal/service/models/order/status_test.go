package order

import "testing"

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED"} {
		status, err := ParseStatus(valid)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", valid, err)
		}
		if status.String() != valid {
			t.Fatalf("expected %q, got %q", valid, status)
		}
	}

	for _, invalid := range []string{"", "pending", "CANCELLED", "REFUNDED"} {
		if _, err := ParseStatus(invalid); err != ErrInvalidStatus {
			t.Fatalf("expected ErrInvalidStatus for %q, got %v", invalid, err)
		}
	}
}

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusDelivered, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusPending, false},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusDelivered, false},
		{Status("UNKNOWN"), StatusDelivered, false},
		{StatusPending, Status("UNKNOWN"), false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}
