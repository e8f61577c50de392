package delivery

import (
	"testing"
	"time"
)

func TestExpectedTime(t *testing.T) {
	tests := []struct {
		name        string
		leadMinutes string
		orderedAt   time.Time
		want        string
	}{
		{
			name:        "plain addition",
			leadMinutes: "30",
			orderedAt:   time.Date(2024, 1, 1, 12, 15, 0, 0, time.UTC),
			want:        "12:45",
		},
		{
			name:        "minute rollover into next hour",
			leadMinutes: "45",
			orderedAt:   time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
			want:        "13:15",
		},
		{
			name:        "day boundary rollover",
			leadMinutes: "45",
			orderedAt:   time.Date(2024, 1, 1, 23, 50, 0, 0, time.UTC),
			want:        "0:35",
		},
		{
			name:        "zero lead time yields order time",
			leadMinutes: "0",
			orderedAt:   time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC),
			want:        "9:05",
		},
		{
			name:        "empty lead time falls back to default",
			leadMinutes: "",
			orderedAt:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			want:        "9:30",
		},
		{
			name:        "unparsable lead time falls back to default",
			leadMinutes: "soon",
			orderedAt:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			want:        "9:30",
		},
		{
			name:        "minute is zero padded",
			leadMinutes: "5",
			orderedAt:   time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC),
			want:        "14:05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedTime(tt.leadMinutes, tt.orderedAt); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpectedDate(t *testing.T) {
	now := time.Date(2024, 1, 30, 10, 0, 0, 0, time.UTC)

	if got := ExpectedDate(now, 0); got != "January 30, 2024" {
		t.Errorf("expected January 30, 2024, got %q", got)
	}
	// Month rollover handled by AddDate.
	if got := ExpectedDate(now, 3); got != "February 2, 2024" {
		t.Errorf("expected February 2, 2024, got %q", got)
	}
}
