package trip

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusDispatched, StatusEnRoute, true},
		{StatusDispatched, StatusCancelled, true},
		{StatusDispatched, StatusCompleted, false},
		{StatusEnRoute, StatusCompleted, true},
		{StatusEnRoute, StatusCancelled, true},
		{StatusEnRoute, StatusDispatched, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusEnRoute, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusDispatched, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTrip_EndedAt(t *testing.T) {
	completed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cancelled := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)

	if got := (Trip{}).EndedAt(); got != nil {
		t.Errorf("active trip EndedAt = %v, want nil", got)
	}
	if got := (Trip{CompletedAt: &completed}).EndedAt(); got == nil || !got.Equal(completed) {
		t.Errorf("completed trip EndedAt = %v", got)
	}
	if got := (Trip{CancelledAt: &cancelled}).EndedAt(); got == nil || !got.Equal(cancelled) {
		t.Errorf("cancelled trip EndedAt = %v", got)
	}
}
