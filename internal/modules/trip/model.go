// README: Trip record and dispatch status definitions.
package trip

import (
	"time"

	"cedar/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusDispatched Status = "dispatched"
	StatusEnRoute    Status = "en_route"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Trip is the dispatchable record the caller assembles from a priced quote
// and a ranked driver. The scorer reads completed/cancelled history from it.
type Trip struct {
	ID            types.ID
	DriverID      types.ID
	CustomerPhone string
	Status        Status
	StatusVersion int

	OriginText      string
	Origin          types.Point
	DestinationText string
	Destination     types.Point

	DistanceKm           float64
	DurationInTrafficMin int
	TrafficIndex         int
	FareUsd              int64
	FareLbp              int64
	MinimumFareApplied   bool
	RoundTrip            bool

	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason *string
}

// EndedAt is when the trip left the active pool, if it has.
func (t Trip) EndedAt() *time.Time {
	if t.CompletedAt != nil {
		return t.CompletedAt
	}
	return t.CancelledAt
}

type Event struct {
	ID         int64
	TripID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the dispatch state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusDispatched: {StatusEnRoute, StatusCancelled},
	StatusEnRoute:    {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
