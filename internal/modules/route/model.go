// README: Route result, traffic index formula, and routing failure taxonomy.
package route

import (
	"errors"
	"fmt"

	"cedar/internal/types"
)

// Result is the normalized traffic/duration/fare model derived from one
// routing call. It is replaced wholesale on every successful call, never
// partially updated.
type Result struct {
	DistanceKm           float64       `json:"distance_km"`
	DurationMin          int           `json:"duration_min"`            // baseline
	DurationInTrafficMin int           `json:"duration_in_traffic_min"` // live
	TrafficIndex         int           `json:"traffic_index"`           // 0-100
	SurplusMin           int           `json:"surplus_min"`             // >= 0
	Polyline             []types.Point `json:"polyline,omitempty"`      // display only
}

const (
	// Congestion ratio below this reads as free flow, above as gridlock.
	trafficRatioFloor   = 1.0
	trafficRatioCeiling = 2.5
)

// TrafficIndex maps the live/baseline duration ratio onto 0-100:
//
//	ratio = trafficMin / baselineMin        (baselineMin > 0, else 0)
//	clamped = clamp(ratio, 1.0, 2.5)
//	index = clamp(round(((clamped - 1) / 1.5) * 100), 0, 100)
func TrafficIndex(trafficMin, baselineMin int) int {
	if baselineMin <= 0 {
		return 0
	}
	ratio := float64(trafficMin) / float64(baselineMin)
	if ratio < trafficRatioFloor {
		ratio = trafficRatioFloor
	}
	if ratio > trafficRatioCeiling {
		ratio = trafficRatioCeiling
	}
	index := int(((ratio-trafficRatioFloor)/(trafficRatioCeiling-trafficRatioFloor))*100 + 0.5)
	if index < 0 {
		return 0
	}
	if index > 100 {
		return 100
	}
	return index
}

// ceilMinutes converts seconds to whole minutes, always rounding up.
// Under-quoting trip time is the unsafe direction.
func ceilMinutes(sec int) int {
	if sec <= 0 {
		return 0
	}
	return (sec + 59) / 60
}

// Failure taxonomy. Blocked and invalid-argument failures must not be
// retried silently; the caller re-triggers computation after remediation.
var (
	// ErrUnresolved: a required stop has no coordinates yet.
	ErrUnresolved = errors.New("input unresolved")
	// ErrBlocked: the provider denied access; routing stays blocked for the
	// session until explicitly reset.
	ErrBlocked = errors.New("routing provider access denied")
	// ErrInvalidArgument: the provider rejected the request as malformed.
	ErrInvalidArgument = errors.New("routing request rejected")
	// ErrTransient: any other routing failure; safe to retry by
	// re-triggering computation.
	ErrTransient = errors.New("routing failed")
)

// UnresolvedError names the first input that blocks quoting.
type UnresolvedError struct {
	Field string // "origin", "destination", "stop 1", ...
	Text  string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s is not resolved: %q", e.Field, e.Text)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }
