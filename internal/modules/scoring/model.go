// README: Driver recommendation score model and tuning constants.
package scoring

import (
	"time"

	"cedar/internal/types"
)

// Context is the quote-side input to a ranking call. Zero values mean "no
// current quote": TrafficIndex 0, empty customer phone, no tentative
// selection.
type Context struct {
	TrafficIndex     int
	CustomerPhone    string
	SelectedDriverID types.ID
	// Now anchors the fairness window; zero means wall-clock at rank time.
	Now time.Time
}

// Subscores are the per-factor components, each 0-100.
type Subscores struct {
	Availability int `json:"availability"`
	Readiness    int `json:"readiness"`
	TripFit      int `json:"trip_fit"`
	Performance  int `json:"performance"`
	Governance   int `json:"governance"`
}

// DriverScore is ephemeral: recomputed per ranking call, never persisted.
type DriverScore struct {
	DriverID            types.ID  `json:"driver_id"`
	Name                string    `json:"name"`
	Overall             int       `json:"overall"`
	Subscores           Subscores `json:"subscores"`
	FairnessPenalty     float64   `json:"fairness_penalty"`
	IsGovernanceBlocked bool      `json:"is_governance_blocked"`
	Reasons             []string  `json:"reasons"`
}

// Tuning constants. The weights, penalty bands, and the governance cap are
// empirically chosen and deliberately kept as-is rather than re-derived.
const (
	weightAvailability = 0.32
	weightReadiness    = 0.24
	weightTripFit      = 0.16
	weightPerformance  = 0.14
	weightGovernance   = 0.14

	availabilityAvailable = 100
	availabilityBusy      = 55
	availabilityOffDuty   = 10

	// Readiness penalty bands: fuel range remaining, distance since oil
	// service, distance since checkup.
	readinessFloor      = 5
	fuelHeavyBelowKm    = 50.0
	fuelLightBelowKm    = 110.0
	oilHeavyAboveKm     = 7000.0
	oilLightAboveKm     = 4500.0
	checkupHeavyAboveKm = 12000.0
	checkupLightAboveKm = 7000.0
	readinessHeavy      = 30
	readinessLight      = 12

	// Trip fit: customer affinity plus a traffic-conditioned availability
	// bonus — idle capacity matters more in congestion.
	tripFitBase             = 40
	affinityPerTrip         = 15
	affinityCap             = 45
	highTrafficThreshold    = 60
	fitAvailableHighTraffic = 15
	fitAvailableLowTraffic  = 7

	// Performance: completion rate shrunk toward a neutral baseline so new
	// drivers are not penalized for lack of data.
	performanceNeutral    = 70
	performanceSmoothingN = 4

	governancePenalty = 60

	// assignmentBoost stabilizes the ranking while the operator is
	// mid-selection.
	assignmentBoost = 4.0

	// Fairness: discourage over-assigning one driver in a short window.
	fairnessWindow          = 90 * time.Minute
	fairnessWindowTrips     = 2
	fairnessWindowPenalty   = 8.0
	fairnessRestShort       = 30 * time.Minute
	fairnessRestShortPoints = 6.0
	fairnessRestLong        = 60 * time.Minute
	fairnessRestLongPoints  = 3.0
	fairnessCustomerTrips   = 3
	fairnessCustomerPoints  = 2.0

	// governanceCeiling caps the pre-rounding score of an off-duty or
	// profile-inactive driver; they stay visible but never read as
	// recommended.
	governanceCeiling = 38.0

	maxReasons = 3
)
