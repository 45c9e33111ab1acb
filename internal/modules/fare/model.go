// README: Fare quote and modifiers.
package fare

// Modifiers are the operator-selected fare adjustments.
type Modifiers struct {
	RoundTrip   bool    `json:"round_trip"`
	AddWaitTime bool    `json:"add_wait_time"`
	WaitHours   float64 `json:"wait_hours"`
}

// Quote is the priced estimate for one route. It is a pure function of
// distance, modifiers, and the rate card, and is never persisted on its own.
type Quote struct {
	FareUsd            int64 `json:"fare_usd"`
	FareLbp            int64 `json:"fare_lbp"`
	MinimumFareApplied bool  `json:"minimum_fare_applied"`
}
