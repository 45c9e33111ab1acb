// README: Multi-factor weighted driver ranking with fairness rotation and governance blocking.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cedar/internal/modules/fleet"
	"cedar/internal/modules/trip"
	"cedar/internal/types"
)

// Rank scores every driver against the quote context and returns them
// sorted by overall score descending, ties broken by name ascending. Inputs
// are treated as a read-only snapshot; the function is pure and idempotent.
func Rank(drivers []fleet.Driver, history []trip.Trip, ctx Context) []DriverScore {
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	agg := aggregate(history, ctx.CustomerPhone, now)

	scores := make([]DriverScore, 0, len(drivers))
	for _, d := range drivers {
		scores = append(scores, scoreDriver(d, agg[d.ID], ctx, now))
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Overall != scores[j].Overall {
			return scores[i].Overall > scores[j].Overall
		}
		if scores[i].Name != scores[j].Name {
			return scores[i].Name < scores[j].Name
		}
		return scores[i].DriverID < scores[j].DriverID
	})
	return scores
}

// driverHistory is the per-driver digest of the trip snapshot.
type driverHistory struct {
	completed     int
	ended         int // completed + cancelled
	customerTrips int // completed trips with the context's customer
	recentTrips   int // trips dispatched within the fairness window
	lastEnd       *time.Time
}

func aggregate(history []trip.Trip, customerPhone string, now time.Time) map[types.ID]driverHistory {
	agg := make(map[types.ID]driverHistory)
	windowStart := now.Add(-fairnessWindow)
	for _, t := range history {
		h := agg[t.DriverID]
		switch t.Status {
		case trip.StatusCompleted:
			h.completed++
			h.ended++
			if customerPhone != "" && t.CustomerPhone == customerPhone {
				h.customerTrips++
			}
		case trip.StatusCancelled:
			h.ended++
		}
		if end := t.EndedAt(); end != nil {
			if h.lastEnd == nil || end.After(*h.lastEnd) {
				h.lastEnd = end
			}
		}
		if t.CreatedAt.After(windowStart) && !t.CreatedAt.After(now) {
			h.recentTrips++
		}
		agg[t.DriverID] = h
	}
	return agg
}

func scoreDriver(d fleet.Driver, h driverHistory, ctx Context, now time.Time) DriverScore {
	sub := Subscores{
		Availability: availabilityScore(d),
		Readiness:    readinessScore(d),
		TripFit:      tripFitScore(d, h, ctx),
		Performance:  performanceScore(h),
		Governance:   governanceScore(d),
	}

	weighted := float64(sub.Availability)*weightAvailability +
		float64(sub.Readiness)*weightReadiness +
		float64(sub.TripFit)*weightTripFit +
		float64(sub.Performance)*weightPerformance +
		float64(sub.Governance)*weightGovernance

	if ctx.SelectedDriverID != "" && d.ID == ctx.SelectedDriverID {
		weighted += assignmentBoost
	}

	fairness := fairnessPenalty(h, now)
	score := weighted - fairness

	blocked := d.CurrentStatus == fleet.DutyOffDuty || d.Status != fleet.StatusActive
	if blocked && score > governanceCeiling {
		score = governanceCeiling
	}

	return DriverScore{
		DriverID:            d.ID,
		Name:                d.Name,
		Overall:             clampInt(int(math.Round(score)), 0, 100),
		Subscores:           sub,
		FairnessPenalty:     fairness,
		IsGovernanceBlocked: blocked,
		Reasons:             reasons(d, h, ctx, fairness, blocked),
	}
}

func availabilityScore(d fleet.Driver) int {
	switch d.CurrentStatus {
	case fleet.DutyAvailable:
		return availabilityAvailable
	case fleet.DutyBusy:
		return availabilityBusy
	default:
		return availabilityOffDuty
	}
}

// readinessScore is penalty-based: each maintenance band contributes a fixed
// penalty, and the result is clamped to [floor, 100].
func readinessScore(d fleet.Driver) int {
	penalty := 0
	switch {
	case d.FuelRangeKm < fuelHeavyBelowKm:
		penalty += readinessHeavy
	case d.FuelRangeKm < fuelLightBelowKm:
		penalty += readinessLight
	}
	switch {
	case d.KmSinceOilChange() > oilHeavyAboveKm:
		penalty += readinessHeavy
	case d.KmSinceOilChange() > oilLightAboveKm:
		penalty += readinessLight
	}
	switch {
	case d.KmSinceCheckup() > checkupHeavyAboveKm:
		penalty += readinessHeavy
	case d.KmSinceCheckup() > checkupLightAboveKm:
		penalty += readinessLight
	}
	return clampInt(100-penalty, readinessFloor, 100)
}

// tripFitScore blends customer affinity with a traffic-conditioned
// availability bonus: under a congested quote, idle drivers are favored more
// strongly.
func tripFitScore(d fleet.Driver, h driverHistory, ctx Context) int {
	fit := tripFitBase

	affinity := h.customerTrips * affinityPerTrip
	if affinity > affinityCap {
		affinity = affinityCap
	}
	fit += affinity

	if d.CurrentStatus == fleet.DutyAvailable {
		if ctx.TrafficIndex >= highTrafficThreshold {
			fit += fitAvailableHighTraffic
		} else {
			fit += fitAvailableLowTraffic
		}
	}
	return clampInt(fit, 0, 100)
}

func performanceScore(h driverHistory) int {
	if h.ended == 0 {
		return performanceNeutral
	}
	smoothed := (float64(h.completed)*100 + performanceNeutral*performanceSmoothingN) /
		float64(h.ended+performanceSmoothingN)
	return clampInt(int(math.Round(smoothed)), 0, 100)
}

func governanceScore(d fleet.Driver) int {
	score := 100
	if d.CurrentStatus == fleet.DutyOffDuty {
		score -= governancePenalty
	}
	if d.Status != fleet.StatusActive {
		score -= governancePenalty
	}
	if score < 0 {
		score = 0
	}
	return score
}

// fairnessPenalty is subtracted after weighting. It is not part of the
// weighted sum.
func fairnessPenalty(h driverHistory, now time.Time) float64 {
	penalty := 0.0
	if h.recentTrips >= fairnessWindowTrips {
		penalty += fairnessWindowPenalty
	}
	if h.lastEnd != nil {
		rest := now.Sub(*h.lastEnd)
		switch {
		case rest >= 0 && rest < fairnessRestShort:
			penalty += fairnessRestShortPoints
		case rest >= 0 && rest < fairnessRestLong:
			penalty += fairnessRestLongPoints
		}
	}
	if h.customerTrips >= fairnessCustomerTrips {
		penalty += fairnessCustomerPoints
	}
	return penalty
}

// reasons builds the operator-facing justification list, capped at
// maxReasons. Cosmetic only: it never feeds back into the score.
func reasons(d fleet.Driver, h driverHistory, ctx Context, fairness float64, blocked bool) []string {
	var out []string
	if blocked {
		out = append(out, "Not eligible: off duty or inactive profile")
	}
	switch d.CurrentStatus {
	case fleet.DutyAvailable:
		if ctx.TrafficIndex >= highTrafficThreshold {
			out = append(out, "Available now, idle capacity in heavy traffic")
		} else {
			out = append(out, "Available now")
		}
	case fleet.DutyBusy:
		out = append(out, "Currently on a trip")
	}
	if h.customerTrips > 0 {
		out = append(out, fmt.Sprintf("Handled %d trips for this customer", h.customerTrips))
	}
	if readinessScore(d) <= 100-readinessHeavy {
		out = append(out, "Vehicle due for maintenance")
	}
	if fairness > 0 {
		out = append(out, "Recently assigned")
	}
	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
