// README: Fare calculator; pure, total, deterministic.
package fare

import (
	"math"

	"cedar/internal/config"
)

type Service struct {
	rates config.RateConfig
}

func NewService(rates config.RateConfig) *Service {
	return &Service{rates: rates}
}

// Rates exposes the active rate card (read-only to this core).
func (s *Service) Rates() config.RateConfig {
	return s.rates
}

// Compute prices a trip:
//
//	base     = ceil(distanceKm * (roundTrip ? 2 : 1) * ratePerKm)
//	wait     = addWaitTime ? ceil(waitHours * hourlyWaitRate) : 0
//	finalUsd = max(base + wait, minimumFareUsd)
//	finalLbp = finalUsd * exchangeRate
//
// It never fails: non-finite inputs are coerced to 0 and waitHours is
// clamped to >= 0 before use.
func (s *Service) Compute(distanceKm float64, mods Modifiers) Quote {
	return Compute(distanceKm, mods, s.rates)
}

// Compute is the package-level pure form for callers that carry their own
// rate card.
func Compute(distanceKm float64, mods Modifiers, rates config.RateConfig) Quote {
	distanceKm = sanitize(distanceKm)

	multiplier := 1.0
	if mods.RoundTrip {
		multiplier = 2.0
	}
	base := int64(math.Ceil(distanceKm * multiplier * sanitize(rates.RatePerKm)))

	var wait int64
	if mods.AddWaitTime {
		waitHours := sanitize(mods.WaitHours)
		wait = int64(math.Ceil(waitHours * sanitize(rates.HourlyWaitRate)))
	}

	computed := base + wait
	finalUsd := computed
	minimumApplied := computed < rates.MinimumFareUsd
	if minimumApplied {
		finalUsd = rates.MinimumFareUsd
	}

	return Quote{
		FareUsd:            finalUsd,
		FareLbp:            int64(float64(finalUsd) * sanitize(rates.ExchangeRate)),
		MinimumFareApplied: minimumApplied,
	}
}

// sanitize coerces NaN/Inf to 0 and clamps negatives to 0 so the calculator
// stays total over its numeric domain.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
