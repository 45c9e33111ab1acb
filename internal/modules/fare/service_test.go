package fare

import (
	"math"
	"testing"

	"cedar/internal/config"
)

var testRates = config.RateConfig{
	RatePerKm:      1.10,
	HourlyWaitRate: 10.0,
	ExchangeRate:   89000,
	MinimumFareUsd: 7,
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name        string
		distanceKm  float64
		mods        Modifiers
		wantUsd     int64
		wantMinimum bool
	}{
		{
			// ceil(10 * 1.10) = 11
			name:       "one way above minimum",
			distanceKm: 10,
			wantUsd:    11,
		},
		{
			// ceil(2 * 1.10) = 3 -> minimum 7
			name:        "short hop hits the minimum",
			distanceKm:  2,
			wantUsd:     7,
			wantMinimum: true,
		},
		{
			// ceil(10 * 2 * 1.10) = 22
			name:       "round trip doubles distance before rounding",
			distanceKm: 10,
			mods:       Modifiers{RoundTrip: true},
			wantUsd:    22,
		},
		{
			// base ceil(4 * 1.10) = 5, wait ceil(1.5 * 10) = 15
			name:       "wait time added",
			distanceKm: 4,
			mods:       Modifiers{AddWaitTime: true, WaitHours: 1.5},
			wantUsd:    20,
		},
		{
			// wait hours ignored unless the modifier is on
			name:       "wait hours without the flag",
			distanceKm: 10,
			mods:       Modifiers{WaitHours: 3},
			wantUsd:    11,
		},
		{
			name:        "zero distance is the minimum",
			distanceKm:  0,
			wantUsd:     7,
			wantMinimum: true,
		},
		{
			// exactly at the minimum: ceil(6.4 * 1.10) = 8 > 7, but
			// ceil(6.36 * 1.10) = 7 means the minimum is not "applied"
			name:       "computed fare equal to the minimum",
			distanceKm: 6.36,
			wantUsd:    7,
		},
		{
			name:        "negative distance coerced to zero",
			distanceKm:  -5,
			wantUsd:     7,
			wantMinimum: true,
		},
		{
			name:        "NaN distance coerced to zero",
			distanceKm:  math.NaN(),
			wantUsd:     7,
			wantMinimum: true,
		},
		{
			name:        "infinite distance coerced to zero",
			distanceKm:  math.Inf(1),
			wantUsd:     7,
			wantMinimum: true,
		},
		{
			// negative wait hours clamp to zero
			name:        "negative wait hours",
			distanceKm:  2,
			mods:        Modifiers{AddWaitTime: true, WaitHours: -4},
			wantUsd:     7,
			wantMinimum: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.distanceKm, tt.mods, testRates)
			if got.FareUsd != tt.wantUsd {
				t.Errorf("FareUsd = %d, want %d", got.FareUsd, tt.wantUsd)
			}
			if got.MinimumFareApplied != tt.wantMinimum {
				t.Errorf("MinimumFareApplied = %v, want %v", got.MinimumFareApplied, tt.wantMinimum)
			}
			if got.FareLbp != got.FareUsd*89000 {
				t.Errorf("FareLbp = %d, want %d", got.FareLbp, got.FareUsd*89000)
			}
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	mods := Modifiers{RoundTrip: true, AddWaitTime: true, WaitHours: 2}
	first := Compute(12.7, mods, testRates)
	for i := 0; i < 10; i++ {
		if got := Compute(12.7, mods, testRates); got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}

func TestService_Compute(t *testing.T) {
	s := NewService(testRates)
	got := s.Compute(10, Modifiers{})
	if got.FareUsd != 11 {
		t.Errorf("FareUsd = %d, want 11", got.FareUsd)
	}
	if s.Rates().MinimumFareUsd != 7 {
		t.Errorf("rate card not exposed: %+v", s.Rates())
	}
}
