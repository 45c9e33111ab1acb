package fleet

import (
	"math"
	"testing"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 33.8938, lng1: 35.5018,
			lat2: 33.8938, lng2: 35.5018,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "Beirut to Jounieh (~16km)",
			lat1: 33.8938, lng1: 35.5018,
			lat2: 33.9808, lng2: 35.6178,
			wantKm:    14.5,
			tolerance: 2.0,
		},
		{
			name: "Beirut to Tripoli (~67km)",
			lat1: 33.8938, lng1: 35.5018,
			lat2: 34.4367, lng2: 35.8497,
			wantKm:    67,
			tolerance: 5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := haversineKm(33.0, 35.0, 34.0, 36.0)
	d2 := haversineKm(34.0, 36.0, 33.0, 35.0)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestSortByDistance_Drivers(t *testing.T) {
	drivers := []DriverDistance{
		{Driver: Driver{ID: "c"}, DistanceKm: 5.0},
		{Driver: Driver{ID: "a"}, DistanceKm: 1.0},
		{Driver: Driver{ID: "b"}, DistanceKm: 3.0},
	}

	sortByDistance(drivers, func(d DriverDistance) float64 { return d.DistanceKm })

	if drivers[0].Driver.ID != "a" || drivers[1].Driver.ID != "b" || drivers[2].Driver.ID != "c" {
		t.Errorf("unexpected sort order: %v", drivers)
	}
}

func TestSortByDistance_Empty(t *testing.T) {
	var drivers []DriverDistance
	sortByDistance(drivers, func(d DriverDistance) float64 { return d.DistanceKm })
}

func TestSortByDistance_Single(t *testing.T) {
	drivers := []DriverDistance{
		{Driver: Driver{ID: "a"}, DistanceKm: 2.0},
	}
	sortByDistance(drivers, func(d DriverDistance) float64 { return d.DistanceKm })
	if drivers[0].Driver.ID != "a" {
		t.Errorf("single element sort failed")
	}
}
