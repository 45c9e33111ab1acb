// README: Quote orchestrator ranking-snapshot tests.
package quote

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cedar/internal/modules/fleet"
	"cedar/internal/modules/scoring"
	"cedar/internal/modules/trip"
	"cedar/internal/types"
)

type fakeFleetSource struct {
	drivers []fleet.Driver
	err     error
}

func (f *fakeFleetSource) List(ctx context.Context) ([]fleet.Driver, error) {
	return f.drivers, f.err
}

type fakeHistorySource struct {
	trips []trip.Trip
	err   error
}

func (f *fakeHistorySource) HistorySnapshot(ctx context.Context) ([]trip.Trip, error) {
	return f.trips, f.err
}

func rankingDriver(id, name string, status fleet.Status) fleet.Driver {
	return fleet.Driver{
		ID:            types.ID(id),
		Name:          name,
		PlateNumber:   "B" + id,
		Status:        status,
		CurrentStatus: fleet.DutyAvailable,
		BaseMileage:   12000,
		LastOilChange: 12000,
		LastCheckup:   12000,
		FuelRangeKm:   300,
		CreatedAt:     time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRankDrivers_InactiveProfileStaysVisible(t *testing.T) {
	fleetSrc := &fakeFleetSource{drivers: []fleet.Driver{
		rankingDriver("d1", "Amal", fleet.StatusActive),
		rankingDriver("d2", "Karim", fleet.StatusInactive),
	}}
	svc := NewService(nil, nil, nil, fleetSrc, &fakeHistorySource{})

	scores, err := svc.RankDrivers(context.Background(), RankCommand{
		Context: scoring.Context{Now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("RankDrivers: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected both drivers in the ranking, got %d", len(scores))
	}

	var inactive *scoring.DriverScore
	for i := range scores {
		if scores[i].Name == "Karim" {
			inactive = &scores[i]
		}
	}
	if inactive == nil {
		t.Fatal("inactive-profile driver missing from ranking")
	}
	if !inactive.IsGovernanceBlocked {
		t.Error("inactive-profile driver should be governance blocked")
	}
	if inactive.Overall > 38 {
		t.Errorf("blocked driver overall = %d, want <= 38", inactive.Overall)
	}
	if scores[0].Name != "Amal" {
		t.Errorf("eligible driver should rank first, got %q", scores[0].Name)
	}
}

func TestRankDrivers_SnapshotErrorsSurface(t *testing.T) {
	boom := errors.New("pool closed")

	svc := NewService(nil, nil, nil, &fakeFleetSource{err: boom}, &fakeHistorySource{})
	_, err := svc.RankDrivers(context.Background(), RankCommand{})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "fleet snapshot") {
		t.Errorf("expected wrapped fleet snapshot error, got %v", err)
	}

	svc = NewService(nil, nil, nil, &fakeFleetSource{}, &fakeHistorySource{err: boom})
	_, err = svc.RankDrivers(context.Background(), RankCommand{})
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "trip snapshot") {
		t.Errorf("expected wrapped trip snapshot error, got %v", err)
	}
}
