package route

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"cedar/internal/config"
	"cedar/internal/maps"
	"cedar/internal/modules/location"
	"cedar/internal/types"
)

type fakeRouter struct {
	resp    maps.RouteResponse
	err     error
	lastReq maps.RouteRequest
	calls   int
}

func (f *fakeRouter) Geocode(_ context.Context, _ maps.GeocodeRequest) ([]maps.Candidate, error) {
	return nil, errors.New("not used")
}

func (f *fakeRouter) PlaceSearch(_ context.Context, _ maps.PlaceSearchRequest) ([]maps.Candidate, error) {
	return nil, errors.New("not used")
}

func (f *fakeRouter) ReverseGeocode(_ context.Context, _ types.Point) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeRouter) ComputeRoute(_ context.Context, req maps.RouteRequest) (maps.RouteResponse, error) {
	f.calls++
	f.lastReq = req
	return f.resp, f.err
}

func newTestService(fake *fakeRouter) *Service {
	s := NewService(fake, config.RoutingConfig{MinLeadMinutes: 3})
	s.now = func() time.Time {
		return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func resolvedStop(text string, lat, lng float64) location.Stop {
	return location.ResolvedStop(location.Location{Lat: lat, Lng: lng, SourceText: text})
}

func TestCompute_NamesFirstUnresolvedInput(t *testing.T) {
	origin := resolvedStop("Hamra", 33.8959, 35.4785)
	destination := resolvedStop("Airport", 33.8209, 35.4884)

	unresolved := location.NewStop("somewhere")
	stale := resolvedStop("Gemmayzeh", 33.8957, 35.5144)
	stale.EditText("Gemmayzeh 99")

	tests := []struct {
		name      string
		cmd       ComputeCommand
		wantField string
	}{
		{
			"unresolved origin",
			ComputeCommand{Origin: unresolved, Destination: destination},
			"origin",
		},
		{
			"unresolved destination",
			ComputeCommand{Origin: origin, Destination: unresolved},
			"destination",
		},
		{
			"stale stop blocks too",
			ComputeCommand{Origin: origin, Destination: destination, Stops: []location.Stop{stale}},
			"stop 1",
		},
		{
			"second stop named by position",
			ComputeCommand{
				Origin: origin, Destination: destination,
				Stops: []location.Stop{resolvedStop("ok", 33.9, 35.5), unresolved},
			},
			"stop 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRouter{}
			s := newTestService(fake)
			_, err := s.Compute(context.Background(), tt.cmd)
			var ue *UnresolvedError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %v, want *UnresolvedError", err)
			}
			if ue.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ue.Field, tt.wantField)
			}
			if !errors.Is(err, ErrUnresolved) {
				t.Error("unresolved error should unwrap to ErrUnresolved")
			}
			if fake.calls != 0 {
				t.Errorf("provider called %d times before preconditions", fake.calls)
			}
		})
	}
}

func TestCompute_BuildsResultWithCeilings(t *testing.T) {
	fake := &fakeRouter{
		resp: maps.RouteResponse{
			DistanceMeters:    8432,
			DurationSec:       1501, // 26 min ceiled
			StaticDurationSec: 1141, // 20 min ceiled
		},
	}
	s := newTestService(fake)

	got, err := s.Compute(context.Background(), ComputeCommand{
		Origin:      resolvedStop("Hamra", 33.8959, 35.4785),
		Destination: resolvedStop("Airport", 33.8209, 35.4884),
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(got.DistanceKm-8.432) > 1e-9 {
		t.Errorf("DistanceKm = %v", got.DistanceKm)
	}
	if got.DurationMin != 20 || got.DurationInTrafficMin != 26 {
		t.Errorf("durations = %d/%d, want 20/26", got.DurationMin, got.DurationInTrafficMin)
	}
	if got.SurplusMin != 6 {
		t.Errorf("SurplusMin = %d, want 6", got.SurplusMin)
	}
	if got.TrafficIndex != TrafficIndex(26, 20) {
		t.Errorf("TrafficIndex = %d", got.TrafficIndex)
	}
}

func TestCompute_MissingBaselineFallsBackToLive(t *testing.T) {
	fake := &fakeRouter{
		resp: maps.RouteResponse{DistanceMeters: 5000, DurationSec: 900},
	}
	s := newTestService(fake)

	got, err := s.Compute(context.Background(), ComputeCommand{
		Origin:      resolvedStop("A", 33.9, 35.5),
		Destination: resolvedStop("B", 33.8, 35.5),
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.DurationMin != got.DurationInTrafficMin {
		t.Errorf("fallback baseline should equal live: %d vs %d", got.DurationMin, got.DurationInTrafficMin)
	}
	if got.TrafficIndex != 0 || got.SurplusMin != 0 {
		t.Errorf("fallback should read as free flow: index=%d surplus=%d", got.TrafficIndex, got.SurplusMin)
	}
}

func TestCompute_SafeDeparture(t *testing.T) {
	fake := &fakeRouter{resp: maps.RouteResponse{DistanceMeters: 1000, DurationSec: 120}}
	s := newTestService(fake)
	now := s.now()
	floor := now.Add(3 * time.Minute)

	cmd := ComputeCommand{
		Origin:      resolvedStop("A", 33.9, 35.5),
		Destination: resolvedStop("B", 33.8, 35.5),
	}

	// Zero requested time floors at now + lead.
	if _, err := s.Compute(context.Background(), cmd); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !fake.lastReq.DepartureTime.Equal(floor) {
		t.Errorf("departure = %v, want floor %v", fake.lastReq.DepartureTime, floor)
	}

	// A near-past request is floored too.
	cmd.RequestedTime = now.Add(-10 * time.Minute)
	if _, err := s.Compute(context.Background(), cmd); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !fake.lastReq.DepartureTime.Equal(floor) {
		t.Errorf("near-past departure = %v, want floor %v", fake.lastReq.DepartureTime, floor)
	}

	// A genuinely future request passes through.
	future := now.Add(2 * time.Hour)
	cmd.RequestedTime = future
	if _, err := s.Compute(context.Background(), cmd); err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !fake.lastReq.DepartureTime.Equal(future) {
		t.Errorf("future departure = %v, want %v", fake.lastReq.DepartureTime, future)
	}
}

func TestCompute_AccessDeniedBlocksSession(t *testing.T) {
	fake := &fakeRouter{err: fmt.Errorf("%w: REQUEST_DENIED", maps.ErrAccessDenied)}
	s := newTestService(fake)
	cmd := ComputeCommand{
		Origin:      resolvedStop("A", 33.9, 35.5),
		Destination: resolvedStop("B", 33.8, 35.5),
	}

	_, err := s.Compute(context.Background(), cmd)
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked", err)
	}
	if !s.Blocked() {
		t.Fatal("session should be blocked after a denial")
	}

	// Subsequent calls fail fast without touching the provider.
	calls := fake.calls
	if _, err := s.Compute(context.Background(), cmd); !errors.Is(err, ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked while blocked", err)
	}
	if fake.calls != calls {
		t.Error("provider called while the session is blocked")
	}

	s.ResetBlock()
	if s.Blocked() {
		t.Fatal("ResetBlock should clear the block")
	}
	fake.err = nil
	fake.resp = maps.RouteResponse{DistanceMeters: 1000, DurationSec: 120}
	if _, err := s.Compute(context.Background(), cmd); err != nil {
		t.Fatalf("Compute after reset: %v", err)
	}
}

func TestCompute_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid request", fmt.Errorf("%w: INVALID_REQUEST", maps.ErrInvalidRequest), ErrInvalidArgument},
		{"no route", maps.ErrNoRoute, ErrTransient},
		{"unknown failure", errors.New("connection reset"), ErrTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(&fakeRouter{err: tt.err})
			_, err := s.Compute(context.Background(), ComputeCommand{
				Origin:      resolvedStop("A", 33.9, 35.5),
				Destination: resolvedStop("B", 33.8, 35.5),
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if s.Blocked() {
				t.Error("non-denial failures must not block the session")
			}
		})
	}
}

func TestCompute_IntermediatesPassedInOrder(t *testing.T) {
	fake := &fakeRouter{resp: maps.RouteResponse{DistanceMeters: 1000, DurationSec: 120}}
	s := newTestService(fake)

	_, err := s.Compute(context.Background(), ComputeCommand{
		Origin:      resolvedStop("A", 33.90, 35.50),
		Destination: resolvedStop("B", 33.80, 35.49),
		Stops: []location.Stop{
			resolvedStop("s1", 33.88, 35.51),
			resolvedStop("s2", 33.85, 35.52),
		},
	})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(fake.lastReq.Intermediates) != 2 {
		t.Fatalf("intermediates = %v", fake.lastReq.Intermediates)
	}
	if fake.lastReq.Intermediates[0].Lat != 33.88 || fake.lastReq.Intermediates[1].Lat != 33.85 {
		t.Errorf("intermediate order lost: %v", fake.lastReq.Intermediates)
	}
}
