// README: Route service; preconditions, safe departure time, provider failure classing.
package route

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cedar/internal/config"
	"cedar/internal/maps"
	"cedar/internal/modules/location"
)

type Service struct {
	adapter maps.Adapter
	minLead time.Duration
	now     func() time.Time

	mu      sync.Mutex
	blocked bool
}

func NewService(adapter maps.Adapter, cfg config.RoutingConfig) *Service {
	return &Service{
		adapter: adapter,
		minLead: time.Duration(cfg.MinLeadMinutes) * time.Minute,
		now:     time.Now,
	}
}

type ComputeCommand struct {
	Origin      location.Stop
	Destination location.Stop
	Stops       []location.Stop
	// RequestedTime zero means "leave now".
	RequestedTime time.Time
}

// Compute runs one traffic-aware routing call. It fails fast, naming the
// first unresolved input, before touching the provider; a permission denial
// blocks the whole session until ResetBlock.
func (s *Service) Compute(ctx context.Context, cmd ComputeCommand) (Result, error) {
	if s.Blocked() {
		return Result{}, fmt.Errorf("%w: remediate the API key, then reset", ErrBlocked)
	}
	if err := checkResolved(cmd); err != nil {
		return Result{}, err
	}

	req := maps.RouteRequest{
		Origin:        cmd.Origin.Location.Point(),
		Destination:   cmd.Destination.Location.Point(),
		DepartureTime: s.safeDeparture(cmd.RequestedTime),
	}
	for _, stop := range cmd.Stops {
		req.Intermediates = append(req.Intermediates, stop.Location.Point())
	}

	resp, err := s.adapter.ComputeRoute(ctx, req)
	if err != nil {
		return Result{}, s.classify(err)
	}
	return buildResult(resp), nil
}

// Blocked reports whether a provider denial has frozen routing.
func (s *Service) Blocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked
}

// ResetBlock clears the session block after external remediation.
func (s *Service) ResetBlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked = false
}

// safeDeparture floors the departure at now + minimum lead so the provider
// never sees a near-past time.
func (s *Service) safeDeparture(requested time.Time) time.Time {
	floor := s.now().Add(s.minLead)
	if requested.After(floor) {
		return requested
	}
	return floor
}

func (s *Service) classify(err error) error {
	switch {
	case errors.Is(err, maps.ErrAccessDenied):
		s.mu.Lock()
		s.blocked = true
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrBlocked, err.Error())
	case errors.Is(err, maps.ErrInvalidRequest):
		return fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
	default:
		return fmt.Errorf("%w: %s", ErrTransient, err.Error())
	}
}

func checkResolved(cmd ComputeCommand) error {
	if cmd.Origin.State != location.StateResolved {
		return &UnresolvedError{Field: "origin", Text: cmd.Origin.Text}
	}
	if cmd.Destination.State != location.StateResolved {
		return &UnresolvedError{Field: "destination", Text: cmd.Destination.Text}
	}
	for i, stop := range cmd.Stops {
		if stop.State != location.StateResolved {
			return &UnresolvedError{Field: fmt.Sprintf("stop %d", i+1), Text: stop.Text}
		}
	}
	return nil
}

func buildResult(resp maps.RouteResponse) Result {
	staticSec := resp.StaticDurationSec
	if staticSec == 0 {
		staticSec = resp.DurationSec
	}
	baseline := ceilMinutes(staticSec)
	traffic := ceilMinutes(resp.DurationSec)

	surplus := traffic - baseline
	if surplus < 0 {
		surplus = 0
	}

	result := Result{
		DistanceKm:           float64(resp.DistanceMeters) / 1000.0,
		DurationMin:          baseline,
		DurationInTrafficMin: traffic,
		TrafficIndex:         TrafficIndex(traffic, baseline),
		SurplusMin:           surplus,
	}
	if resp.EncodedPolyline != "" {
		if points, err := maps.DecodeRoutePolyline(resp.EncodedPolyline); err == nil {
			result.Polyline = points
		}
	}
	return result
}
