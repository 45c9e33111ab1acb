// README: Quote orchestrator: resolve → route → fare, plus driver ranking.
package quote

import (
	"context"
	"fmt"
	"time"

	"cedar/internal/modules/fare"
	"cedar/internal/modules/fleet"
	"cedar/internal/modules/location"
	"cedar/internal/modules/route"
	"cedar/internal/modules/scoring"
	"cedar/internal/modules/trip"
)

// FleetSource is the slice of the fleet service ranking needs. The snapshot
// is the whole registry: inactive-profile drivers stay visible in the
// ranking, governance-capped, so the operator can see why one is held back.
type FleetSource interface {
	List(ctx context.Context) ([]fleet.Driver, error)
}

// HistorySource supplies the read-only trip snapshot for one ranking call.
type HistorySource interface {
	HistorySnapshot(ctx context.Context) ([]trip.Trip, error)
}

type Service struct {
	resolver *location.Resolver
	route    *route.Service
	fare     *fare.Service
	fleet    FleetSource
	history  HistorySource
}

func NewService(resolver *location.Resolver, routeSvc *route.Service, fareSvc *fare.Service, fleetSrc FleetSource, historySrc HistorySource) *Service {
	return &Service{
		resolver: resolver,
		route:    routeSvc,
		fare:     fareSvc,
		fleet:    fleetSrc,
		history:  historySrc,
	}
}

type BuildCommand struct {
	OriginText      string
	DestinationText string
	StopTexts       []string
	Modifiers       fare.Modifiers
	// RequestedTime zero means "leave now".
	RequestedTime time.Time
}

// BuildQuote resolves every input sequentially (a later stop is never
// attempted once an earlier one fails), computes the traffic-aware route,
// and prices it. Failures come back typed so the caller can render a
// specific remediation message.
func (s *Service) BuildQuote(ctx context.Context, cmd BuildCommand) (*Quote, error) {
	origin, err := s.resolveStop(ctx, "origin", cmd.OriginText)
	if err != nil {
		return nil, err
	}
	destination, err := s.resolveStop(ctx, "destination", cmd.DestinationText)
	if err != nil {
		return nil, err
	}
	stops := make([]location.Stop, 0, len(cmd.StopTexts))
	for i, text := range cmd.StopTexts {
		stop, err := s.resolveStop(ctx, fmt.Sprintf("stop %d", i+1), text)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	result, err := s.route.Compute(ctx, route.ComputeCommand{
		Origin:        origin,
		Destination:   destination,
		Stops:         stops,
		RequestedTime: cmd.RequestedTime,
	})
	if err != nil {
		return nil, err
	}

	return &Quote{
		Origin:      origin,
		Destination: destination,
		Stops:       stops,
		Route:       result,
		Fare:        s.fare.Compute(result.DistanceKm, cmd.Modifiers),
		Modifiers:   cmd.Modifiers,
		CreatedAt:   time.Now(),
	}, nil
}

type RankCommand struct {
	Context scoring.Context
}

// RankDrivers loads a fresh fleet and history snapshot and runs the pure
// ranking over it. Re-ranking is just calling this again.
func (s *Service) RankDrivers(ctx context.Context, cmd RankCommand) ([]scoring.DriverScore, error) {
	drivers, err := s.fleet.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fleet snapshot: %w", err)
	}
	history, err := s.history.HistorySnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trip snapshot: %w", err)
	}
	return scoring.Rank(drivers, history, cmd.Context), nil
}

func (s *Service) resolveStop(ctx context.Context, field, text string) (location.Stop, error) {
	loc, err := s.resolver.Resolve(ctx, text)
	if err != nil {
		return location.Stop{}, fmt.Errorf("%s: %w", field, err)
	}
	return location.ResolvedStop(loc), nil
}
