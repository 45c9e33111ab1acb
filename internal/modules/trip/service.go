// README: Trip service implements dispatch state transitions and persistence.
package trip

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"cedar/internal/modules/fare"
	"cedar/internal/modules/fleet"
	"cedar/internal/modules/route"
	"cedar/internal/types"
)

// Fleet is the slice of the fleet service this module needs: driver lookup
// and duty-status flips around dispatch.
type Fleet interface {
	Get(ctx context.Context, id types.ID) (*fleet.Driver, error)
	SetDutyStatus(ctx context.Context, id types.ID, status fleet.DutyStatus) error
}

type Service struct {
	store *Store
	fleet Fleet
}

func NewService(store *Store, fleetSvc Fleet) *Service {
	return &Service{store: store, fleet: fleetSvc}
}

var (
	ErrInvalidState      = errors.New("invalid trip state transition")
	ErrNotFound          = errors.New("trip not found")
	ErrConflict          = errors.New("trip state conflict")
	ErrBadRequest        = errors.New("bad trip request")
	ErrDriverIneligible  = errors.New("driver is not eligible for dispatch")
	ErrDriverUnavailable = errors.New("driver is off duty")
)

// historySnapshotLimit bounds the scorer's input; old history stops mattering
// for fairness and performance well before this.
const historySnapshotLimit = 500

type DispatchCommand struct {
	DriverID        types.ID
	CustomerPhone   string
	OriginText      string
	Origin          types.Point
	DestinationText string
	Destination     types.Point
	Route           route.Result
	Fare            fare.Quote
	RoundTrip       bool
}

// Dispatch commits a priced quote to a driver, marking them busy.
func (s *Service) Dispatch(ctx context.Context, cmd DispatchCommand) (types.ID, error) {
	if cmd.DriverID == "" || cmd.CustomerPhone == "" {
		return "", ErrBadRequest
	}
	driver, err := s.fleet.Get(ctx, cmd.DriverID)
	if err != nil {
		return "", err
	}
	if driver.Status != fleet.StatusActive {
		return "", ErrDriverIneligible
	}
	if driver.CurrentStatus == fleet.DutyOffDuty {
		return "", ErrDriverUnavailable
	}

	id := newID()
	now := time.Now()
	t := &Trip{
		ID:                   id,
		DriverID:             cmd.DriverID,
		CustomerPhone:        cmd.CustomerPhone,
		Status:               StatusDispatched,
		StatusVersion:        0,
		OriginText:           cmd.OriginText,
		Origin:               cmd.Origin,
		DestinationText:      cmd.DestinationText,
		Destination:          cmd.Destination,
		DistanceKm:           cmd.Route.DistanceKm,
		DurationInTrafficMin: cmd.Route.DurationInTrafficMin,
		TrafficIndex:         cmd.Route.TrafficIndex,
		FareUsd:              cmd.Fare.FareUsd,
		FareLbp:              cmd.Fare.FareLbp,
		MinimumFareApplied:   cmd.Fare.MinimumFareApplied,
		RoundTrip:            cmd.RoundTrip,
		CreatedAt:            now,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     id,
		FromStatus: StatusNone,
		ToStatus:   StatusDispatched,
		ActorType:  "operator",
		CreatedAt:  now,
	})
	_ = s.fleet.SetDutyStatus(ctx, cmd.DriverID, fleet.DutyBusy)
	return id, nil
}

type StartCommand struct {
	TripID types.ID
}

func (s *Service) Start(ctx context.Context, cmd StartCommand) error {
	return s.transition(ctx, cmd.TripID, StatusEnRoute, "driver", nil)
}

type CompleteCommand struct {
	TripID types.ID
}

func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) error {
	if err := s.transition(ctx, cmd.TripID, StatusCompleted, "driver", nil); err != nil {
		return err
	}
	s.releaseDriver(ctx, cmd.TripID)
	return nil
}

type CancelCommand struct {
	TripID    types.ID
	ActorType string
	Reason    string
}

func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	reason := cmd.Reason
	if err := s.transition(ctx, cmd.TripID, StatusCancelled, cmd.ActorType, &reason); err != nil {
		return err
	}
	s.releaseDriver(ctx, cmd.TripID)
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.store.Get(ctx, id)
}

// HistorySnapshot returns the recent trip history as a read-only slice for
// one ranking call.
func (s *Service) HistorySnapshot(ctx context.Context) ([]Trip, error) {
	return s.store.ListRecent(ctx, historySnapshotLimit)
}

func (s *Service) transition(ctx context.Context, id types.ID, to Status, actorType string, reason *string) error {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(t.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, t.ID, t.Status, to, t.StatusVersion, reason)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		TripID:     t.ID,
		FromStatus: t.Status,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    &t.DriverID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (s *Service) releaseDriver(ctx context.Context, tripID types.ID) {
	t, err := s.store.Get(ctx, tripID)
	if err != nil {
		return
	}
	_ = s.fleet.SetDutyStatus(ctx, t.DriverID, fleet.DutyAvailable)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
