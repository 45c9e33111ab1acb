// README: Fleet service; registry operations and proximity queries.
package fleet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"cedar/internal/types"
)

type Service struct {
	store     *Store
	positions *Positions
}

func NewService(store *Store, positions *Positions) *Service {
	return &Service{store: store, positions: positions}
}

type RegisterCommand struct {
	Name          string
	PlateNumber   string
	BaseMileage   float64
	LastOilChange float64
	LastCheckup   float64
	FuelRangeKm   float64
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if cmd.Name == "" || cmd.PlateNumber == "" {
		return "", ErrBadRequest
	}
	d := &Driver{
		ID:            newID(),
		Name:          cmd.Name,
		PlateNumber:   cmd.PlateNumber,
		Status:        StatusActive,
		CurrentStatus: DutyOffDuty,
		BaseMileage:   cmd.BaseMileage,
		LastOilChange: cmd.LastOilChange,
		LastCheckup:   cmd.LastCheckup,
		FuelRangeKm:   cmd.FuelRangeKm,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return "", err
	}
	return d.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Driver, error) {
	return s.store.List(ctx)
}

func (s *Service) SetDutyStatus(ctx context.Context, id types.ID, status DutyStatus) error {
	if !validDutyStatus(status) {
		return ErrBadRequest
	}
	if err := s.store.SetCurrentStatus(ctx, id, status); err != nil {
		return err
	}
	// An off-duty driver should not show up in proximity queries.
	if status == DutyOffDuty && s.positions != nil {
		_ = s.positions.Remove(ctx, id)
	}
	return nil
}

// UpdateMileage records a new odometer reading, the input to the scorer's
// maintenance bands. Readings only ever move forward.
func (s *Service) UpdateMileage(ctx context.Context, id types.ID, baseMileageKm float64) error {
	if baseMileageKm < 0 {
		return ErrBadRequest
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if baseMileageKm < current.BaseMileage {
		return ErrBadRequest
	}
	return s.store.UpdateMileage(ctx, id, baseMileageKm)
}

func (s *Service) UpdatePosition(ctx context.Context, id types.ID, pos types.Point) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.positions.Set(ctx, id, pos)
}

// DriverDistance pairs a driver with their distance from a query point.
type DriverDistance struct {
	Driver     Driver  `json:"driver"`
	DistanceKm float64 `json:"distance_km"`
}

// NearbyAvailable returns active, available drivers within radiusKm of the
// point, nearest first. Redis narrows the candidate set; exact distances are
// recomputed with the haversine formula.
func (s *Service) NearbyAvailable(ctx context.Context, center types.Point, radiusKm float64) ([]DriverDistance, error) {
	positions, err := s.positions.Nearby(ctx, center, radiusKm)
	if err != nil {
		return nil, err
	}

	var out []DriverDistance
	for _, pos := range positions {
		d, err := s.store.Get(ctx, pos.DriverID)
		if err != nil {
			continue // position for a deleted driver
		}
		if d.Status != StatusActive || d.CurrentStatus != DutyAvailable {
			continue
		}
		out = append(out, DriverDistance{
			Driver:     *d,
			DistanceKm: haversineKm(center.Lat, center.Lng, pos.Point.Lat, pos.Point.Lng),
		})
	}
	sortByDistance(out, func(dd DriverDistance) float64 { return dd.DistanceKm })
	return out, nil
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
