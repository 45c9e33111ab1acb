// README: Trip store backed by PostgreSQL with optimistic status updates.
package trip

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cedar/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const tripColumns = `id, driver_id, customer_phone, status, status_version,
	origin_text, origin_lat, origin_lng, destination_text, destination_lat, destination_lng,
	distance_km, duration_in_traffic_min, traffic_index,
	fare_usd, fare_lbp, minimum_fare_applied, round_trip,
	created_at, started_at, completed_at, cancelled_at, cancel_reason`

func (s *Store) Create(ctx context.Context, t *Trip) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, driver_id, customer_phone, status, status_version,
			origin_text, origin_lat, origin_lng, destination_text, destination_lat, destination_lng,
			distance_km, duration_in_traffic_min, traffic_index,
			fare_usd, fare_lbp, minimum_fare_applied, round_trip, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18, $19
		)`,
		string(t.ID), string(t.DriverID), t.CustomerPhone, string(t.Status), t.StatusVersion,
		t.OriginText, t.Origin.Lat, t.Origin.Lng, t.DestinationText, t.Destination.Lat, t.Destination.Lng,
		t.DistanceKm, t.DurationInTrafficMin, t.TrafficIndex,
		t.FareUsd, t.FareLbp, t.MinimumFareApplied, t.RoundTrip, t.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE id = $1`, string(id),
	)
	return scanTrip(row)
}

// ListRecent returns the newest trips first, capped at limit. This is the
// history snapshot the scorer consumes.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		ORDER BY created_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

// UpdateStatus performs an optimistic compare-and-set on status and version,
// stamping the matching timestamp column.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, reason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = $1,
		    status_version = status_version + 1,
		    started_at = CASE WHEN $1 = 'en_route' THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END,
		    cancel_reason = COALESCE($2, cancel_reason)
		WHERE id = $3 AND status = $4 AND status_version = $5`,
		string(to), reason, string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_state_events (
			trip_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.TripID), string(e.FromStatus), string(e.ToStatus),
		e.ActorType, toStringPtr(e.ActorID), e.CreatedAt,
	)
	return err
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var startedAt, completedAt, cancelledAt sql.NullTime
	var cancelReason sql.NullString

	err := row.Scan(
		&t.ID, &t.DriverID, &t.CustomerPhone, &t.Status, &t.StatusVersion,
		&t.OriginText, &t.Origin.Lat, &t.Origin.Lng, &t.DestinationText, &t.Destination.Lat, &t.Destination.Lng,
		&t.DistanceKm, &t.DurationInTrafficMin, &t.TrafficIndex,
		&t.FareUsd, &t.FareLbp, &t.MinimumFareApplied, &t.RoundTrip,
		&t.CreatedAt, &startedAt, &completedAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	t.StartedAt = toTimePtr(startedAt)
	t.CompletedAt = toTimePtr(completedAt)
	t.CancelledAt = toTimePtr(cancelledAt)
	if cancelReason.Valid {
		t.CancelReason = &cancelReason.String
	}
	return &t, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
