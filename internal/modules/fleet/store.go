// README: Fleet store backed by PostgreSQL.
package fleet

import (
	"context"
	"errors"

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

const driverColumns = `id, name, plate_number, status, current_status,
	base_mileage_km, last_oil_change_km, last_checkup_km, fuel_range_km, created_at`

func (s *Store) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO drivers (
			id, name, plate_number, status, current_status,
			base_mileage_km, last_oil_change_km, last_checkup_km, fuel_range_km, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(d.ID), d.Name, d.PlateNumber, string(d.Status), string(d.CurrentStatus),
		d.BaseMileage, d.LastOilChange, d.LastCheckup, d.FuelRangeKm, d.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE id = $1`, string(id),
	)
	return scanDriver(row)
}

func (s *Store) List(ctx context.Context) ([]Driver, error) {
	return s.list(ctx, `
		SELECT `+driverColumns+`
		FROM drivers
		ORDER BY name`)
}

func (s *Store) SetCurrentStatus(ctx context.Context, id types.ID, status DutyStatus) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers SET current_status = $1 WHERE id = $2`,
		string(status), string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateMileage(ctx context.Context, id types.ID, baseMileageKm float64) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers SET base_mileage_km = $1 WHERE id = $2`,
		baseMileageKm, string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) list(ctx context.Context, query string) ([]Driver, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, *d)
	}
	return drivers, rows.Err()
}

func scanDriver(row pgx.Row) (*Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID, &d.Name, &d.PlateNumber, &d.Status, &d.CurrentStatus,
		&d.BaseMileage, &d.LastOilChange, &d.LastCheckup, &d.FuelRangeKm, &d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
