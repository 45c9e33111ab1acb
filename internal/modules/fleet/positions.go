// README: Live driver positions backed by Redis GEO.
package fleet

import (
	"context"

	"github.com/redis/go-redis/v9"

	"cedar/internal/types"
)

const positionsGeoKey = "fleet:positions"

// Positions keeps the live driver coordinate set for proximity queries.
type Positions struct {
	redis *redis.Client
}

func NewPositions(redis *redis.Client) *Positions {
	return &Positions{redis: redis}
}

func (p *Positions) Set(ctx context.Context, id types.ID, pos types.Point) error {
	return p.redis.GeoAdd(ctx, positionsGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (p *Positions) Remove(ctx context.Context, id types.ID) error {
	return p.redis.ZRem(ctx, positionsGeoKey, string(id)).Err()
}

// Position is one driver's last known coordinate.
type Position struct {
	DriverID types.ID
	Point    types.Point
}

// Nearby returns drivers within radiusKm of the point, nearest first.
func (p *Positions) Nearby(ctx context.Context, center types.Point, radiusKm float64) ([]Position, error) {
	results, err := p.redis.GeoSearchLocation(ctx, positionsGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Lng,
			Latitude:   center.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, err
	}
	positions := make([]Position, len(results))
	for i, r := range results {
		positions[i] = Position{
			DriverID: types.ID(r.Name),
			Point:    types.Point{Lat: r.Latitude, Lng: r.Longitude},
		}
	}
	return positions, nil
}
