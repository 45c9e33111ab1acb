// README: Map adapter interface; the core never touches a provider SDK directly.
package maps

import (
	"context"
	"errors"
	"time"

	"cedar/internal/types"
)

// Candidate is a single geocoding or place-search result.
type Candidate struct {
	PlaceID          string
	FormattedAddress string
	Location         types.Point
}

// GeocodeRequest is a free-form address lookup. RestrictCountry limits
// results to the configured operating country.
type GeocodeRequest struct {
	Text            string
	RestrictCountry bool
}

// PlaceSearchRequest is a text search biased toward the operating region.
type PlaceSearchRequest struct {
	Text string
}

// RouteRequest asks for a traffic-aware driving route through the
// intermediate points in order.
type RouteRequest struct {
	Origin        types.Point
	Destination   types.Point
	Intermediates []types.Point
	DepartureTime time.Time
}

// RouteResponse carries the raw provider fields the route model consumes.
// StaticDurationSec falls back to DurationSec when the provider omits a
// baseline duration.
type RouteResponse struct {
	DistanceMeters    int
	DurationSec       int
	StaticDurationSec int
	EncodedPolyline   string
}

// Adapter is the injected map collaborator: geocoding, place search, reverse
// geocoding, and traffic-aware routing. Tests substitute a fake.
type Adapter interface {
	Geocode(ctx context.Context, req GeocodeRequest) ([]Candidate, error)
	PlaceSearch(ctx context.Context, req PlaceSearchRequest) ([]Candidate, error)
	ReverseGeocode(ctx context.Context, p types.Point) (string, error)
	ComputeRoute(ctx context.Context, req RouteRequest) (RouteResponse, error)
}

// Provider failure classes. Implementations wrap these so callers can branch
// with errors.Is without knowing the provider's status vocabulary.
var (
	// ErrAccessDenied marks permission/quota denials; the routing session
	// must stop retrying until the key is remedied.
	ErrAccessDenied = errors.New("maps: access denied")
	// ErrInvalidRequest marks malformed requests; provider detail is kept in
	// the wrapping error text.
	ErrInvalidRequest = errors.New("maps: invalid request")
	// ErrNoRoute is returned when the provider answers with no route at all.
	ErrNoRoute = errors.New("maps: no route found")
)
