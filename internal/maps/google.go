// README: Google Maps implementation of the map adapter.
package maps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gmaps "googlemaps.github.io/maps"

	"cedar/internal/config"
	"cedar/internal/types"
)

// GoogleAdapter implements Adapter on top of the Google Maps web services.
type GoogleAdapter struct {
	client *gmaps.Client
	region config.RegionConfig
}

// NewGoogleAdapter creates an adapter with the given API key and region bias.
func NewGoogleAdapter(apiKey string, region config.RegionConfig) (*GoogleAdapter, error) {
	client, err := gmaps.NewClient(gmaps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleAdapter{client: client, region: region}, nil
}

func (a *GoogleAdapter) Geocode(ctx context.Context, req GeocodeRequest) ([]Candidate, error) {
	r := &gmaps.GeocodingRequest{
		Address:  req.Text,
		Language: a.region.LanguageCode,
	}
	if req.RestrictCountry {
		r.Components = map[gmaps.Component]string{
			gmaps.ComponentCountry: a.region.CountryCode,
		}
	}
	results, err := a.client.Geocode(ctx, r)
	if err != nil {
		return nil, classify(err, "geocode")
	}
	return geocodeCandidates(results), nil
}

func (a *GoogleAdapter) PlaceSearch(ctx context.Context, req PlaceSearchRequest) ([]Candidate, error) {
	r := &gmaps.TextSearchRequest{
		Query:    req.Text,
		Location: &gmaps.LatLng{Lat: a.region.BiasLat, Lng: a.region.BiasLng},
		Radius:   uint(a.region.BiasRadiusM),
		Language: a.region.LanguageCode,
	}
	resp, err := a.client.TextSearch(ctx, r)
	if err != nil {
		return nil, classify(err, "place search")
	}
	out := make([]Candidate, 0, len(resp.Results))
	for _, res := range resp.Results {
		out = append(out, Candidate{
			PlaceID:          res.PlaceID,
			FormattedAddress: res.FormattedAddress,
			Location:         types.Point{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng},
		})
	}
	return out, nil
}

func (a *GoogleAdapter) ReverseGeocode(ctx context.Context, p types.Point) (string, error) {
	r := &gmaps.GeocodingRequest{
		LatLng:   &gmaps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: a.region.LanguageCode,
	}
	results, err := a.client.Geocode(ctx, r)
	if err != nil {
		return "", classify(err, "reverse geocode")
	}
	if len(results) == 0 {
		return "", fmt.Errorf("reverse geocode: no result for %.6f,%.6f", p.Lat, p.Lng)
	}
	return results[0].FormattedAddress, nil
}

func (a *GoogleAdapter) ComputeRoute(ctx context.Context, req RouteRequest) (RouteResponse, error) {
	r := &gmaps.DirectionsRequest{
		Origin:        latLngString(req.Origin),
		Destination:   latLngString(req.Destination),
		Mode:          gmaps.TravelModeDriving,
		Units:         gmaps.UnitsMetric,
		TrafficModel:  gmaps.TrafficModelBestGuess,
		DepartureTime: strconv.FormatInt(req.DepartureTime.Unix(), 10),
		Language:      a.region.LanguageCode,
		Region:        strings.ToLower(a.region.CountryCode),
	}
	for _, p := range req.Intermediates {
		r.Waypoints = append(r.Waypoints, latLngString(p))
	}

	routes, _, err := a.client.Directions(ctx, r)
	if err != nil {
		return RouteResponse{}, classify(err, "directions")
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteResponse{}, ErrNoRoute
	}

	var resp RouteResponse
	for _, leg := range routes[0].Legs {
		resp.DistanceMeters += leg.Distance.Meters
		resp.StaticDurationSec += int(leg.Duration.Seconds())
		if leg.DurationInTraffic > 0 {
			resp.DurationSec += int(leg.DurationInTraffic.Seconds())
		} else {
			// Provider omits traffic duration for some legs; fall back to baseline.
			resp.DurationSec += int(leg.Duration.Seconds())
		}
	}
	resp.EncodedPolyline = routes[0].OverviewPolyline.Points
	return resp, nil
}

// DecodeRoutePolyline expands an encoded overview polyline into points for
// display. Pricing never depends on this.
func DecodeRoutePolyline(encoded string) ([]types.Point, error) {
	latLngs, err := gmaps.DecodePolyline(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	points := make([]types.Point, len(latLngs))
	for i, ll := range latLngs {
		points[i] = types.Point{Lat: ll.Lat, Lng: ll.Lng}
	}
	return points, nil
}

func geocodeCandidates(results []gmaps.GeocodingResult) []Candidate {
	out := make([]Candidate, 0, len(results))
	for _, res := range results {
		out = append(out, Candidate{
			PlaceID:          res.PlaceID,
			FormattedAddress: res.FormattedAddress,
			Location:         types.Point{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng},
		})
	}
	return out
}

func latLngString(p types.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

// classify folds the client library's status-in-error-text convention into
// the adapter's failure classes, keeping the provider detail in the message.
func classify(err error, op string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "REQUEST_DENIED") || strings.Contains(msg, "OVER_QUERY_LIMIT") || strings.Contains(msg, "OVER_DAILY_LIMIT"):
		return fmt.Errorf("%s: %s: %w", op, msg, ErrAccessDenied)
	case strings.Contains(msg, "INVALID_REQUEST") || strings.Contains(msg, "MAX_WAYPOINTS_EXCEEDED") || strings.Contains(msg, "MAX_ROUTE_LENGTH_EXCEEDED"):
		return fmt.Errorf("%s: %s: %w", op, msg, ErrInvalidRequest)
	default:
		return fmt.Errorf("%s api error: %w", op, err)
	}
}
