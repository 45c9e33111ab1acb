// README: Location resolver; deterministic fallback chain over the map adapter.
package location

import (
	"context"
	"strings"

	"cedar/internal/maps"
	"cedar/internal/types"
)

// Resolver turns free-form input (pasted map links, GPS pairs, addresses)
// into coordinates. cache may be nil.
type Resolver struct {
	adapter maps.Adapter
	cache   *Cache
}

func NewResolver(adapter maps.Adapter, cache *Cache) *Resolver {
	return &Resolver{adapter: adapter, cache: cache}
}

// Resolve runs the fallback chain, first success wins:
//  1. map-link / bare coordinate pattern (authoritative, no network)
//  2. geocode cache
//  3. country-restricted geocode, first candidate
//  4. place search biased around the operating region, first candidate
//  5. unrestricted geocode, first candidate
//
// Provider errors on a step count as "no result" and fall through; when the
// chain is exhausted a *ResolutionError naming the original input is
// returned.
func (r *Resolver) Resolve(ctx context.Context, rawText string) (Location, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return Location{}, &ResolutionError{Text: rawText}
	}

	if lat, lng, isLink, ok := ParseCoordinates(text); ok {
		loc := Location{Lat: lat, Lng: lng, SourceText: text}
		if isLink {
			loc.OriginalLink = text
		}
		return loc, nil
	}

	if r.cache != nil {
		if loc, ok := r.cache.Get(ctx, text); ok {
			return loc, nil
		}
	}

	steps := []func(context.Context, string) ([]maps.Candidate, error){
		func(ctx context.Context, t string) ([]maps.Candidate, error) {
			return r.adapter.Geocode(ctx, maps.GeocodeRequest{Text: t, RestrictCountry: true})
		},
		func(ctx context.Context, t string) ([]maps.Candidate, error) {
			return r.adapter.PlaceSearch(ctx, maps.PlaceSearchRequest{Text: t})
		},
		func(ctx context.Context, t string) ([]maps.Candidate, error) {
			return r.adapter.Geocode(ctx, maps.GeocodeRequest{Text: t, RestrictCountry: false})
		},
	}
	for _, step := range steps {
		candidates, err := step(ctx, text)
		if err != nil || len(candidates) == 0 {
			continue
		}
		loc := fromCandidate(text, candidates[0])
		if r.cache != nil {
			r.cache.Put(ctx, text, loc)
		}
		return loc, nil
	}
	return Location{}, &ResolutionError{Text: text}
}

// ReverseResolve turns a coordinate into display text. It never fails: when
// reverse geocoding errors or comes back empty the formatted coordinate
// string is used instead.
func (r *Resolver) ReverseResolve(ctx context.Context, p types.Point) string {
	address, err := r.adapter.ReverseGeocode(ctx, p)
	if err != nil || address == "" {
		return FormatCoordinate(p)
	}
	return address
}

// ResolveField resolves the named session field from its current text and
// commits under the session's token rule. A superseded response is dropped
// silently; the field's latest state is returned either way.
func (r *Resolver) ResolveField(ctx context.Context, sess *Session, name string) (Stop, error) {
	stop, ok := sess.Stop(name)
	if !ok {
		return Stop{}, &ResolutionError{Text: ""}
	}
	token := sess.begin(name)

	loc, err := r.Resolve(ctx, stop.Text)
	if err != nil {
		sess.fail(name, token)
		current, _ := sess.Stop(name)
		return current, err
	}
	sess.commit(name, token, loc)
	current, _ := sess.Stop(name)
	return current, nil
}

// ReverseResolveField installs a dragged/clicked coordinate into the named
// field, reverse geocoding it for display under the same staleness rule.
func (r *Resolver) ReverseResolveField(ctx context.Context, sess *Session, name string, p types.Point) Stop {
	token := sess.begin(name)
	text := r.ReverseResolve(ctx, p)
	sess.commitText(name, token, Location{Lat: p.Lat, Lng: p.Lng, SourceText: text}, text)
	current, _ := sess.Stop(name)
	return current
}

func fromCandidate(text string, c maps.Candidate) Location {
	return Location{
		Lat:        c.Location.Lat,
		Lng:        c.Location.Lng,
		SourceText: text,
		PlaceID:    c.PlaceID,
	}
}
