// README: Location value object and stop resolution state machine.
package location

import (
	"fmt"
	"strings"

	"cedar/internal/types"
)

// ResolutionState tracks a stop's freshness as an explicit tagged state.
type ResolutionState string

const (
	StateUnresolved ResolutionState = "unresolved"
	StatePending    ResolutionState = "pending"
	StateResolved   ResolutionState = "resolved"
	// StateStale means the display text changed after a successful
	// resolution; the stop must be re-resolved before use.
	StateStale ResolutionState = "stale"
)

// Location is an immutable resolved coordinate. SourceText is the input that
// produced it; OriginalLink is set when the input was a pasted map link.
type Location struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	SourceText   string  `json:"source_text"`
	OriginalLink string  `json:"original_link,omitempty"`
	PlaceID      string  `json:"place_id,omitempty"`
}

// Point returns the bare coordinate pair.
func (l Location) Point() types.Point {
	return types.Point{Lat: l.Lat, Lng: l.Lng}
}

// Stop is an ordered waypoint with resolution bookkeeping.
type Stop struct {
	Text     string          `json:"text"`
	State    ResolutionState `json:"state"`
	Location Location        `json:"location"`

	// resolvedText is the display text captured when the current Location
	// was produced; staleness is detected against it case-insensitively.
	resolvedText string
}

// NewStop returns an unresolved stop for the given display text.
func NewStop(text string) Stop {
	return Stop{Text: text, State: StateUnresolved}
}

// ResolvedStop builds a stop directly from a known location (map click,
// saved place). Used by callers that bypass text resolution.
func ResolvedStop(loc Location) Stop {
	return Stop{Text: loc.SourceText, State: StateResolved, Location: loc, resolvedText: loc.SourceText}
}

// EditText updates the display text. A resolved stop whose new text no
// longer matches the captured text case-insensitively becomes stale; a
// pending stop drops back to unresolved since its in-flight resolution no
// longer describes the input.
func (s *Stop) EditText(text string) {
	s.Text = text
	switch s.State {
	case StateResolved, StateStale:
		if strings.EqualFold(text, s.resolvedText) {
			s.State = StateResolved
		} else {
			s.State = StateStale
		}
	case StatePending:
		s.State = StateUnresolved
	}
}

func (s *Stop) beginResolve() {
	s.State = StatePending
}

func (s *Stop) completeResolve(loc Location) {
	s.Location = loc
	s.resolvedText = s.Text
	s.State = StateResolved
}

func (s *Stop) failResolve() {
	s.State = StateUnresolved
}

// ResolutionError reports that every fallback attempt was exhausted for the
// named input. Recoverable by the user supplying clearer input.
type ResolutionError struct {
	Text string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve location %q", e.Text)
}

// FormatCoordinate renders a point the way the UI displays raw coordinates;
// it is also the reverse-geocode fallback text.
func FormatCoordinate(p types.Point) string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}
