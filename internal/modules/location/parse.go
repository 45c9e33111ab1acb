// README: Pattern matching for pasted map links and bare coordinate pairs.
package location

import (
	"regexp"
	"strconv"
	"strings"
)

// Coordinate patterns tried before any network call. A match is
// authoritative: the parsed pair is used directly.
var (
	// "33.8938, 35.5018" (optional parentheses, flexible spacing)
	barePairRe = regexp.MustCompile(`^\(?\s*(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)\s*\)?$`)

	// map URLs: .../@33.8938,35.5018,15z
	linkAtRe = regexp.MustCompile(`@(-?\d{1,3}(?:\.\d+)?),(-?\d{1,3}(?:\.\d+)?)`)

	// map URLs: ?q=33.89,35.50 / query=33.89,35.50 / ll=33.89,35.50 /
	// destination=33.89,35.50
	linkQueryRe = regexp.MustCompile(`[?&](?:q|query|ll|sll|destination)=(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)`)

	// place-data segments: ...!3d33.8938!4d35.5018...
	linkDataRe = regexp.MustCompile(`!3d(-?\d{1,3}(?:\.\d+)?)!4d(-?\d{1,3}(?:\.\d+)?)`)
)

// ParseCoordinates extracts a coordinate pair from raw input, trying map-link
// shapes first, then a bare "lat, lng" pair. isLink reports whether the
// match came from a URL.
func ParseCoordinates(text string) (lat, lng float64, isLink, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, 0, false, false
	}

	if looksLikeURL(trimmed) {
		for _, re := range []*regexp.Regexp{linkQueryRe, linkDataRe, linkAtRe} {
			if m := re.FindStringSubmatch(trimmed); m != nil {
				if lat, lng, ok = parsePair(m[1], m[2]); ok {
					return lat, lng, true, true
				}
			}
		}
		return 0, 0, false, false
	}

	if m := barePairRe.FindStringSubmatch(trimmed); m != nil {
		if lat, lng, ok = parsePair(m[1], m[2]); ok {
			return lat, lng, false, true
		}
	}
	return 0, 0, false, false
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.Contains(lower, "maps.app.goo.gl") ||
		strings.Contains(lower, "google.com/maps")
}

func parsePair(latStr, lngStr string) (float64, float64, bool) {
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}
