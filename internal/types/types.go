// README: Common value objects shared across modules.
package types

// ID is an opaque entity identifier (32-char hex from the generator, or an
// external identifier for imported records).
type ID string

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}