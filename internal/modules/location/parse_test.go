package location

import (
	"math"
	"testing"
)

func TestParseCoordinates_BarePairs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantLat float64
		wantLng float64
		wantOK  bool
	}{
		{"plain pair", "33.8938, 35.5018", 33.8938, 35.5018, true},
		{"no space", "33.8938,35.5018", 33.8938, 35.5018, true},
		{"parenthesised", "(33.8938, 35.5018)", 33.8938, 35.5018, true},
		{"negative coords", "-33.45, -70.66", -33.45, -70.66, true},
		{"integers", "34, 36", 34, 36, true},
		{"surrounding whitespace", "  33.8938 , 35.5018  ", 33.8938, 35.5018, true},
		{"latitude out of range", "91.0, 35.5", 0, 0, false},
		{"longitude out of range", "33.9, 181.0", 0, 0, false},
		{"plain address", "Hamra Street, Beirut", 0, 0, false},
		{"single number", "33.8938", 0, 0, false},
		{"empty", "", 0, 0, false},
		{"whitespace only", "   ", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, isLink, ok := ParseCoordinates(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if isLink {
				t.Errorf("isLink = true for a bare pair")
			}
			if math.Abs(lat-tt.wantLat) > 1e-9 || math.Abs(lng-tt.wantLng) > 1e-9 {
				t.Errorf("got (%v, %v), want (%v, %v)", lat, lng, tt.wantLat, tt.wantLng)
			}
		})
	}
}

func TestParseCoordinates_MapLinks(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantLat float64
		wantLng float64
		wantOK  bool
	}{
		{
			"at-segment",
			"https://www.google.com/maps/@33.8938,35.5018,15z",
			33.8938, 35.5018, true,
		},
		{
			"query param",
			"https://maps.google.com/?q=33.8886,35.4955",
			33.8886, 35.4955, true,
		},
		{
			"ll param",
			"https://maps.google.com/maps?ll=33.8886,35.4955&z=16",
			33.8886, 35.4955, true,
		},
		{
			"destination param",
			"https://www.google.com/maps/dir/?api=1&destination=33.8938,35.5018",
			33.8938, 35.5018, true,
		},
		{
			"place data segment",
			"https://www.google.com/maps/place/Beirut/data=!3d33.8938!4d35.5018",
			33.8938, 35.5018, true,
		},
		{
			// the place pin in the data segment wins over the viewport centre
			"data segment preferred over at-segment",
			"https://www.google.com/maps/place/X/@33.95,35.60,15z/data=!3d33.8938!4d35.5018",
			33.8938, 35.5018, true,
		},
		{
			"short link without coordinates",
			"https://maps.app.goo.gl/AbCdEf123",
			0, 0, false,
		},
		{
			"url with no coordinates",
			"https://example.com/nothing",
			0, 0, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, isLink, ok := ParseCoordinates(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !isLink {
				t.Errorf("isLink = false for a map link")
			}
			if math.Abs(lat-tt.wantLat) > 1e-9 || math.Abs(lng-tt.wantLng) > 1e-9 {
				t.Errorf("got (%v, %v), want (%v, %v)", lat, lng, tt.wantLat, tt.wantLng)
			}
		})
	}
}

func TestFormatCoordinate(t *testing.T) {
	got := FormatCoordinate(point(33.8938, 35.5018))
	if got != "33.893800, 35.501800" {
		t.Errorf("FormatCoordinate = %q", got)
	}
}
