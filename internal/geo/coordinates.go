// Package geo pulls a latitude/longitude pair out of the location values
// embedded in hospital extracts.
package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gyeh/strokeprofile/internal/normalize"
)

// Coordinates is a decoded (latitude, longitude) pair. Either side may be
// absent; Extract only ever fills both or neither.
type Coordinates struct {
	Lat *float64
	Lon *float64
}

// Present reports whether both sides were decoded.
func (c Coordinates) Present() bool {
	return c.Lat != nil && c.Lon != nil
}

// ExtractCell decodes a raw CSV cell holding a JSON-encoded location.
func ExtractCell(s string) Coordinates {
	if strings.TrimSpace(s) == "" {
		return Coordinates{}
	}
	return Extract(s)
}

// Extract decodes a location value. v may be a JSON string, a decoded
// object (map[string]any), a bare pair ([]any) or nil. Decode order:
//
//  1. named "latitude" and "longitude" fields
//  2. a "coordinates" pair (or a bare pair), read as [longitude, latitude]
//  3. anything else is absent
//
// Any failure, including a panic while decoding, yields an absent pair.
func Extract(v any) (c Coordinates) {
	defer func() {
		if recover() != nil {
			c = Coordinates{}
		}
	}()

	switch x := v.(type) {
	case nil:
		return Coordinates{}
	case string:
		decoded, ok := decodeJSON(x)
		if !ok {
			return Coordinates{}
		}
		return fromValue(decoded)
	case []byte:
		return Extract(string(x))
	default:
		return fromValue(x)
	}
}

func fromValue(v any) Coordinates {
	switch x := v.(type) {
	case map[string]any:
		return fromObject(x)
	case []any:
		return fromPair(x)
	}
	return Coordinates{}
}

func fromObject(m map[string]any) Coordinates {
	lat, hasLat := m["latitude"]
	lon, hasLon := m["longitude"]
	if hasLat && hasLon {
		return pair(lat, lon)
	}
	if coords, ok := m["coordinates"].([]any); ok {
		return fromPair(coords)
	}
	return Coordinates{}
}

// fromPair reads GeoJSON order: longitude first.
func fromPair(p []any) Coordinates {
	if len(p) != 2 {
		return Coordinates{}
	}
	return pair(p[1], p[0])
}

func pair(lat, lon any) Coordinates {
	la, ok := toFloat(lat)
	if !ok {
		return Coordinates{}
	}
	lo, ok := toFloat(lon)
	if !ok {
		return Coordinates{}
	}
	return Coordinates{Lat: &la, Lon: &lo}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		if f := normalize.ParseNumber(x); f != nil {
			return *f, true
		}
	}
	return 0, false
}

// decodeJSON decodes s, retrying once with single quotes swapped for double
// quotes when s looks like a serialised Python dict ({'latitude': '34.0'}).
func decodeJSON(s string) (any, bool) {
	if v, err := unmarshal(s); err == nil {
		return v, true
	}
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		if v, err := unmarshal(strings.ReplaceAll(s, "'", `"`)); err == nil {
			return v, true
		}
	}
	return nil, false
}

var errTrailingData = errors.New("trailing data after json value")

func unmarshal(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}
