// Package fips derives 5-digit county FIPS codes from whichever identifier
// columns a county extract happens to carry.
package fips

import (
	"github.com/gyeh/strokeprofile/internal/normalize"
	"github.com/gyeh/strokeprofile/internal/table"
)

const (
	StateWidth  = 2
	CountyWidth = 3
	Width       = StateWidth + CountyWidth
)

// Scheme names the identifier columns a FIPS code was derived from.
type Scheme int

const (
	SchemeNone        Scheme = iota
	SchemeCombined           // fips
	SchemeCodeColumns        // state_fips + county_fips
	SchemeGeneric            // state + county
)

func (s Scheme) String() string {
	switch s {
	case SchemeCombined:
		return "fips"
	case SchemeCodeColumns:
		return "state_fips+county_fips"
	case SchemeGeneric:
		return "state+county"
	default:
		return "none"
	}
}

// Detect picks the identifier scheme for t. First match wins.
func Detect(t *table.Table) Scheme {
	switch {
	case t == nil:
		return SchemeNone
	case t.Has("fips"):
		return SchemeCombined
	case t.HasAll("state_fips", "county_fips"):
		return SchemeCodeColumns
	case t.HasAll("state", "county"):
		return SchemeGeneric
	default:
		return SchemeNone
	}
}

// Build returns one FIPS code per row of t along with the scheme used. A row
// whose identifier cells do not form a valid code gets nil. When no scheme
// applies Build returns nil, SchemeNone and the caller must not guess.
func Build(t *table.Table) ([]*string, Scheme) {
	scheme := Detect(t)
	if scheme == SchemeNone {
		return nil, SchemeNone
	}
	codes := make([]*string, t.Len())
	for i := range codes {
		switch scheme {
		case SchemeCombined:
			codes[i] = normalize.PadDigits(t.Value(i, "fips"), Width)
		case SchemeCodeColumns:
			codes[i] = Combine(t.Value(i, "state_fips"), t.Value(i, "county_fips"))
		case SchemeGeneric:
			codes[i] = Combine(t.Value(i, "state"), t.Value(i, "county"))
		}
	}
	return codes, scheme
}

// Combine pads a state and county code and concatenates them:
// ("6", "37") -> "06037".
func Combine(state, county string) *string {
	s := normalize.PadDigits(state, StateWidth)
	c := normalize.PadDigits(county, CountyWidth)
	if s == nil || c == nil {
		return nil
	}
	code := *s + *c
	return &code
}
