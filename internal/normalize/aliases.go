package normalize

import "github.com/gyeh/strokeprofile/internal/table"

// Alias maps alternate upstream column names onto a canonical name.
// Alternates are tried in order.
type Alias struct {
	Canonical  string   `yaml:"canonical"`
	Alternates []string `yaml:"alternates"`
}

// Alias tables for each extract. Names are in NormalizeHeader form.
var (
	HospitalInfoAliases = []Alias{
		{Canonical: "ccn", Alternates: []string{"provider_id", "provider_number", "facility_id", "facility id"}},
		{Canonical: "hospital_name", Alternates: []string{"facility_name", "hospital name", "facility name", "facility_name_1"}},
		{Canonical: "city", Alternates: []string{"citytown", "city/town"}},
		{Canonical: "county_name", Alternates: []string{"countyparish", "county/parish"}},
		{Canonical: "zip_code", Alternates: []string{"zip", "zip code"}},
		{Canonical: "phone_number", Alternates: []string{"telephone_number", "telephone number"}},
	}

	OutcomeAliases = []Alias{
		{Canonical: "ccn", Alternates: []string{"provider_id", "provider_number", "facility_id", "facility id"}},
		{Canonical: "measure_id", Alternates: []string{"measure id"}},
		{Canonical: "end_date", Alternates: []string{"end date"}},
	}

	CountyMortalityAliases = []Alias{
		{Canonical: "fips", Alternates: []string{"locationid"}},
		{Canonical: "death_rate", Alternates: []string{"data_value"}},
		{Canonical: "state_name", Alternates: []string{"locationabbr"}},
		{Canonical: "county_name", Alternates: []string{"locationdesc"}},
	}

	UninsuredAliases = []Alias{
		{Canonical: "pct_uninsured", Alternates: []string{"s2701_c05_001e"}},
	}
)

// ApplyAliases returns a table in which, for every alias whose canonical
// column is missing, the first alternate present has been renamed to the
// canonical name. Columns already in canonical form are left alone and t
// itself is never modified.
func ApplyAliases(t *table.Table, aliases []Alias) *table.Table {
	if t == nil {
		return nil
	}
	out := t
	for _, a := range aliases {
		if out.Has(a.Canonical) {
			continue
		}
		for _, alt := range a.Alternates {
			if out.Has(alt) {
				out = out.Rename(alt, a.Canonical)
				break
			}
		}
	}
	return out
}

// MergeAliases overlays override onto base: an override for a canonical name
// already in base replaces its alternates, new canonical names are appended.
func MergeAliases(base, override []Alias) []Alias {
	out := make([]Alias, len(base))
	copy(out, base)
	for _, o := range override {
		replaced := false
		for i := range out {
			if out[i].Canonical == o.Canonical {
				out[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, o)
		}
	}
	return out
}
