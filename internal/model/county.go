package model

import "strconv"

// CountyColumns is the canonical county_profile header, in output order.
var CountyColumns = []string{
	"fips",
	"state",
	"county",
	"state_name",
	"county_name",
	"death_rate",
	"pct_uninsured",
}

// CountyRecord is one row of the county profile. FIPS is always five digits.
type CountyRecord struct {
	FIPS         string   `parquet:"fips"`
	State        *string  `parquet:"state,optional"`
	County       *string  `parquet:"county,optional"`
	StateName    *string  `parquet:"state_name,optional"`
	CountyName   *string  `parquet:"county_name,optional"`
	DeathRate    *float64 `parquet:"death_rate,optional"`
	PctUninsured *float64 `parquet:"pct_uninsured,optional"`
}

// Cells returns the record as CSV cells in CountyColumns order.
func (r *CountyRecord) Cells() []string {
	return []string{
		r.FIPS,
		str(r.State),
		str(r.County),
		str(r.StateName),
		str(r.CountyName),
		num(r.DeathRate),
		num(r.PctUninsured),
	}
}

// CopyValues returns the record values in CountyColumns order.
func (r *CountyRecord) CopyValues() []any {
	return []any{
		r.FIPS,
		r.State,
		r.County,
		r.StateName,
		r.CountyName,
		r.DeathRate,
		r.PctUninsured,
	}
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// num formats in shortest round-trip form so repeated runs are byte-identical.
func num(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
