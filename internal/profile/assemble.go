package profile

import (
	"strings"

	"github.com/gyeh/strokeprofile/internal/fips"
	"github.com/gyeh/strokeprofile/internal/geo"
	"github.com/gyeh/strokeprofile/internal/model"
	"github.com/gyeh/strokeprofile/internal/normalize"
	"github.com/gyeh/strokeprofile/internal/table"
)

// AssembleResult counts what happened to the primary rows during a join.
type AssembleResult struct {
	Matched    int // primary rows that found a lookup entry
	NoKey      int // dropped: empty or malformed key
	Duplicates int // dropped: key already emitted
}

// Dropped returns the number of primary rows missing from the output.
func (r AssembleResult) Dropped() int {
	return r.NoKey + r.Duplicates
}

// AssembleHospitals left-joins outcome scores onto hospital info by ccn.
// Every hospital with a non-empty ccn appears exactly once, in input order.
// A nil scores map leaves every outcome score absent.
func AssembleHospitals(info *table.Table, scores map[string]model.OutcomeScores) ([]model.HospitalRecord, AssembleResult) {
	var res AssembleResult
	if info == nil {
		return []model.HospitalRecord{}, res
	}

	records := make([]model.HospitalRecord, 0, info.Len())
	seen := make(map[string]struct{}, info.Len())
	for i := 0; i < info.Len(); i++ {
		ccn := info.Value(i, "ccn")
		if ccn == "" {
			res.NoKey++
			continue
		}
		if _, dup := seen[ccn]; dup {
			res.Duplicates++
			continue
		}
		seen[ccn] = struct{}{}

		loc := geo.ExtractCell(info.Value(i, "location"))
		rec := model.HospitalRecord{
			CCN:          ccn,
			HospitalName: info.Opt(i, "hospital_name"),
			Address:      info.Opt(i, "address"),
			City:         info.Opt(i, "city"),
			State:        info.Opt(i, "state"),
			ZipCode:      info.Opt(i, "zip_code"),
			CountyName:   info.Opt(i, "county_name"),
			PhoneNumber:  info.Opt(i, "phone_number"),
			Lat:          loc.Lat,
			Lon:          loc.Lon,
		}
		if s, ok := scores[ccn]; ok {
			res.Matched++
			rec.Mortality30D = s.Mortality30D
			rec.Readmit30D = s.Readmit30D
		}
		records = append(records, rec)
	}
	return records, res
}

// UninsuredLookup maps a five-digit FIPS code to its uninsured rate.
type UninsuredLookup map[string]*float64

// BuildUninsuredLookup indexes an uninsured-rate extract by FIPS. It returns
// nil when t is absent or lacks the fips or pct_uninsured column. The first
// row for a given code wins.
func BuildUninsuredLookup(t *table.Table) UninsuredLookup {
	if t == nil || !t.HasAll("fips", "pct_uninsured") {
		return nil
	}
	lookup := make(UninsuredLookup, t.Len())
	for i := 0; i < t.Len(); i++ {
		code := normalize.PadDigits(t.Value(i, "fips"), fips.Width)
		if code == nil {
			continue
		}
		if _, ok := lookup[*code]; ok {
			continue
		}
		lookup[*code] = normalize.ParseNumber(t.Value(i, "pct_uninsured"))
	}
	return lookup
}

// stratumColumns are the CDC stratification columns. When present, a row
// whose strata are all "Overall" is the county-level figure.
var stratumColumns = []string{"stratification1", "stratification2"}

// AssembleCounties left-joins uninsured rates onto the mortality table.
// codes holds one FIPS code per row of cdc as produced by fips.Build; rows
// with a nil code are dropped so every emitted FIPS is five digits. For a
// repeated FIPS the first overall row wins, else the first row.
func AssembleCounties(cdc *table.Table, codes []*string, uninsured UninsuredLookup) ([]model.CountyRecord, AssembleResult) {
	var res AssembleResult
	if cdc == nil {
		return []model.CountyRecord{}, res
	}

	type kept struct {
		idx     int
		overall bool
	}
	records := make([]model.CountyRecord, 0, cdc.Len())
	seen := make(map[string]kept, cdc.Len())
	for i := 0; i < cdc.Len(); i++ {
		if i >= len(codes) || codes[i] == nil {
			res.NoKey++
			continue
		}
		code := *codes[i]
		overall := isOverall(cdc, i)
		if prev, dup := seen[code]; dup {
			res.Duplicates++
			if overall && !prev.overall {
				records[prev.idx] = countyRecord(cdc, i, code, uninsured)
				seen[code] = kept{idx: prev.idx, overall: true}
			}
			continue
		}
		seen[code] = kept{idx: len(records), overall: overall}

		if _, ok := uninsured[code]; ok {
			res.Matched++
		}
		records = append(records, countyRecord(cdc, i, code, uninsured))
	}
	return records, res
}

func countyRecord(cdc *table.Table, i int, code string, uninsured UninsuredLookup) model.CountyRecord {
	return model.CountyRecord{
		FIPS:         code,
		State:        cdc.Opt(i, "state"),
		County:       cdc.Opt(i, "county"),
		StateName:    cdc.Opt(i, "state_name"),
		CountyName:   cdc.Opt(i, "county_name"),
		DeathRate:    normalize.ParseNumber(cdc.Value(i, "death_rate")),
		PctUninsured: uninsured[code],
	}
}

func isOverall(t *table.Table, i int) bool {
	for _, c := range stratumColumns {
		if t.Has(c) && !strings.EqualFold(t.Value(i, c), "overall") {
			return false
		}
	}
	return true
}
