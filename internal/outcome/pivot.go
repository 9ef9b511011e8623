// Package outcome reshapes long-form hospital outcome extracts into one
// row of scores per hospital.
package outcome

import (
	"time"

	"github.com/gyeh/strokeprofile/internal/model"
	"github.com/gyeh/strokeprofile/internal/normalize"
	"github.com/gyeh/strokeprofile/internal/table"
)

// Observation is a single outcome row for a recognized measure.
type Observation struct {
	CCN     string
	Measure model.Measure
	Score   *float64
	EndDate *time.Time
}

// Result is the wide form of an outcome extract.
type Result struct {
	Scores       map[string]model.OutcomeScores // keyed by ccn
	Observations int                            // rows with a recognized measure code
	Superseded   int                            // observations replaced by a more recent one
}

// Pivot filters t to the recognized measures, keeps the most recent
// observation per (ccn, measure) and reshapes to one entry per ccn.
// It reports ok=false when t has no measure_id column, in which case no
// pivot is possible. t must already carry canonical column names.
func Pivot(t *table.Table) (*Result, bool) {
	if t == nil || !t.Has("measure_id") {
		return nil, false
	}
	dated := t.Has("end_date")

	type key struct {
		ccn  string
		kind model.MeasureKind
	}
	latest := make(map[key]Observation)
	var order []key
	res := &Result{Scores: make(map[string]model.OutcomeScores)}

	for i := 0; i < t.Len(); i++ {
		m, ok := model.MeasureByCode(t.Value(i, "measure_id"))
		if !ok {
			continue
		}
		ccn := t.Value(i, "ccn")
		if ccn == "" {
			continue
		}
		obs := Observation{
			CCN:     ccn,
			Measure: m,
			Score:   normalize.ParseNumber(t.Value(i, "score")),
		}
		if dated {
			obs.EndDate = normalize.ParseDate(t.Value(i, "end_date"))
		}
		res.Observations++

		k := key{ccn: ccn, kind: m.Kind}
		cur, seen := latest[k]
		if !seen {
			latest[k] = obs
			order = append(order, k)
			continue
		}
		res.Superseded++
		if supersedes(obs, cur) {
			latest[k] = obs
		}
	}

	for _, k := range order {
		obs := latest[k]
		s := res.Scores[k.ccn]
		s.Set(obs.Measure, obs.Score)
		res.Scores[k.ccn] = s
	}
	return res, true
}

// supersedes reports whether next, appearing later in the input than cur,
// replaces it. This is "stable sort by end date ascending, keep last" with
// undated observations ordered before dated ones: a dated observation beats
// an undated one, and ties (equal or both absent) go to the later row.
func supersedes(next, cur Observation) bool {
	switch {
	case next.EndDate == nil && cur.EndDate == nil:
		return true
	case next.EndDate == nil:
		return false
	case cur.EndDate == nil:
		return true
	default:
		return !next.EndDate.Before(*cur.EndDate)
	}
}
