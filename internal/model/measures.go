package model

// MeasureKind identifies one of the recognized 30-day stroke outcome measures.
type MeasureKind string

const (
	Mortality30D   MeasureKind = "MORTALITY_30D"
	Readmission30D MeasureKind = "READMISSION_30D"
)

// Measure maps an upstream measure code onto its kind and output column.
type Measure struct {
	Kind   MeasureKind
	Code   string // upstream measure_id, e.g. "MORT_30_STK"
	Column string // hospital_profile column, e.g. "mortality_30d"
}

// AllMeasures lists the recognized outcome measures in output column order.
var AllMeasures = []Measure{
	{Kind: Mortality30D, Code: "MORT_30_STK", Column: "mortality_30d"},
	{Kind: Readmission30D, Code: "READM_30_STK", Column: "readmit_30d"},
}

// MeasureByCode returns the Measure for an upstream measure code, or ok=false.
func MeasureByCode(code string) (Measure, bool) {
	for _, m := range AllMeasures {
		if m.Code == code {
			return m, true
		}
	}
	return Measure{}, false
}

// OutcomeScores is the pivoted (wide) form of a hospital's outcome observations.
type OutcomeScores struct {
	Mortality30D *float64
	Readmit30D   *float64
}

// Set stores a score under the output column of m.
func (o *OutcomeScores) Set(m Measure, score *float64) {
	switch m.Column {
	case "mortality_30d":
		o.Mortality30D = score
	case "readmit_30d":
		o.Readmit30D = score
	}
}
