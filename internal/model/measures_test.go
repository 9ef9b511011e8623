package model

import (
	"slices"
	"testing"
)

func TestMeasureColumnsAreHospitalColumns(t *testing.T) {
	for _, m := range AllMeasures {
		if !slices.Contains(HospitalColumns, m.Column) {
			t.Errorf("measure %s maps to %q, not a hospital_profile column", m.Code, m.Column)
		}
	}
}

func TestOutcomeScoresSet(t *testing.T) {
	var o OutcomeScores
	mort, readmit := 11.5, 13.0
	for _, m := range AllMeasures {
		switch m.Kind {
		case Mortality30D:
			o.Set(m, &mort)
		case Readmission30D:
			o.Set(m, &readmit)
		}
	}
	if o.Mortality30D == nil || *o.Mortality30D != 11.5 {
		t.Errorf("Mortality30D: got %v", o.Mortality30D)
	}
	if o.Readmit30D == nil || *o.Readmit30D != 13 {
		t.Errorf("Readmit30D: got %v", o.Readmit30D)
	}

	o.Set(Measure{Code: "PN_30", Column: "pn_30"}, &mort)
	if *o.Readmit30D != 13 || *o.Mortality30D != 11.5 {
		t.Error("unknown column should not change scores")
	}
}
