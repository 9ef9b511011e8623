package outcome

import (
	"testing"

	"github.com/gyeh/strokeprofile/internal/table"
)

func outcomes(rows ...[]string) *table.Table {
	return table.New([]string{"ccn", "measure_id", "score", "end_date"}, rows)
}

func TestPivot_NoMeasureColumn(t *testing.T) {
	tb := table.New([]string{"ccn", "score"}, [][]string{{"010001", "12"}})
	if res, ok := Pivot(tb); ok || res != nil {
		t.Fatalf("expected no pivot, got ok=%v res=%v", ok, res)
	}
	if _, ok := Pivot(nil); ok {
		t.Fatal("nil table should not pivot")
	}
}

func TestPivot_MostRecentWins(t *testing.T) {
	res, ok := Pivot(outcomes(
		[]string{"010001", "MORT_30_STK", "14.0", "2023-01-01"},
		[]string{"010001", "MORT_30_STK", "12.0", "2022-01-01"},
	))
	if !ok {
		t.Fatal("expected pivot")
	}
	got := res.Scores["010001"].Mortality30D
	if got == nil || *got != 14.0 {
		t.Fatalf("mortality: got %v, want score from 2023-01-01", got)
	}
	if res.Superseded != 1 {
		t.Errorf("Superseded: got %d, want 1", res.Superseded)
	}
}

func TestPivot_TiesGoToLaterRow(t *testing.T) {
	res, _ := Pivot(outcomes(
		[]string{"010001", "READM_30_STK", "10.0", "2023-06-30"},
		[]string{"010001", "READM_30_STK", "11.0", "2023-06-30"},
		[]string{"010002", "READM_30_STK", "20.0", ""},
		[]string{"010002", "READM_30_STK", "21.0", ""},
	))
	if got := res.Scores["010001"].Readmit30D; got == nil || *got != 11.0 {
		t.Errorf("equal dates: got %v, want 11.0", got)
	}
	if got := res.Scores["010002"].Readmit30D; got == nil || *got != 21.0 {
		t.Errorf("absent dates: got %v, want 21.0", got)
	}
}

func TestPivot_DatedBeatsUndated(t *testing.T) {
	res, _ := Pivot(outcomes(
		[]string{"010001", "MORT_30_STK", "9.0", "2021-06-30"},
		[]string{"010001", "MORT_30_STK", "99.0", "not a date"},
	))
	if got := res.Scores["010001"].Mortality30D; got == nil || *got != 9.0 {
		t.Errorf("got %v, want dated observation 9.0", got)
	}
}

func TestPivot_WithoutEndDateColumn(t *testing.T) {
	tb := table.New([]string{"ccn", "measure_id", "score"}, [][]string{
		{"010001", "MORT_30_STK", "1"},
		{"010001", "MORT_30_STK", "2"},
	})
	res, ok := Pivot(tb)
	if !ok {
		t.Fatal("expected pivot")
	}
	if got := res.Scores["010001"].Mortality30D; got == nil || *got != 2 {
		t.Errorf("got %v, want last occurrence", got)
	}
}

func TestPivot_FiltersAndWidens(t *testing.T) {
	res, _ := Pivot(outcomes(
		[]string{"010001", "MORT_30_STK", "13.1", "2023-06-30"},
		[]string{"010001", "READM_30_STK", "Not Available", "2023-06-30"},
		[]string{"010001", "MORT_30_AMI", "15.0", "2023-06-30"},
		[]string{"010005", "READM_30_STK", "10.4", "2023-06-30"},
		[]string{"", "MORT_30_STK", "1.0", "2023-06-30"},
	))
	if len(res.Scores) != 2 {
		t.Fatalf("expected one entry per ccn (2), got %d: %v", len(res.Scores), res.Scores)
	}
	if res.Observations != 3 {
		t.Errorf("Observations: got %d, want 3", res.Observations)
	}

	a := res.Scores["010001"]
	if a.Mortality30D == nil || *a.Mortality30D != 13.1 {
		t.Errorf("010001 mortality: got %v", a.Mortality30D)
	}
	if a.Readmit30D != nil {
		t.Errorf("non-numeric score should be absent, got %v", *a.Readmit30D)
	}

	b := res.Scores["010005"]
	if b.Mortality30D != nil {
		t.Errorf("010005 mortality should be absent")
	}
	if b.Readmit30D == nil || *b.Readmit30D != 10.4 {
		t.Errorf("010005 readmission: got %v", b.Readmit30D)
	}
}
