package profile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/strokeprofile/internal/config"
	"github.com/gyeh/strokeprofile/internal/model"
	"github.com/gyeh/strokeprofile/internal/storage"
)

const outcomesCSV = `provider_id,measure_id,score,end_date
010001,MORT_30_STK,12.1,2022-06-30
010001,MORT_30_STK,11.5,2023-01-01
010001,READM_30_STK,Not Available,2023-01-01
010005,READM_30_STK,13.0,2023-06-30
010005,PN_30,99,2023-06-30
`

const hospitalInfoCSV = `Facility ID,Facility Name,Address,City/Town,State,ZIP Code,County/Parish,Telephone Number,location
010001,SOUTHEAST HEALTH,1108 ROSS CLARK CIRCLE,DOTHAN,AL,36301,HOUSTON,(334) 793-8701,"{""latitude"": ""31.2"", ""longitude"": ""-85.4""}"
010005,MARSHALL MEDICAL,2505 US HIGHWAY 431 NORTH,BOAZ,AL,35957,MARSHALL,(256) 593-8310,"{""type"": ""Point"", ""coordinates"": [-86.1, 34.2]}"
050001,NO OUTCOMES,,LOS ANGELES,CA,90001,LOS ANGELES,,not json
,MISSING CCN,,,,,,,
010001,DUPLICATE,,,,,,,
`

const mortalityCSV = `LocationID,LocationAbbr,LocationDesc,Data_Value
6037,CA,Los Angeles,45.2
1001,AL,Autauga,Insufficient Data
abc,XX,Bad,1
06037,CA,Los Angeles again,50
`

const uninsuredCSV = `fips,pct_uninsured
6037,9.8
06037,12
`

const wantHospital = `ccn,hospital_name,address,city,state,zip_code,county_name,phone_number,lat,lon,mortality_30d,readmit_30d
010001,SOUTHEAST HEALTH,1108 ROSS CLARK CIRCLE,DOTHAN,AL,36301,HOUSTON,(334) 793-8701,31.2,-85.4,11.5,
010005,MARSHALL MEDICAL,2505 US HIGHWAY 431 NORTH,BOAZ,AL,35957,MARSHALL,(256) 593-8310,34.2,-86.1,,13
050001,NO OUTCOMES,,LOS ANGELES,CA,90001,LOS ANGELES,,,,,
`

const wantCounty = `fips,state,county,state_name,county_name,death_rate,pct_uninsured
06037,,,CA,Los Angeles,45.2,9.8
01001,,,AL,Autauga,,
`

const hospitalHeader = "ccn,hospital_name,address,city,state,zip_code,county_name,phone_number,lat,lon,mortality_30d,readmit_30d\n"
const countyHeader = "fips,state,county,state_name,county_name,death_rate,pct_uninsured\n"

func testConfig() *config.Config {
	c := config.Default()
	return &c
}

// writeInputs writes the named inputs into dir and returns a store over it.
func writeInputs(t *testing.T, files map[string]string) (string, *storage.LocalStore) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, storage.NewLocalStore(dir)
}

func allInputs() map[string]string {
	return map[string]string{
		"cms_stroke_outcomes.csv":         outcomesCSV,
		"cms_hospital_info.csv":           hospitalInfoCSV,
		"cdc_stroke_mortality_county.csv": mortalityCSV,
		"acs_uninsured_county.csv":        uninsuredCSV,
	}
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestRun_FullBuilds(t *testing.T) {
	dir, store := writeInputs(t, allInputs())
	cfg := testConfig()

	sum, err := Run(context.Background(), zerolog.Nop(), cfg, store, store)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := readOutput(t, dir, "hospital_profile.csv"); got != wantHospital {
		t.Errorf("hospital_profile.csv:\n got: %s\nwant: %s", got, wantHospital)
	}
	if got := readOutput(t, dir, "county_profile.csv"); got != wantCounty {
		t.Errorf("county_profile.csv:\n got: %s\nwant: %s", got, wantCounty)
	}

	if sum.RunID == "" {
		t.Error("RunID not set")
	}
	if sum.Hospital.Degenerate || sum.Hospital.RowsOut != 3 || sum.Hospital.RowsIn != 5 || sum.Hospital.RowsDropped != 2 {
		t.Errorf("hospital summary: %+v", sum.Hospital)
	}
	if sum.County.Degenerate || sum.County.RowsOut != 2 || sum.County.RowsDropped != 2 {
		t.Errorf("county summary: %+v", sum.County)
	}
	if len(sum.Hospitals) != 3 || len(sum.Counties) != 2 {
		t.Errorf("records: %d hospitals, %d counties", len(sum.Hospitals), len(sum.Counties))
	}
}

func TestRun_Idempotent(t *testing.T) {
	dir, store := writeInputs(t, allInputs())
	cfg := testConfig()

	first, err := Run(context.Background(), zerolog.Nop(), cfg, store, store)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	firstBytes := readOutput(t, dir, "hospital_profile.csv")

	second, err := Run(context.Background(), zerolog.Nop(), cfg, store, store)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if first.Hospital.OutputSHA256 != second.Hospital.OutputSHA256 {
		t.Error("hospital output hash changed between runs")
	}
	if first.County.OutputSHA256 != second.County.OutputSHA256 {
		t.Error("county output hash changed between runs")
	}
	if readOutput(t, dir, "hospital_profile.csv") != firstBytes {
		t.Error("hospital output bytes changed between runs")
	}
	if first.RunID == second.RunID {
		t.Error("run ids should differ")
	}
}

func TestBuildHospital_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"outcomes missing", map[string]string{"cms_hospital_info.csv": hospitalInfoCSV}},
		{"info missing", map[string]string{"cms_stroke_outcomes.csv": outcomesCSV}},
		{"outcomes empty", map[string]string{"cms_stroke_outcomes.csv": "", "cms_hospital_info.csv": hospitalInfoCSV}},
		{"outcomes header-less placeholder", map[string]string{"cms_stroke_outcomes.csv": "\"\"\n", "cms_hospital_info.csv": hospitalInfoCSV}},
		{"info has no ccn", map[string]string{
			"cms_stroke_outcomes.csv": outcomesCSV,
			"cms_hospital_info.csv":   "name,city\nA,B\n",
		}},
		{"outcomes have no ccn", map[string]string{
			"cms_stroke_outcomes.csv": "measure_id,score\nMORT_30_STK,1\n",
			"cms_hospital_info.csv":   hospitalInfoCSV,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, store := writeInputs(t, tt.files)
			sum, records, err := BuildHospital(context.Background(), zerolog.Nop(), testConfig(), store, store)
			if err != nil {
				t.Fatalf("BuildHospital: %v", err)
			}
			if !sum.Degenerate || sum.Reason == "" {
				t.Errorf("expected degenerate with reason, got %+v", sum)
			}
			if len(records) != 0 {
				t.Errorf("expected no records, got %d", len(records))
			}
			if got := readOutput(t, dir, "hospital_profile.csv"); got != hospitalHeader {
				t.Errorf("output: got %q, want header only", got)
			}
		})
	}
}

func TestBuildHospital_PassthroughWithoutMeasureID(t *testing.T) {
	files := map[string]string{
		"cms_stroke_outcomes.csv": "ccn,measure,score\n010001,MORT_30_STK,12\n",
		"cms_hospital_info.csv":   hospitalInfoCSV,
	}
	dir, store := writeInputs(t, files)

	sum, records, err := BuildHospital(context.Background(), zerolog.Nop(), testConfig(), store, store)
	if err != nil {
		t.Fatalf("BuildHospital: %v", err)
	}
	if sum.Degenerate {
		t.Fatal("passthrough should not be degenerate")
	}
	if len(records) != 3 {
		t.Fatalf("records: got %d, want 3", len(records))
	}
	for _, r := range records {
		if r.Mortality30D != nil || r.Readmit30D != nil {
			t.Errorf("ccn %s: scores should be absent", r.CCN)
		}
	}

	got := readOutput(t, dir, "hospital_profile.csv")
	if !strings.HasPrefix(got, hospitalHeader) {
		t.Errorf("passthrough output lost canonical header: %q", got)
	}
	if !strings.Contains(got, "010001,SOUTHEAST HEALTH,1108 ROSS CLARK CIRCLE,DOTHAN,AL,36301,HOUSTON,(334) 793-8701,31.2,-85.4,,\n") {
		t.Errorf("passthrough row missing: %s", got)
	}
}

func TestBuildHospital_JoinCompleteness(t *testing.T) {
	// Outcomes for a ccn that is not in hospital info must not add a row.
	files := map[string]string{
		"cms_stroke_outcomes.csv": "ccn,measure_id,score\n999999,MORT_30_STK,10\n",
		"cms_hospital_info.csv":   "ccn,hospital_name\nA1,Alpha\nB2,Beta\n",
	}
	_, store := writeInputs(t, files)

	_, records, err := BuildHospital(context.Background(), zerolog.Nop(), testConfig(), store, store)
	if err != nil {
		t.Fatalf("BuildHospital: %v", err)
	}
	if len(records) != 2 || records[0].CCN != "A1" || records[1].CCN != "B2" {
		t.Fatalf("records: %+v", records)
	}
	for _, r := range records {
		if r.Mortality30D != nil {
			t.Errorf("ccn %s should have no score", r.CCN)
		}
		if r.Lat != nil || r.Lon != nil {
			t.Errorf("ccn %s should have no coordinates", r.CCN)
		}
	}
}

func TestBuildCounty_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"cdc missing", map[string]string{"acs_uninsured_county.csv": uninsuredCSV}},
		{"no fips scheme", map[string]string{"cdc_stroke_mortality_county.csv": "state,death_rate\nCA,40\n"}},
		{"cdc unparsable", map[string]string{"cdc_stroke_mortality_county.csv": "fips\n06037,extra,cells\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, store := writeInputs(t, tt.files)
			sum, _, err := BuildCounty(context.Background(), zerolog.Nop(), testConfig(), store, store)
			if err != nil {
				t.Fatalf("BuildCounty: %v", err)
			}
			if !sum.Degenerate {
				t.Errorf("expected degenerate, got %+v", sum)
			}
			if got := readOutput(t, dir, "county_profile.csv"); got != countyHeader {
				t.Errorf("output: got %q, want header only", got)
			}
		})
	}
}

func TestBuildCounty_CodeColumnsWithoutUninsured(t *testing.T) {
	files := map[string]string{
		"cdc_stroke_mortality_county.csv": "state_fips,county_fips,state,county,death_rate\n6,37,CA,Los Angeles,45.2\n6.0,1,CA,Alameda,39\n",
	}
	dir, store := writeInputs(t, files)

	sum, records, err := BuildCounty(context.Background(), zerolog.Nop(), testConfig(), store, store)
	if err != nil {
		t.Fatalf("BuildCounty: %v", err)
	}
	if sum.Degenerate || len(records) != 2 {
		t.Fatalf("summary %+v, %d records", sum, len(records))
	}
	want := countyHeader +
		"06037,CA,Los Angeles,,,45.2,\n" +
		"06001,CA,Alameda,,,39,\n"
	if got := readOutput(t, dir, "county_profile.csv"); got != want {
		t.Errorf("county_profile.csv:\n got: %s\nwant: %s", got, want)
	}
}

func TestRun_ParquetMirror(t *testing.T) {
	dir, store := writeInputs(t, map[string]string{"cms_hospital_info.csv": hospitalInfoCSV})
	cfg := testConfig()
	cfg.Parquet = true

	if _, err := Run(context.Background(), zerolog.Nop(), cfg, store, store); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range []string{"hospital_profile.parquet", "county_profile.parquet"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, []byte("PAR1")) {
			t.Errorf("%s is not a parquet file", name)
		}
	}
}

// panickingStore panics when reading any name in panicOn.
type panickingStore struct {
	storage.Store
	panicOn map[string]bool
}

func (s *panickingStore) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if s.panicOn[name] {
		panic("corrupt reader state")
	}
	return s.Store.ReadFile(ctx, name)
}

func TestRun_PanicInOneBuildIsIsolated(t *testing.T) {
	dir, local := writeInputs(t, allInputs())
	in := &panickingStore{Store: local, panicOn: map[string]bool{"cms_hospital_info.csv": true}}

	sum, err := Run(context.Background(), zerolog.Nop(), testConfig(), in, local)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sum.Hospital.Degenerate || !strings.Contains(sum.Hospital.Reason, "panic") {
		t.Errorf("hospital summary: %+v", sum.Hospital)
	}
	if got := readOutput(t, dir, "hospital_profile.csv"); got != hospitalHeader {
		t.Errorf("hospital output: got %q, want header only", got)
	}
	if got := readOutput(t, dir, "county_profile.csv"); got != wantCounty {
		t.Errorf("county build affected by hospital panic: %s", got)
	}
}

// failingStore fails writes for names in failOn.
type failingStore struct {
	storage.Store
	failOn map[string]bool
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) WriteFile(ctx context.Context, name string, data []byte) error {
	if s.failOn[name] {
		return errDiskFull
	}
	return s.Store.WriteFile(ctx, name, data)
}

func TestRun_WriteFailureReportedPerBuild(t *testing.T) {
	dir, local := writeInputs(t, allInputs())
	out := &failingStore{Store: local, failOn: map[string]bool{"hospital_profile.csv": true}}

	sum, err := Run(context.Background(), zerolog.Nop(), testConfig(), local, out)
	if err == nil {
		t.Fatal("expected error")
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Build != model.BuildHospital {
		t.Fatalf("expected hospital BuildError, got %v", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("error should wrap cause: %v", err)
	}
	if sum.County == nil || sum.County.OutputSHA256 == "" {
		t.Errorf("county build should still complete: %+v", sum.County)
	}
	if got := readOutput(t, dir, "county_profile.csv"); got != wantCounty {
		t.Errorf("county output: %s", got)
	}
}

func TestRun_SelectedBuildOnly(t *testing.T) {
	dir, store := writeInputs(t, allInputs())

	sum, err := Run(context.Background(), zerolog.Nop(), testConfig(), store, store, model.BuildCounty)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Hospital != nil {
		t.Error("hospital build should not run")
	}
	if _, err := os.Stat(filepath.Join(dir, "hospital_profile.csv")); !os.IsNotExist(err) {
		t.Error("hospital output should not exist")
	}
}

// panickingWriter panics when writing any name in panicOn.
type panickingWriter struct {
	storage.Store
	panicOn map[string]bool
}

func (s *panickingWriter) WriteFile(ctx context.Context, name string, data []byte) error {
	if s.panicOn[name] {
		panic("write path exploded")
	}
	return s.Store.WriteFile(ctx, name, data)
}

func TestRun_PanicWritingOutputIsIsolated(t *testing.T) {
	dir, local := writeInputs(t, allInputs())
	out := &panickingWriter{Store: local, panicOn: map[string]bool{"hospital_profile.csv": true}}

	sum, err := Run(context.Background(), zerolog.Nop(), testConfig(), local, out)
	var be *BuildError
	if !errors.As(err, &be) || be.Build != model.BuildHospital {
		t.Fatalf("expected hospital BuildError, got %v", err)
	}
	if !strings.Contains(be.Err.Error(), "write path exploded") {
		t.Errorf("error should carry the panic value: %v", be.Err)
	}
	if sum.County == nil || sum.County.Degenerate {
		t.Fatalf("county build should complete: %+v", sum.County)
	}
	if got := readOutput(t, dir, "county_profile.csv"); got != wantCounty {
		t.Errorf("county output: %s", got)
	}
}

func TestGuard_RecoversPanic(t *testing.T) {
	err := guard(zerolog.Nop(), model.BuildCounty, func() error { panic("boom") })
	var be *BuildError
	if !errors.As(err, &be) || be.Build != model.BuildCounty {
		t.Fatalf("expected county BuildError, got %v", err)
	}
}
