// mkfixture writes a small synthetic set of the four upstream extracts so the
// builds can be run locally without fetching anything.
// Usage: go run ./cmd/mkfixture --out data_clean --hospitals 50 --drift
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/gyeh/strokeprofile/internal/output"
	"github.com/gyeh/strokeprofile/internal/storage"
)

var states = []struct {
	abbr, fips string
	counties   []string
}{
	{"AL", "01", []string{"001", "003", "069"}},
	{"CA", "06", []string{"001", "037", "073"}},
	{"NY", "36", []string{"047", "061"}},
	{"TX", "48", []string{"113", "201", "453"}},
}

func main() {
	out := flag.String("out", "data_clean", "output store: a directory or s3://bucket/prefix")
	hospitals := flag.Int("hospitals", 40, "number of hospitals to generate")
	drift := flag.Bool("drift", false, "use alternate upstream column names and encodings")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	ctx := context.Background()
	store, err := storage.Open(ctx, *out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}

	g := &generator{rng: rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), drift: *drift}
	files := []struct {
		name string
		gen  func() ([]string, [][]string)
	}{
		{"cms_hospital_info.csv", func() ([]string, [][]string) { return g.hospitalInfo(*hospitals) }},
		{"cms_stroke_outcomes.csv", func() ([]string, [][]string) { return g.outcomes(*hospitals) }},
		{"cdc_stroke_mortality_county.csv", g.mortality},
		{"acs_uninsured_county.csv", g.uninsured},
	}
	for _, f := range files {
		header, rows := f.gen()
		if _, err := output.WriteTable(ctx, store, f.name, header, rows); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", f.name, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %d rows to %s\n", len(rows), store.Location(f.name))
	}
}

type generator struct {
	rng   *rand.Rand
	drift bool
}

func ccn(i int) string {
	return fmt.Sprintf("%06d", 10001+i*7)
}

func (g *generator) hospitalInfo(n int) ([]string, [][]string) {
	header := []string{"ccn", "hospital_name", "address", "city", "state", "zip_code", "county_name", "phone_number", "location"}
	if g.drift {
		header = []string{"Facility ID", "Facility Name", "Address", "City/Town", "State", "ZIP Code", "County/Parish", "Telephone Number", "location"}
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		st := states[i%len(states)]
		lat := 25 + g.rng.Float64()*20
		lon := -120 + g.rng.Float64()*45
		rows = append(rows, []string{
			ccn(i),
			fmt.Sprintf("GENERAL HOSPITAL %d", i+1),
			fmt.Sprintf("%d MAIN STREET", 100+i),
			fmt.Sprintf("CITY %d", i%9),
			st.abbr,
			fmt.Sprintf("%05d", 10000+g.rng.IntN(89999)),
			fmt.Sprintf("COUNTY %s", st.counties[i%len(st.counties)]),
			fmt.Sprintf("(%03d) 555-%04d", 200+g.rng.IntN(700), g.rng.IntN(10000)),
			g.location(i, lat, lon),
		})
	}
	return header, rows
}

// location cycles through the encodings seen upstream, including a
// deliberately malformed value.
func (g *generator) location(i int, lat, lon float64) string {
	switch i % 5 {
	case 0:
		return fmt.Sprintf(`{"latitude": "%.4f", "longitude": "%.4f"}`, lat, lon)
	case 1:
		return fmt.Sprintf(`{"type": "Point", "coordinates": [%.4f, %.4f]}`, lon, lat)
	case 2:
		if g.drift {
			return fmt.Sprintf(`{'latitude': '%.4f', 'longitude': '%.4f'}`, lat, lon)
		}
		return ""
	case 3:
		return "{not json"
	}
	return ""
}

func (g *generator) outcomes(n int) ([]string, [][]string) {
	header := []string{"ccn", "measure_id", "score", "end_date"}
	if g.drift {
		header = []string{"provider_id", "Measure ID", "score", "End Date"}
	}
	var rows [][]string
	for i := 0; i < n; i++ {
		for _, code := range []string{"MORT_30_STK", "READM_30_STK", "MORT_30_HF"} {
			score := fmt.Sprintf("%.1f", 10+g.rng.Float64()*8)
			if g.rng.IntN(10) == 0 {
				score = "Not Available"
			}
			rows = append(rows, []string{ccn(i), code, score, "06/30/2023"})
		}
		// An older observation that must lose to the one above.
		if i%4 == 0 {
			rows = append(rows, []string{ccn(i), "MORT_30_STK", "99.9", "06/30/2021"})
		}
	}
	return header, rows
}

func (g *generator) mortality() ([]string, [][]string) {
	header := []string{"fips", "state_name", "county_name", "death_rate"}
	if g.drift {
		header = []string{"LocationID", "LocationAbbr", "LocationDesc", "Data_Value"}
	}
	var rows [][]string
	for _, st := range states {
		for _, c := range st.counties {
			rate := fmt.Sprintf("%.1f", 30+g.rng.Float64()*40)
			if g.rng.IntN(8) == 0 {
				rate = "Insufficient Data"
			}
			code := st.fips + c
			if g.drift {
				// Numeric exports drop the leading zero.
				n, _ := strconv.Atoi(code)
				code = strconv.Itoa(n)
			}
			rows = append(rows, []string{code, st.abbr, "County " + c, rate})
		}
	}
	return header, rows
}

func (g *generator) uninsured() ([]string, [][]string) {
	header := []string{"fips", "pct_uninsured"}
	if g.drift {
		header = []string{"fips", "S2701_C05_001E"}
	}
	var rows [][]string
	for _, st := range states {
		for j, c := range st.counties {
			if j == len(st.counties)-1 {
				continue // leave one county per state unmatched
			}
			rows = append(rows, []string{st.fips + c, fmt.Sprintf("%.1f", 3+g.rng.Float64()*15)})
		}
	}
	return header, rows
}
