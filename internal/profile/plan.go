package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/gyeh/strokeprofile/internal/config"
	"github.com/gyeh/strokeprofile/internal/csvread"
	"github.com/gyeh/strokeprofile/internal/fips"
	"github.com/gyeh/strokeprofile/internal/model"
	"github.com/gyeh/strokeprofile/internal/normalize"
	"github.com/gyeh/strokeprofile/internal/storage"
	"github.com/gyeh/strokeprofile/internal/table"
)

// InputReport describes one upstream extract as the builds would see it.
type InputReport struct {
	Name     string
	Location string
	Present  bool
	Problem  string // why a present object is treated as absent
	SHA256   string
	Size     int
	Rows     int
	Columns  []string
}

// Plan is the dry-run view of a run: what each input looks like and which
// path each build would take. Nothing is written.
type Plan struct {
	Inputs   []InputReport
	Hospital HospitalPlan
	County   CountyPlan
}

type HospitalPlan struct {
	Degenerate  bool
	Passthrough bool
	Reason      string
	Hospitals   int // distinct ccns that would be emitted
	Scored      int // of those, with at least one outcome observation
}

type CountyPlan struct {
	Degenerate bool
	Reason     string
	Scheme     fips.Scheme
	Counties   int
	Uninsured  bool
}

// BuildPlan inspects every input in store and resolves both builds without
// writing output.
func BuildPlan(ctx context.Context, cfg *config.Config, store storage.Store) (*Plan, error) {
	names := []string{
		cfg.Inputs.HospitalOutcomes,
		cfg.Inputs.HospitalInfo,
		cfg.Inputs.CountyMortality,
		cfg.Inputs.CountyUninsured,
	}
	p := &Plan{}
	tables := make(map[string]*table.Table, len(names))
	for _, name := range names {
		rep, t, err := inspect(ctx, store, name)
		if err != nil {
			return nil, err
		}
		p.Inputs = append(p.Inputs, rep)
		tables[name] = t
	}

	hb := ResolveHospital(cfg, tables[cfg.Inputs.HospitalOutcomes], tables[cfg.Inputs.HospitalInfo])
	p.Hospital = HospitalPlan{Degenerate: hb.Degenerate, Reason: hb.Reason}
	if !hb.Degenerate {
		scores := hb.scores()
		records, _ := AssembleHospitals(hb.Info, scores)
		p.Hospital.Passthrough = hb.Pivot == nil
		p.Hospital.Hospitals = len(records)
		for _, r := range records {
			if _, ok := scores[r.CCN]; ok {
				p.Hospital.Scored++
			}
		}
	}

	cb := ResolveCounty(cfg, tables[cfg.Inputs.CountyMortality], tables[cfg.Inputs.CountyUninsured])
	p.County = CountyPlan{Degenerate: cb.Degenerate, Reason: cb.Reason, Scheme: cb.Scheme}
	if !cb.Degenerate {
		records, _ := AssembleCounties(cb.CDC, cb.Codes, cb.Uninsured)
		p.County.Counties = len(records)
		p.County.Uninsured = cb.Uninsured != nil
	}
	return p, nil
}

// inspect reads an input the way csvread.Load does but keeps the details.
// Only a storage failure other than a missing object is returned.
func inspect(ctx context.Context, store storage.Store, name string) (InputReport, *table.Table, error) {
	rep := InputReport{Name: name, Location: store.Location(name)}
	data, err := store.ReadFile(ctx, name)
	if errors.Is(err, storage.ErrNotExist) {
		return rep, nil, nil
	}
	if err != nil {
		return rep, nil, fmt.Errorf("inspect %s: %w", name, err)
	}
	rep.Present = true
	rep.Size = len(data)
	rep.SHA256 = normalize.ContentHash(data)
	if len(data) == 0 {
		rep.Problem = "empty"
		return rep, nil, nil
	}
	t, err := csvread.Parse(data)
	if err != nil {
		rep.Problem = err.Error()
		return rep, nil, nil
	}
	rep.Rows = t.Len()
	rep.Columns = t.Columns()
	return rep, t, nil
}

func (b HospitalBranch) scores() map[string]model.OutcomeScores {
	if b.Pivot == nil {
		return nil
	}
	return b.Pivot.Scores
}
