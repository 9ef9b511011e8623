// Package profile assembles the hospital and county profiles from the
// normalized upstream extracts and writes them to an output store.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/strokeprofile/internal/config"
	"github.com/gyeh/strokeprofile/internal/csvread"
	"github.com/gyeh/strokeprofile/internal/model"
	"github.com/gyeh/strokeprofile/internal/output"
	"github.com/gyeh/strokeprofile/internal/storage"
)

// BuildError wraps an error with the build where it occurred.
type BuildError struct {
	Build model.BuildName
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s build: %s", e.Build, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Run executes the requested builds in order (both when none are named).
// Builds are independent: a failure in one is recorded and the next still
// runs. The returned error joins every BuildError.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, in, out storage.Store, builds ...model.BuildName) (*model.RunSummary, error) {
	totalStart := time.Now()
	if len(builds) == 0 {
		builds = []model.BuildName{model.BuildHospital, model.BuildCounty}
	}

	runID := uuid.New().String()
	log = log.With().Str("run_id", runID).Logger()
	summary := &model.RunSummary{RunID: runID}

	var errs []error
	for _, b := range builds {
		var err error
		switch b {
		case model.BuildHospital:
			err = guard(log, b, func() error {
				sum, records, err := BuildHospital(ctx, log, cfg, in, out)
				summary.Hospital = sum
				summary.Hospitals = records
				return err
			})
		case model.BuildCounty:
			err = guard(log, b, func() error {
				sum, records, err := BuildCounty(ctx, log, cfg, in, out)
				summary.County = sum
				summary.Counties = records
				return err
			})
		default:
			err = &BuildError{Build: b, Err: fmt.Errorf("unknown build")}
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("total_duration", summary.DurationTotal.String()).
		Int("failed_builds", len(errs)).
		Msg("profile run complete")

	return summary, errors.Join(errs...)
}

// guard turns a panic escaping a build into a BuildError so the next
// build still runs.
func guard(log zerolog.Logger, b model.BuildName, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("build", string(b)).Interface("panic", r).Msg("build aborted")
			err = &BuildError{Build: b, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return fn()
}

// BuildHospital produces the hospital profile. Missing or structurally
// unusable inputs yield a header-only table; only an output write failure
// is returned as an error.
func BuildHospital(ctx context.Context, log zerolog.Logger, cfg *config.Config, in, out storage.Store) (*model.BuildSummary, []model.HospitalRecord, error) {
	log = log.With().Str("build", string(model.BuildHospital)).Logger()
	w := &writer[model.HospitalRecord]{
		build:   model.BuildHospital,
		name:    cfg.Outputs.HospitalProfile,
		columns: model.HospitalColumns,
		parquet: cfg.Parquet,
		out:     out,
		log:     log,
	}
	return w.isolate(ctx, func(sum *model.BuildSummary) ([]model.HospitalRecord, bool) {
		outcomes := csvread.Load(ctx, in, cfg.Inputs.HospitalOutcomes, log)
		info := csvread.Load(ctx, in, cfg.Inputs.HospitalInfo, log)

		br := ResolveHospital(cfg, outcomes, info)
		sum.Reason = br.Reason
		if br.Degenerate {
			return nil, false
		}
		sum.RowsIn = int64(br.Info.Len())

		var scores map[string]model.OutcomeScores
		if br.Pivot != nil {
			scores = br.Pivot.Scores
			log.Debug().
				Int("observations", br.Pivot.Observations).
				Int("superseded", br.Pivot.Superseded).
				Int("hospitals_scored", len(scores)).
				Msg("outcomes pivoted")
		} else {
			log.Warn().Str("reason", br.Reason).Msg("passing hospital info through without outcomes")
		}

		records, res := AssembleHospitals(br.Info, scores)
		sum.RowsDropped = int64(res.Dropped())
		if res.Dropped() > 0 {
			log.Warn().
				Int("no_ccn", res.NoKey).
				Int("duplicate_ccn", res.Duplicates).
				Msg("dropped hospital rows")
		}
		return records, true
	})
}

// BuildCounty produces the county profile. A missing mortality extract or
// one without a derivable FIPS scheme yields a header-only table.
func BuildCounty(ctx context.Context, log zerolog.Logger, cfg *config.Config, in, out storage.Store) (*model.BuildSummary, []model.CountyRecord, error) {
	log = log.With().Str("build", string(model.BuildCounty)).Logger()
	w := &writer[model.CountyRecord]{
		build:   model.BuildCounty,
		name:    cfg.Outputs.CountyProfile,
		columns: model.CountyColumns,
		parquet: cfg.Parquet,
		out:     out,
		log:     log,
	}
	return w.isolate(ctx, func(sum *model.BuildSummary) ([]model.CountyRecord, bool) {
		cdc := csvread.Load(ctx, in, cfg.Inputs.CountyMortality, log)
		acs := csvread.Load(ctx, in, cfg.Inputs.CountyUninsured, log)

		br := ResolveCounty(cfg, cdc, acs)
		sum.Reason = br.Reason
		if br.Degenerate {
			return nil, false
		}
		sum.RowsIn = int64(br.CDC.Len())
		log.Debug().Str("fips_scheme", br.Scheme.String()).Msg("fips scheme detected")
		if br.Uninsured == nil {
			log.Warn().Str("reason", br.Reason).Msg("pct_uninsured absent for every county")
		}

		records, res := AssembleCounties(br.CDC, br.Codes, br.Uninsured)
		sum.RowsDropped = int64(res.Dropped())
		if res.Dropped() > 0 {
			log.Warn().
				Int("invalid_fips", res.NoKey).
				Int("duplicate_fips", res.Duplicates).
				Msg("dropped county rows")
		}
		return records, true
	})
}

// tabular is a profile row that can be written as CSV cells.
type tabular interface {
	model.HospitalRecord | model.CountyRecord
}

// writer carries what one build needs to emit its output.
type writer[T tabular] struct {
	build   model.BuildName
	name    string
	columns []string
	parquet bool
	out     storage.Store
	log     zerolog.Logger
}

// isolate runs assemble and writes its result. When assemble reports
// ok=false or panics, a header-only table is written instead.
func (w *writer[T]) isolate(ctx context.Context, assemble func(sum *model.BuildSummary) ([]T, bool)) (sum *model.BuildSummary, records []T, err error) {
	start := time.Now()
	sum = &model.BuildSummary{Build: w.build, Output: w.out.Location(w.name)}
	w.log.Info().Str("output", sum.Output).Msg("starting build")

	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("build panicked; writing degenerate output")
			sum = &model.BuildSummary{
				Build:  w.build,
				Output: sum.Output,
				Reason: fmt.Sprintf("panic: %v", r),
			}
			records = nil
			err = w.writeAfterPanic(ctx, sum)
			sum.Duration = time.Since(start)
		}
	}()

	records, ok := assemble(sum)
	if !ok {
		w.log.Warn().Str("reason", sum.Reason).Msg("writing degenerate output")
		records = nil
	}
	err = w.write(ctx, sum, records, ok)
	sum.Duration = time.Since(start)
	if err == nil {
		w.log.Info().
			Int64("rows", sum.RowsOut).
			Bool("degenerate", sum.Degenerate).
			Str("sha256", sum.OutputSHA256).
			Str("duration", sum.Duration.String()).
			Msg("build complete")
	}
	return sum, records, err
}

// writeAfterPanic writes the header-only table. A panic from the write path
// itself becomes a BuildError.
func (w *writer[T]) writeAfterPanic(ctx context.Context, sum *model.BuildSummary) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("degenerate write panicked")
			err = &BuildError{Build: w.build, Err: fmt.Errorf("panic writing output: %v", r)}
		}
	}()
	return w.write(ctx, sum, nil, false)
}

func (w *writer[T]) write(ctx context.Context, sum *model.BuildSummary, records []T, full bool) error {
	var (
		sha string
		err error
	)
	if full {
		rows := make([][]string, len(records))
		for i := range records {
			rows[i] = cells(&records[i])
		}
		sha, err = output.WriteTable(ctx, w.out, w.name, w.columns, rows)
	} else {
		sum.Degenerate = true
		sha, err = output.WriteDegenerate(ctx, w.out, w.name, w.columns)
	}
	if err != nil {
		w.log.Error().Err(err).Msg("failed to write output")
		return &BuildError{Build: w.build, Err: err}
	}
	sum.RowsOut = int64(len(records))
	sum.OutputSHA256 = sha

	if w.parquet {
		pq := output.ParquetName(w.name)
		if err := output.WriteParquet(ctx, w.out, pq, records); err != nil {
			w.log.Error().Err(err).Str("output", pq).Msg("failed to write parquet mirror")
			return &BuildError{Build: w.build, Err: err}
		}
	}
	return nil
}

func cells[T tabular](rec *T) []string {
	switch r := any(rec).(type) {
	case *model.HospitalRecord:
		return r.Cells()
	case *model.CountyRecord:
		return r.Cells()
	}
	return nil
}
