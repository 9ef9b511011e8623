// Package publish loads assembled profiles into Postgres.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/strokeprofile/internal/db"
	"github.com/gyeh/strokeprofile/internal/model"
	embedsql "github.com/gyeh/strokeprofile/internal/sql"
)

var (
	hospitalTable = pgx.Identifier{"profiles", "hospital_profile"}
	countyTable   = pgx.Identifier{"profiles", "county_profile"}
)

// Result holds metrics from a publish.
type Result struct {
	LoadBatchID  uuid.UUID
	HospitalRows int64
	CountyRows   int64
	Duration     time.Duration
}

// Publish replaces the contents of both profile tables with the records of
// a run, in a single transaction. A header-only build publishes as an empty
// table.
func Publish(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, run *model.RunSummary) (*Result, error) {
	start := time.Now()
	runID, err := uuid.Parse(run.RunID)
	if err != nil {
		return nil, fmt.Errorf("parse run id: %w", err)
	}
	res := &Result{LoadBatchID: uuid.New()}
	log = log.With().Str("load_batch_id", res.LoadBatchID.String()).Logger()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, embedsql.TruncateProfiles); err != nil {
		return nil, fmt.Errorf("truncate profiles: %w", err)
	}

	// The batch row must exist before the profile rows that reference it.
	if _, err := tx.Exec(ctx, embedsql.RecordLoadBatch,
		res.LoadBatchID, runID,
		int64(len(run.Hospitals)), int64(len(run.Counties)),
		outputHash(run.Hospital), outputHash(run.County),
	); err != nil {
		return nil, fmt.Errorf("record load batch: %w", err)
	}

	res.HospitalRows, err = copyRecords(ctx, tx, hospitalTable, model.HospitalColumns, run.Hospitals, res.LoadBatchID)
	if err != nil {
		return nil, fmt.Errorf("copy hospital profile: %w", err)
	}
	res.CountyRows, err = copyRecords(ctx, tx, countyTable, model.CountyColumns, run.Counties, res.LoadBatchID)
	if err != nil {
		return nil, fmt.Errorf("copy county profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	res.Duration = time.Since(start)
	log.Info().
		Int64("hospital_rows", res.HospitalRows).
		Int64("county_rows", res.CountyRows).
		Str("duration", res.Duration.String()).
		Msg("profiles published")
	return res, nil
}

// copyRecords streams records through a channel-backed CopyFromSource.
func copyRecords[T any, PT interface {
	*T
	db.Copyable
}](ctx context.Context, tx pgx.Tx, table pgx.Identifier, columns []string, records []T, batchID uuid.UUID) (int64, error) {
	stop := make(chan struct{})
	defer close(stop)

	ch := db.Feed[T, PT](records, stop)

	cols := append([]string{"load_batch_id"}, columns...)
	return tx.CopyFrom(ctx, table, cols, db.NewChannelSource[PT](ch, batchID))
}

func outputHash(b *model.BuildSummary) *string {
	if b == nil || b.OutputSHA256 == "" {
		return nil
	}
	return &b.OutputSHA256
}
