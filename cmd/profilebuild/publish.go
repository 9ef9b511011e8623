package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/strokeprofile/internal/db"
	"github.com/gyeh/strokeprofile/internal/exitcode"
	"github.com/gyeh/strokeprofile/internal/profile"
	"github.com/gyeh/strokeprofile/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Build both profiles and load them into Postgres",
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&cfg.Parquet, "parquet", false, "Also write .parquet mirrors of the profiles")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	log := setup(cmd, true)
	ctx := context.Background()
	in, out := openStores(ctx, log)

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := profile.Run(ctx, log, &cfg, in, out)
	printSummary(summary)
	if err != nil {
		log.Error().Err(err).Msg("build failed; nothing published")
		os.Exit(exitcode.StorageError)
	}

	res, err := publish.Publish(ctx, pool, log, summary)
	if err != nil {
		log.Error().Err(err).Msg("publish failed")
		os.Exit(exitcode.PublishError)
	}

	fmt.Printf("Publish complete: %d hospitals, %d counties, batch %s (%.1fs)\n",
		res.HospitalRows, res.CountyRows, res.LoadBatchID, res.Duration.Seconds())
	return nil
}
