package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/strokeprofile/internal/exitcode"
	"github.com/gyeh/strokeprofile/internal/model"
	"github.com/gyeh/strokeprofile/internal/profile"
)

var buildCmd = &cobra.Command{
	Use:       "build [hospital|county|all]",
	Short:     "Build the hospital and county profiles",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"hospital", "county", "all"},
	RunE:      runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&cfg.Parquet, "parquet", false, "Also write .parquet mirrors of the profiles")
	rootCmd.AddCommand(buildCmd)
}

// selectBuilds maps the build argument to the builds to run.
func selectBuilds(args []string) []model.BuildName {
	if len(args) == 0 || args[0] == "all" {
		return []model.BuildName{model.BuildHospital, model.BuildCounty}
	}
	return []model.BuildName{model.BuildName(args[0])}
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := setup(cmd, false)
	ctx := context.Background()
	in, out := openStores(ctx, log)

	summary, err := profile.Run(ctx, log, &cfg, in, out, selectBuilds(args)...)
	printSummary(summary)
	if err != nil {
		var be *profile.BuildError
		if errors.As(err, &be) {
			log.Error().Err(be.Err).Str("build", string(be.Build)).Msg("build failed")
		}
		os.Exit(exitcode.StorageError)
	}
	return nil
}

func printSummary(summary *model.RunSummary) {
	for _, b := range []*model.BuildSummary{summary.Hospital, summary.County} {
		if b == nil {
			continue
		}
		state := "full"
		if b.Degenerate {
			state = "header-only"
		}
		line := fmt.Sprintf("%-8s %-11s %d rows -> %s (sha256 %s, %.2fs)",
			b.Build, state, b.RowsOut, b.Output, shortHash(b.OutputSHA256), b.Duration.Seconds())
		if b.Reason != "" {
			line += ": " + b.Reason
		}
		fmt.Println(line)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	if h == "" {
		return "-"
	}
	return h
}
