package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/strokeprofile/internal/exitcode"
	"github.com/gyeh/strokeprofile/internal/profile"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run: inspect inputs and report the path each build would take (no writes)",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := setup(cmd, false)
	ctx := context.Background()
	in, _ := openStores(ctx, log)

	p, err := profile.BuildPlan(ctx, &cfg, in)
	if err != nil {
		log.Error().Err(err).Msg("failed to inspect inputs")
		os.Exit(exitcode.StorageError)
	}

	fmt.Println("=== profilebuild plan ===")
	fmt.Println("Inputs:")
	for _, r := range p.Inputs {
		switch {
		case !r.Present:
			fmt.Printf("  %-34s missing\n", r.Name)
		case r.Problem != "":
			fmt.Printf("  %-34s unusable (%s) sha256=%s\n", r.Name, r.Problem, shortHash(r.SHA256))
		default:
			fmt.Printf("  %-34s %d rows, %d columns, %d bytes, sha256=%s\n",
				r.Name, r.Rows, len(r.Columns), r.Size, shortHash(r.SHA256))
			fmt.Printf("  %-34s columns: %s\n", "", strings.Join(r.Columns, ", "))
		}
	}

	fmt.Println()
	h := p.Hospital
	switch {
	case h.Degenerate:
		fmt.Printf("Hospital: header-only (%s)\n", h.Reason)
	case h.Passthrough:
		fmt.Printf("Hospital: passthrough, %d hospitals without scores (%s)\n", h.Hospitals, h.Reason)
	default:
		fmt.Printf("Hospital: full, %d hospitals, %d with outcome scores\n", h.Hospitals, h.Scored)
	}

	c := p.County
	if c.Degenerate {
		fmt.Printf("County:   header-only (%s)\n", c.Reason)
	} else {
		fmt.Printf("County:   full, %d counties via %s fips, uninsured join: %t\n", c.Counties, c.Scheme, c.Uninsured)
	}
	return nil
}
