package profile

import (
	"github.com/gyeh/strokeprofile/internal/config"
	"github.com/gyeh/strokeprofile/internal/fips"
	"github.com/gyeh/strokeprofile/internal/normalize"
	"github.com/gyeh/strokeprofile/internal/outcome"
	"github.com/gyeh/strokeprofile/internal/table"
)

// HospitalBranch is the path a hospital build takes for a given pair of
// inputs, with the inputs already normalized to canonical column names.
type HospitalBranch struct {
	Degenerate bool
	Reason     string          // set for degenerate and passthrough paths
	Info       *table.Table    // nil when degenerate
	Pivot      *outcome.Result // nil when degenerate or passthrough
}

// ResolveHospital normalizes the hospital inputs and decides the build path.
// Either input absent, or either lacking a ccn column, is degenerate. An
// outcomes table without measure_id passes hospital info through with
// absent scores.
func ResolveHospital(cfg *config.Config, outcomes, info *table.Table) HospitalBranch {
	if outcomes == nil || info == nil {
		return HospitalBranch{Degenerate: true, Reason: "missing outcomes or hospital info"}
	}
	outcomes = normalize.ApplyAliases(outcomes, cfg.OutcomeAliases())
	info = normalize.ApplyAliases(info, cfg.HospitalInfoAliases())

	if !info.Has("ccn") {
		return HospitalBranch{Degenerate: true, Reason: "hospital info has no ccn column"}
	}
	pivot, ok := outcome.Pivot(outcomes)
	if !ok {
		return HospitalBranch{Info: info, Reason: "outcomes missing measure_id; scores absent"}
	}
	if !outcomes.Has("ccn") {
		return HospitalBranch{Degenerate: true, Reason: "outcomes have no ccn column"}
	}
	return HospitalBranch{Info: info, Pivot: pivot}
}

// CountyBranch is the path a county build takes for a given pair of inputs.
type CountyBranch struct {
	Degenerate bool
	Reason     string
	CDC        *table.Table
	Codes      []*string // one per CDC row
	Scheme     fips.Scheme
	Uninsured  UninsuredLookup // nil when the uninsured extract is unusable
}

// ResolveCounty normalizes the county inputs and decides the build path.
// An absent mortality extract or one with no FIPS scheme is degenerate; an
// unusable uninsured extract only leaves pct_uninsured absent.
func ResolveCounty(cfg *config.Config, cdc, acs *table.Table) CountyBranch {
	if cdc == nil {
		return CountyBranch{Degenerate: true, Reason: "missing county mortality"}
	}
	cdc = normalize.ApplyAliases(cdc, cfg.CountyMortalityAliases())

	codes, scheme := fips.Build(cdc)
	if scheme == fips.SchemeNone {
		return CountyBranch{Degenerate: true, Reason: "could not construct fips"}
	}

	br := CountyBranch{CDC: cdc, Codes: codes, Scheme: scheme}
	if acs != nil {
		acs = normalize.ApplyAliases(acs, cfg.UninsuredAliases())
	}
	br.Uninsured = BuildUninsuredLookup(acs)
	if br.Uninsured == nil {
		br.Reason = "uninsured extract missing or lacks fips/pct_uninsured"
	}
	return br
}
