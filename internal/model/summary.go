package model

import "time"

// BuildName identifies one of the two independent profile builds.
type BuildName string

const (
	BuildHospital BuildName = "hospital"
	BuildCounty   BuildName = "county"
)

// BuildSummary captures the outcome of a single profile build.
type BuildSummary struct {
	Build        BuildName
	Output       string // object name the table was written to
	RowsIn       int64  // rows in the primary input, 0 when absent
	RowsOut      int64
	RowsDropped  int64  // primary rows dropped for a missing, malformed or duplicate key
	Degenerate   bool   // header-only output was written
	Reason       string // why a degenerate or passthrough path was taken
	OutputSHA256 string
	Duration     time.Duration
}

// RunSummary captures metrics from a full profilebuild run.
type RunSummary struct {
	RunID         string
	Hospital      *BuildSummary
	County        *BuildSummary
	Hospitals     []HospitalRecord
	Counties      []CountyRecord
	DurationTotal time.Duration
}
