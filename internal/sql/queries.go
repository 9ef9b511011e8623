package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/truncate_profiles.sql
var TruncateProfiles string

//go:embed queries/record_load_batch.sql
var RecordLoadBatch string
