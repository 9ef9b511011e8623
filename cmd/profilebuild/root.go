package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/strokeprofile/internal/config"
	"github.com/gyeh/strokeprofile/internal/exitcode"
	"github.com/gyeh/strokeprofile/internal/logging"
	"github.com/gyeh/strokeprofile/internal/storage"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "profilebuild",
	Short: "Stroke hospital and county profile builder",
	Long: "Reads CMS, CDC and ACS extracts, tolerating missing files and drifting schemas, " +
		"and writes schema-stable hospital and county profile tables.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigFile, "config", "", "YAML config file with object names and column aliases")
	pf.StringVar(&cfg.InputURI, "input", cfg.InputURI, "Input store: a directory or s3://bucket/prefix")
	pf.StringVar(&cfg.OutputURI, "output", "", "Output store (defaults to --input)")
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("PROFILE_DB_URL"), "Postgres connection string (or set PROFILE_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// setup builds the logger and finalizes cfg, exiting on a bad config.
func setup(cmd *cobra.Command, needDSN bool) zerolog.Logger {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if err := loadConfig(cmd, &cfg, needDSN); err != nil {
		var fe *fileError
		if errors.As(err, &fe) {
			log.Error().Err(fe.err).Str("config", cfg.ConfigFile).Msg("failed to load config file")
			os.Exit(exitcode.ConfigError)
		}
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	return log
}

// fileError marks a failure reading or parsing the --config file.
type fileError struct{ err error }

func (e *fileError) Error() string { return e.err.Error() }

// loadConfig applies the --config file to c and validates it. Explicitly set
// --input and --output flags win over the file.
func loadConfig(cmd *cobra.Command, c *config.Config, needDSN bool) error {
	if c.ConfigFile != "" {
		flagged := *c
		if err := c.LoadFromFile(c.ConfigFile); err != nil {
			return &fileError{err: err}
		}
		flags := cmd.Flags()
		if flags.Changed("input") {
			c.InputURI = flagged.InputURI
		}
		if flags.Changed("output") {
			c.OutputURI = flagged.OutputURI
		}
	}
	if needDSN {
		return c.ValidateWithDSN()
	}
	return c.Validate()
}

// openStores opens the input and output stores named in cfg.
func openStores(ctx context.Context, log zerolog.Logger) (in, out storage.Store) {
	in, err := storage.Open(ctx, cfg.InputURI)
	if err != nil {
		log.Error().Err(err).Str("input", cfg.InputURI).Msg("failed to open input store")
		os.Exit(exitcode.StorageError)
	}
	if cfg.OutputURI == cfg.InputURI {
		return in, in
	}
	out, err = storage.Open(ctx, cfg.OutputURI)
	if err != nil {
		log.Error().Err(err).Str("output", cfg.OutputURI).Msg("failed to open output store")
		os.Exit(exitcode.StorageError)
	}
	return in, out
}
