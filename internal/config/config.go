package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/strokeprofile/internal/normalize"
)

// Config holds all runtime configuration for a profilebuild run.
type Config struct {
	ConfigFile string
	InputURI   string // local directory or s3://bucket/prefix holding the extracts
	OutputURI  string // defaults to InputURI
	DSN        string
	LogFormat  string // "text" or "json"
	LogLevel   string
	Parquet    bool // also write .parquet mirrors of the profiles

	Inputs  Inputs
	Outputs Outputs
	Aliases AliasOverrides
}

// Inputs names the upstream extracts inside the input store.
type Inputs struct {
	HospitalOutcomes string `yaml:"hospital_outcomes"`
	HospitalInfo     string `yaml:"hospital_info"`
	CountyMortality  string `yaml:"county_mortality"`
	CountyUninsured  string `yaml:"county_uninsured"`
}

// Outputs names the profile tables inside the output store.
type Outputs struct {
	HospitalProfile string `yaml:"hospital_profile"`
	CountyProfile   string `yaml:"county_profile"`
}

// AliasOverrides extends or replaces the built-in column alias tables.
type AliasOverrides struct {
	HospitalInfo     []normalize.Alias `yaml:"hospital_info"`
	HospitalOutcomes []normalize.Alias `yaml:"hospital_outcomes"`
	CountyMortality  []normalize.Alias `yaml:"county_mortality"`
	CountyUninsured  []normalize.Alias `yaml:"county_uninsured"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Input   string         `yaml:"input"`
	Output  string         `yaml:"output"`
	Inputs  Inputs         `yaml:"inputs"`
	Outputs Outputs        `yaml:"outputs"`
	Aliases AliasOverrides `yaml:"aliases"`
}

// Default returns a Config with the standard object names.
func Default() Config {
	return Config{
		InputURI:  "data_clean",
		LogFormat: "text",
		LogLevel:  "info",
		Inputs: Inputs{
			HospitalOutcomes: "cms_stroke_outcomes.csv",
			HospitalInfo:     "cms_hospital_info.csv",
			CountyMortality:  "cdc_stroke_mortality_county.csv",
			CountyUninsured:  "acs_uninsured_county.csv",
		},
		Outputs: Outputs{
			HospitalProfile: "hospital_profile.csv",
			CountyProfile:   "county_profile.csv",
		},
	}
}

// LoadFromFile reads a YAML config file and merges its non-empty values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setIf(&c.InputURI, yc.Input)
	setIf(&c.OutputURI, yc.Output)
	setIf(&c.Inputs.HospitalOutcomes, yc.Inputs.HospitalOutcomes)
	setIf(&c.Inputs.HospitalInfo, yc.Inputs.HospitalInfo)
	setIf(&c.Inputs.CountyMortality, yc.Inputs.CountyMortality)
	setIf(&c.Inputs.CountyUninsured, yc.Inputs.CountyUninsured)
	setIf(&c.Outputs.HospitalProfile, yc.Outputs.HospitalProfile)
	setIf(&c.Outputs.CountyProfile, yc.Outputs.CountyProfile)
	c.Aliases = yc.Aliases

	return c.validateAliases()
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) validateAliases() error {
	groups := map[string][]normalize.Alias{
		"hospital_info":     c.Aliases.HospitalInfo,
		"hospital_outcomes": c.Aliases.HospitalOutcomes,
		"county_mortality":  c.Aliases.CountyMortality,
		"county_uninsured":  c.Aliases.CountyUninsured,
	}
	for group, aliases := range groups {
		for _, a := range aliases {
			if a.Canonical == "" {
				return fmt.Errorf("aliases.%s: entry with empty canonical name", group)
			}
			if len(a.Alternates) == 0 {
				return fmt.Errorf("aliases.%s: %q has no alternates", group, a.Canonical)
			}
		}
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.InputURI == "" {
		return fmt.Errorf("--input is required")
	}
	if c.OutputURI == "" {
		c.OutputURI = c.InputURI
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}

	names := map[string]string{
		"inputs.hospital_outcomes": c.Inputs.HospitalOutcomes,
		"inputs.hospital_info":     c.Inputs.HospitalInfo,
		"inputs.county_mortality":  c.Inputs.CountyMortality,
		"inputs.county_uninsured":  c.Inputs.CountyUninsured,
		"outputs.hospital_profile": c.Outputs.HospitalProfile,
		"outputs.county_profile":   c.Outputs.CountyProfile,
	}
	for field, v := range names {
		if v == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
	}
	if c.Outputs.HospitalProfile == c.Outputs.CountyProfile {
		return fmt.Errorf("hospital and county profiles share the name %q", c.Outputs.HospitalProfile)
	}
	if c.OutputURI == c.InputURI {
		for _, out := range []string{c.Outputs.HospitalProfile, c.Outputs.CountyProfile} {
			switch out {
			case c.Inputs.HospitalOutcomes, c.Inputs.HospitalInfo, c.Inputs.CountyMortality, c.Inputs.CountyUninsured:
				return fmt.Errorf("output %q would overwrite an input", out)
			}
		}
	}
	return nil
}

// ValidateWithDSN checks the base config and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or PROFILE_DB_URL is required")
	}
	return nil
}

// HospitalInfoAliases returns the built-in hospital info aliases with overrides applied.
func (c *Config) HospitalInfoAliases() []normalize.Alias {
	return normalize.MergeAliases(normalize.HospitalInfoAliases, c.Aliases.HospitalInfo)
}

func (c *Config) OutcomeAliases() []normalize.Alias {
	return normalize.MergeAliases(normalize.OutcomeAliases, c.Aliases.HospitalOutcomes)
}

func (c *Config) CountyMortalityAliases() []normalize.Alias {
	return normalize.MergeAliases(normalize.CountyMortalityAliases, c.Aliases.CountyMortality)
}

func (c *Config) UninsuredAliases() []normalize.Alias {
	return normalize.MergeAliases(normalize.UninsuredAliases, c.Aliases.CountyUninsured)
}
