package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/gyeh/strokeprofile/internal/config"
)

// newTestCmd returns a command carrying the root's input/output flags bound
// to c, with args parsed.
func newTestCmd(t *testing.T, c *config.Config, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&c.InputURI, "input", c.InputURI, "")
	cmd.Flags().StringVar(&c.OutputURI, "output", "", "")
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_FlagsWinOverFile(t *testing.T) {
	c := config.Default()
	c.ConfigFile = writeConfig(t, "input: s3://bucket/raw\noutput: s3://bucket/clean\n")
	cmd := newTestCmd(t, &c, "--input", "local_in")

	if err := loadConfig(cmd, &c, false); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if c.InputURI != "local_in" {
		t.Errorf("InputURI: got %q, want the flag value", c.InputURI)
	}
	if c.OutputURI != "s3://bucket/clean" {
		t.Errorf("OutputURI: got %q, want the file value", c.OutputURI)
	}
}

func TestLoadConfig_NeedsDSNForDatabaseCommands(t *testing.T) {
	c := config.Default()
	cmd := newTestCmd(t, &c)
	if err := loadConfig(cmd, &c, true); err == nil {
		t.Fatal("expected error without DSN")
	}
	c.DSN = "postgres://localhost/profiles"
	if err := loadConfig(cmd, &c, true); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
}

func TestLoadConfig_BadFile(t *testing.T) {
	c := config.Default()
	c.ConfigFile = writeConfig(t, "inputs: [not, a, map]\n")
	cmd := newTestCmd(t, &c)

	err := loadConfig(cmd, &c, false)
	var fe *fileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected fileError, got %v", err)
	}
}
