// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func testDefaults() map[string]any {
	return map[string]any{
		"database.type":     "sqlite",
		"database.dsn":      "./gadget.db",
		"language":          "en",
		"rpc.url":           "http://127.0.0.1:9944",
		"chain.ss58_prefix": 42,
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cmd := &cobra.Command{Use: "test"}
	cfg, err := LoadConfig[Config](cmd, testDefaults(), nil)
	// With no config file anywhere the not-found condition is surfaced
	// alongside the merged defaults.
	if err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.Dsn != "./gadget.db" {
		t.Errorf("database config = %+v", cfg.Database)
	}
	if cfg.Language != "en" {
		t.Errorf("language = %q", cfg.Language)
	}
	if cfg.RPC.URL != "http://127.0.0.1:9944" {
		t.Errorf("rpc url = %q", cfg.RPC.URL)
	}
	if cfg.Chain.SS58Prefix != 42 {
		t.Errorf("ss58 prefix = %d", cfg.Chain.SS58Prefix)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "database:\n  type: postgres\n  dsn: postgres://localhost/gadget\nlanguage: de\nchain:\n  ss58_prefix: 5845\n"
	if err := os.WriteFile(filepath.Join(dir, "gadget.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "test"}
	cfg, err := LoadConfig[Config](cmd, testDefaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Type != "postgres" {
		t.Errorf("database type = %q, want postgres", cfg.Database.Type)
	}
	if cfg.Language != "de" {
		t.Errorf("language = %q, want de", cfg.Language)
	}
	if cfg.Chain.SS58Prefix != 5845 {
		t.Errorf("ss58 prefix = %d, want 5845", cfg.Chain.SS58Prefix)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "gadget.yaml"), []byte("language: de\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GADGET_LANGUAGE", "en")

	cmd := &cobra.Command{Use: "test"}
	cfg, err := LoadConfig[Config](cmd, testDefaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("language = %q, want en from environment", cfg.Language)
	}
}

func TestLoadConfig_FlagsOverrideAll(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("GADGET_DATABASE_TYPE", "postgres")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("database.type", "sqlite", "")
	if err := cmd.Flags().Set("database.type", "mysql"); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig[Config](cmd, testDefaults(), nil)
	if err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Type != "mysql" {
		t.Errorf("database type = %q, want mysql from flag", cfg.Database.Type)
	}
}

func TestLoadConfig_ExplicitConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	other := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(other, []byte("rpc:\n  url: https://rpc.tangle.example\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "test"}
	cfg, err := LoadConfig[Config](cmd, testDefaults(), &other)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.RPC.URL != "https://rpc.tangle.example" {
		t.Errorf("rpc url = %q", cfg.RPC.URL)
	}
}

func TestLoadConfig_SurfacesMissingConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	cmd := &cobra.Command{Use: "test"}
	_, err := LoadConfig[Config](cmd, testDefaults(), nil)
	if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		t.Fatalf("err = %v, want viper.ConfigFileNotFoundError for a first run", err)
	}

	// Once a config file exists the condition must clear.
	if err := os.WriteFile(filepath.Join(dir, "gadget.yaml"), []byte("language: en\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig[Config](cmd, testDefaults(), nil); err != nil {
		t.Fatalf("LoadConfig with config file present failed: %v", err)
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "gadget.yaml"), []byte("language: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "test"}
	if _, err := LoadConfig[Config](cmd, testDefaults(), nil); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
