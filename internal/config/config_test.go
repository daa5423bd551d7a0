package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", `
[client]
environment = "uat"
timeout_seconds = 5
`)
	writeFile(t, dir, "credentials.toml", `
[neo]
consumer_key = "ck-123"
mobile_number = "+911234567890"
ucc = "ABCDE"
mpin = "111111"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Client.Environment != "uat" {
		t.Errorf("environment = %q", cfg.Client.Environment)
	}
	if cfg.Client.TimeoutSeconds != 5 {
		t.Errorf("timeout = %d", cfg.Client.TimeoutSeconds)
	}
	// Unset fields keep defaults
	if cfg.Client.RetryAttempts != 3 {
		t.Errorf("retry_attempts = %d, want default 3", cfg.Client.RetryAttempts)
	}
	if cfg.Credentials.Neo.ConsumerKey != "ck-123" || cfg.Credentials.Neo.UCC != "ABCDE" {
		t.Errorf("credentials = %+v", cfg.Credentials.Neo)
	}
}

func TestLoadCreatesTemplates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Client.Environment != "prod" {
		t.Errorf("default environment = %q", cfg.Client.Environment)
	}

	for _, name := range []string{"config.toml", "credentials.toml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("template %s not created: %v", name, err)
		}
	}

	info, err := os.Stat(filepath.Join(dir, "credentials.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credentials template mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "credentials.toml", `
[neo]
consumer_key = "from-file"
`)
	t.Setenv("NEO_CONSUMER_KEY", "from-env")
	t.Setenv("NEO_ENVIRONMENT", "uat")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Credentials.Neo.ConsumerKey != "from-env" {
		t.Errorf("consumer key = %q, want env override", cfg.Credentials.Neo.ConsumerKey)
	}
	if cfg.Client.Environment != "uat" {
		t.Errorf("environment = %q, want env override", cfg.Client.Environment)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Client: ClientConfig{Environment: "prod", TimeoutSeconds: 10, RetryAttempts: 3}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := []*Config{
		{Client: ClientConfig{Environment: "staging", TimeoutSeconds: 10, RetryAttempts: 3}},
		{Client: ClientConfig{Environment: "prod", TimeoutSeconds: 0, RetryAttempts: 3}},
		{Client: ClientConfig{Environment: "prod", TimeoutSeconds: 10, RetryAttempts: 0}},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("bad config %d accepted", i)
		}
	}
}
