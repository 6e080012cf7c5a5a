// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Backend", cfg.Backend, "bolt"},
		{"Network", cfg.Network, "local"},
		{"DuplicatePolicy", cfg.DuplicatePolicy, "reject"},
		{"AutoRegister", cfg.AutoRegister, true},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"Environment", cfg.Environment, "development"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

func TestDefaultDataDir_EndsWith_DotCertledger(t *testing.T) {
	dir := DefaultDataDir()
	if !strings.HasSuffix(dir, ".certledger") {
		t.Errorf("DefaultDataDir() = %q, want suffix %q", dir, ".certledger")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Config{DataDir: "/data"}

	if got, want := ConfigPath("/data"), filepath.Join("/data", "config.toml"); got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
	if got, want := cfg.LedgerPath(), filepath.Join("/data", "ledger", "ledger.db"); got != want {
		t.Errorf("LedgerPath = %q, want %q", got, want)
	}
	if got, want := cfg.IdentityPath(), filepath.Join("/data", "identity.key"); got != want {
		t.Errorf("IdentityPath = %q, want %q", got, want)
	}

	cfg.IdentityFile = "/keys/me.key"
	if got := cfg.IdentityPath(); got != "/keys/me.key" {
		t.Errorf("IdentityPath = %q, want explicit identity file", got)
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	original := Config{
		DataDir:         "/tmp/test-certledger",
		Backend:         "rpc",
		Network:         "ic",
		Host:            "https://icp-api.io",
		CanisterID:      "ryjl3-tyaaa-aaaaa-aaaba-cai",
		CanisterDomain:  "certs.example.org",
		DNSUpstream:     "1.1.1.1:53",
		RequireDNSSEC:   true,
		DatabaseURL:     "postgres://localhost/certs",
		DuplicatePolicy: "ignore",
		IdentityFile:    "/tmp/id.key",
		AutoRegister:    false,
		LogLevel:        "debug",
		LogFile:         "/tmp/certledger.log",
		Environment:     "production",
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded != original {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestSaveConfig_OutputContainsHeaderAndKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "# certledger configuration") {
		t.Error("saved config should start with the header comment")
	}
	for _, key := range []string{"data_dir", "backend", "network", "duplicate_policy", "auto_register", "log_level"} {
		if !strings.Contains(content, key+" = ") {
			t.Errorf("saved config should contain key %q", key)
		}
	}
}

// ---------------------------------------------------------------------------
// LoadConfig error tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.toml")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("this-is-not-key-value\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig bad file: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `# comment
network = "ic"

# Another comment
log_level = "debug"
future_key = "ignored"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Network != "ic" {
		t.Errorf("Network = %q, want %q", cfg.Network, "ic")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Backend != "bolt" {
		t.Errorf("Backend = %q, want default %q", cfg.Backend, "bolt")
	}
	if !cfg.AutoRegister {
		t.Error("AutoRegister should keep its default of true")
	}
}

// ---------------------------------------------------------------------------
// ApplyEnv tests
// ---------------------------------------------------------------------------

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackend:      "postgres",
		EnvDatabaseURL:  "postgres://db/certs",
		EnvLogLevel:     "warn",
		EnvAutoRegister: "false",
		EnvHost:         "   ",
	}

	cfg := ApplyEnv(DefaultConfig(), env)

	if cfg.Backend != "postgres" {
		t.Errorf("Backend = %q, want postgres", cfg.Backend)
	}
	if cfg.DatabaseURL != "postgres://db/certs" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.AutoRegister {
		t.Error("AutoRegister should be false")
	}
	if cfg.Host != "" {
		t.Errorf("blank env value should not override Host, got %q", cfg.Host)
	}
}

func TestApplyEnv_MalformedBoolIgnored(t *testing.T) {
	cfg := ApplyEnv(DefaultConfig(), map[string]string{EnvAutoRegister: "maybe"})
	if !cfg.AutoRegister {
		t.Error("malformed CERTLEDGER_AUTO_REGISTER should leave the default")
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"empty_datadir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"bad_backend", func(c *Config) { c.Backend = "sqlite" }, ErrInvalidBackend},
		{"bad_network", func(c *Config) { c.Network = "mainnet" }, ErrInvalidNetwork},
		{"bad_policy", func(c *Config) { c.DuplicatePolicy = "overwrite" }, ErrInvalidPolicy},
		{"bad_loglevel", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"bad_environment", func(c *Config) { c.Environment = "staging" }, ErrInvalidEnvironment},
		{"postgres_without_url", func(c *Config) { c.Backend = BackendPostgres }, ErrMissingDatabaseURL},
		{"rpc_without_canister", func(c *Config) { c.Backend = BackendRPC }, ErrMissingCanister},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfigValidBackends(t *testing.T) {
	tests := []struct {
		backend string
		modify  func(*Config)
	}{
		{BackendMemory, nil},
		{BackendBolt, nil},
		{BackendPostgres, func(c *Config) { c.DatabaseURL = "postgres://localhost/certs" }},
		{BackendRPC, func(c *Config) { c.CanisterID = "ryjl3-tyaaa-aaaaa-aaaba-cai" }},
		{BackendRPC, func(c *Config) { c.CanisterDomain = "certs.example.org" }},
	}
	for _, tc := range tests {
		cfg := DefaultConfig()
		cfg.Backend = tc.backend
		if tc.modify != nil {
			tc.modify(&cfg)
		}
		if err := ValidateConfig(cfg); err != nil {
			t.Errorf("ValidateConfig with backend %q: %v", tc.backend, err)
		}
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	for _, level := range []string{"INFO", "Debug", "WARN", "Error"} {
		t.Run(level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			if err := ValidateConfig(cfg); err != nil {
				t.Errorf("ValidateConfig with loglevel %q: %v", level, err)
			}
		})
	}
}

func TestEnviron(t *testing.T) {
	t.Setenv("CERTLEDGER_TEST_ENVIRON", "a=b")
	env := Environ()
	if got := env["CERTLEDGER_TEST_ENVIRON"]; got != "a=b" {
		t.Errorf("Environ()[CERTLEDGER_TEST_ENVIRON] = %q, want %q", got, "a=b")
	}
}
