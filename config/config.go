// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and validates the certledger configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
	BackendRPC      = "rpc"
)

// Config is the on-disk certledger configuration.
type Config struct {
	DataDir string `toml:"data_dir" json:"data_dir"`

	// Backend selects the ledger implementation.
	Backend string `toml:"backend" json:"backend"`

	// Remote canister settings, used by the rpc backend.
	Network        string `toml:"network" json:"network"`
	Host           string `toml:"host" json:"host"`
	CanisterID     string `toml:"canister_id" json:"canister_id"`
	CanisterDomain string `toml:"canister_domain" json:"canister_domain"`
	DNSUpstream    string `toml:"dns_upstream" json:"dns_upstream"`
	RequireDNSSEC  bool   `toml:"require_dnssec" json:"require_dnssec"`

	DatabaseURL string `toml:"database_url" json:"database_url"`

	DuplicatePolicy string `toml:"duplicate_policy" json:"duplicate_policy"`
	IdentityFile    string `toml:"identity_file" json:"identity_file"`
	AutoRegister    bool   `toml:"auto_register" json:"auto_register"`

	LogLevel    string `toml:"log_level" json:"log_level"`
	LogFile     string `toml:"log_file" json:"log_file"`
	Environment string `toml:"environment" json:"environment"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:         DefaultDataDir(),
		Backend:         BackendBolt,
		Network:         "local",
		DuplicatePolicy: "reject",
		AutoRegister:    true,
		LogLevel:        "info",
		Environment:     "development",
	}
}

// DefaultDataDir returns ~/.certledger, or .certledger in the working
// directory when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".certledger"
	}
	return filepath.Join(home, ".certledger")
}

// ConfigPath returns the configuration file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// LedgerPath returns the bolt database location.
func (c Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "ledger", "ledger.db")
}

// IdentityPath returns the encrypted identity key file location.
func (c Config) IdentityPath() string {
	if c.IdentityFile != "" {
		return c.IdentityFile
	}
	return filepath.Join(c.DataDir, "identity.key")
}

// LoadConfig reads the TOML file at path on top of DefaultConfig.
// Keys absent from the file keep their defaults; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

const fileHeader = "# certledger configuration\n\n"

// SaveConfig writes cfg to path as TOML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	data = append([]byte(fileHeader), data...)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDataDir         = "CERTLEDGER_DATA_DIR"
	EnvBackend         = "CERTLEDGER_BACKEND"
	EnvNetwork         = "CERTLEDGER_NETWORK"
	EnvHost            = "CERTLEDGER_HOST"
	EnvCanisterID      = "CERTLEDGER_CANISTER_ID"
	EnvCanisterDomain  = "CERTLEDGER_CANISTER_DOMAIN"
	EnvDatabaseURL     = "CERTLEDGER_DATABASE_URL"
	EnvDuplicatePolicy = "CERTLEDGER_DUPLICATE_POLICY"
	EnvAutoRegister    = "CERTLEDGER_AUTO_REGISTER"
	EnvLogLevel        = "CERTLEDGER_LOG_LEVEL"
	EnvLogFile         = "CERTLEDGER_LOG_FILE"
)

// ApplyEnv overrides cfg with the CERTLEDGER_* variables present in env.
// A malformed CERTLEDGER_AUTO_REGISTER value is ignored.
func ApplyEnv(cfg Config, env map[string]string) Config {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(env[key]); v != "" {
			*dst = v
		}
	}
	set(&cfg.DataDir, EnvDataDir)
	set(&cfg.Backend, EnvBackend)
	set(&cfg.Network, EnvNetwork)
	set(&cfg.Host, EnvHost)
	set(&cfg.CanisterID, EnvCanisterID)
	set(&cfg.CanisterDomain, EnvCanisterDomain)
	set(&cfg.DatabaseURL, EnvDatabaseURL)
	set(&cfg.DuplicatePolicy, EnvDuplicatePolicy)
	set(&cfg.LogLevel, EnvLogLevel)
	set(&cfg.LogFile, EnvLogFile)

	if v := strings.TrimSpace(env[EnvAutoRegister]); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoRegister = b
		}
	}
	return cfg
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
