// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/certledger-go/ledger"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validBackends = map[string]bool{
	BackendMemory:   true,
	BackendBolt:     true,
	BackendPostgres: true,
	BackendRPC:      true,
}

var validEnvironments = map[string]bool{
	"development": true,
	"production":  true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validBackends[cfg.Backend] {
		return fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.Backend)
	}

	if _, ok := ledger.NetworkPresets[cfg.Network]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, cfg.Network)
	}

	if _, err := ledger.ParseDuplicatePolicy(cfg.DuplicatePolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if !validEnvironments[cfg.Environment] {
		return ErrInvalidEnvironment
	}

	switch cfg.Backend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case BackendRPC:
		if cfg.CanisterID == "" && cfg.CanisterDomain == "" {
			return ErrMissingCanister
		}
	}

	return nil
}
