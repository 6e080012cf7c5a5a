// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidBackend indicates the ledger backend name is not recognized.
	ErrInvalidBackend = errors.New("config: invalid backend (must be \"memory\", \"bolt\", \"postgres\", or \"rpc\")")

	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"local\" or \"ic\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidEnvironment indicates the logging environment is not recognized.
	ErrInvalidEnvironment = errors.New("config: invalid environment (must be \"development\" or \"production\")")

	// ErrInvalidPolicy indicates the duplicate policy is not recognized.
	ErrInvalidPolicy = errors.New("config: invalid duplicate policy")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrMissingDatabaseURL indicates the postgres backend has no database URL.
	ErrMissingDatabaseURL = errors.New("config: postgres backend requires database_url")

	// ErrMissingCanister indicates the rpc backend has neither a canister ID nor a discovery domain.
	ErrMissingCanister = errors.New("config: rpc backend requires canister_id or canister_domain")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = errors.New("config: invalid configuration file")
)
