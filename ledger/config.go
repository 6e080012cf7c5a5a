package ledger

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/certledger-go/identity"
)

// RPCConfig holds the connection parameters for the remote certificate canister.
type RPCConfig struct {
	Host       string `json:"host" toml:"host"`
	CanisterID string `json:"canister_id" toml:"canister_id"`
	Network    string `json:"network" toml:"network"`
}

// NetworkPresets contains default hosts for known networks.
var NetworkPresets = map[string]RPCConfig{
	"local": {Host: "http://localhost:4943"},
	"ic":    {Host: "https://icp-api.io"},
}

// Environment variables read by ResolveConfig.
const (
	EnvHost       = "CERTLEDGER_HOST"
	EnvCanisterID = "CERTLEDGER_CANISTER_ID"
)

// ResolveConfig merges RPC configuration from three sources with decreasing priority:
//  1. CLI flags (highest priority)
//  2. Environment variables (CERTLEDGER_HOST, CERTLEDGER_CANISTER_ID)
//  3. Network presets (lowest priority)
//
// The canister ID is required and must be a valid textual principal.
func ResolveConfig(flags *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	if network == "" {
		network = "local"
	}
	result := RPCConfig{Network: network}

	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	if env != nil {
		if v := env[EnvHost]; v != "" {
			result.Host = v
		}
		if v := env[EnvCanisterID]; v != "" {
			result.CanisterID = v
		}
	}

	if flags != nil {
		if flags.Host != "" {
			result.Host = flags.Host
		}
		if flags.CanisterID != "" {
			result.CanisterID = flags.CanisterID
		}
	}

	if result.Host == "" {
		return nil, fmt.Errorf("ledger: network %q requires an explicit host (set --host or %s)", network, EnvHost)
	}
	result.Host = strings.TrimRight(result.Host, "/")

	if result.CanisterID == "" {
		return nil, ErrMissingCanisterID
	}
	if _, err := identity.ParsePrincipal(result.CanisterID); err != nil {
		return nil, fmt.Errorf("ledger: canister ID: %w", err)
	}

	return &result, nil
}

// Endpoint returns the JSON-RPC URL of the canister.
func (c RPCConfig) Endpoint() string {
	return fmt.Sprintf("%s/api/v2/canister/%s/rpc", strings.TrimRight(c.Host, "/"), c.CanisterID)
}
