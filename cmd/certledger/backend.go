package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/certledger-go/config"
	"github.com/bitfsorg/certledger-go/identity"
	"github.com/bitfsorg/certledger-go/ledger"
)

// openBackend builds the ledger selected by cfg.Backend. The returned
// closer may be nil.
func openBackend(ctx context.Context, cfg config.Config, id *identity.Identity, logger *zap.Logger) (ledger.Ledger, func() error, error) {
	policy, err := ledger.ParseDuplicatePolicy(cfg.DuplicatePolicy)
	if err != nil {
		return nil, nil, err
	}
	opts := []ledger.Option{ledger.WithPolicy(policy)}
	if id != nil {
		opts = append(opts, ledger.WithOwner(id.Principal()))
	}

	switch cfg.Backend {
	case config.BackendMemory:
		return ledger.NewMemLedger(opts...), nil, nil

	case config.BackendBolt:
		l, err := ledger.OpenBoltLedger(cfg.LedgerPath(), opts...)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("opened bolt ledger", zap.String("path", cfg.LedgerPath()))
		return l, l.Close, nil

	case config.BackendPostgres:
		l, err := ledger.OpenPGLedger(ctx, cfg.DatabaseURL, opts...)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("opened postgres ledger")
		return l, l.Close, nil

	case config.BackendRPC:
		rpcCfg, err := resolveRPCConfig(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		var signer ledger.Signer
		if id != nil {
			signer = id
		}
		client := ledger.NewRPCClient(*rpcCfg, signer)
		logger.Debug("using remote ledger",
			zap.String("endpoint", rpcCfg.Endpoint()),
			zap.Stringer("sender", client.Sender()))
		return ledger.NewRPCLedger(client, policy), nil, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
}

// resolveRPCConfig applies presets and, when only a domain is configured,
// discovers the canister ID over DNS.
func resolveRPCConfig(cfg config.Config, logger *zap.Logger) (*ledger.RPCConfig, error) {
	flags := &ledger.RPCConfig{Host: cfg.Host, CanisterID: cfg.CanisterID}
	if flags.CanisterID == "" && cfg.CanisterDomain != "" {
		resolver := ledger.NewDNSResolver(cfg.DNSUpstream, cfg.RequireDNSSEC)
		id, err := ledger.ResolveCanisterID(cfg.CanisterDomain, resolver)
		if err != nil {
			return nil, fmt.Errorf("discover canister for %s: %w", cfg.CanisterDomain, err)
		}
		logger.Info("discovered canister", zap.String("domain", cfg.CanisterDomain), zap.String("canister_id", id))
		flags.CanisterID = id
	}
	return ledger.ResolveConfig(flags, nil, cfg.Network)
}
