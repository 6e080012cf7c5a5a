package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bitfsorg/certledger-go/config"
	"github.com/bitfsorg/certledger-go/identity"
	"github.com/bitfsorg/certledger-go/ledger"
	"github.com/bitfsorg/certledger-go/logging"
)

// envPassword holds the identity key file password.
const envPassword = "CERTLEDGER_PASSWORD"

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *zap.Logger

	closers []func() error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig resolves the effective configuration: file, then
// environment, then flags. A missing default config file is not an error.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		env := config.Environ()
		cfg := config.DefaultConfig()

		dataDir := strings.TrimSpace(c.flags.dataDir)
		if dataDir == "" {
			dataDir = strings.TrimSpace(env[config.EnvDataDir])
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		path := strings.TrimSpace(c.flags.configPath)
		explicit := path != ""
		if !explicit {
			path = config.ConfigPath(cfg.DataDir)
		}
		c.configPath = path

		loaded, err := config.LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
		case errors.Is(err, config.ErrConfigNotFound) && !explicit:
		default:
			c.configErr = err
			return
		}

		cfg = config.ApplyEnv(cfg, env)
		c.applyFlags(&cfg)

		if err := config.ValidateConfig(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlags(cfg *config.Config) {
	if v := strings.TrimSpace(c.flags.backend); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(c.flags.host); v != "" {
		cfg.Host = v
	}
	if v := strings.TrimSpace(c.flags.canisterID); v != "" {
		cfg.CanisterID = v
	}
	if v := strings.TrimSpace(c.flags.logLevel); v != "" {
		cfg.LogLevel = v
	}
}

// loggerFor returns the process logger, building it on first use.
func (c *commandContext) loggerFor(cfg config.Config) *zap.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:       cfg.LogLevel,
			File:        cfg.LogFile,
			Environment: cfg.Environment,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; logging disabled\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// loadIdentity returns the configured identity, or nil when no key file exists.
func (c *commandContext) loadIdentity(cfg config.Config) (*identity.Identity, error) {
	path := cfg.IdentityPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	id, err := identity.LoadKeyFile(path, os.Getenv(envPassword))
	if err != nil {
		return nil, fmt.Errorf("load identity %s (set %s): %w", path, envPassword, err)
	}
	return id, nil
}

// openLedger opens the configured ledger. Callers defer close.
func (c *commandContext) openLedger(ctx context.Context) (ledger.Ledger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	id, err := c.loadIdentity(cfg)
	if err != nil {
		return nil, err
	}
	l, closer, err := openBackend(ctx, cfg, id, c.loggerFor(cfg))
	if err != nil {
		return nil, err
	}
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	return l, nil
}

func (c *commandContext) close() {
	for _, fn := range c.closers {
		_ = fn()
	}
	c.closers = nil
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
