//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"

	"github.com/oshokin/objcryst/internal/checks"
	"github.com/oshokin/objcryst/internal/config"
	"github.com/oshokin/objcryst/internal/logger"
	"github.com/oshokin/objcryst/internal/version"
)

// Bootstrap loads settings, applies the log level and resolves the version once.
// The result is what every case of the self-test suite is built from.
func Bootstrap(ctx context.Context, configPath string) (*checks.Dependencies, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	// Validated by config.Load.
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)

	store := cfg.VersionStore()

	info, err := version.Load(store, cfg.Distribution)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Resolved version", "distribution", info.Distribution, "version", info.Version, "date", info.Date)

	return &checks.Dependencies{
		Config: cfg,
		Store:  store,
		Info:   info,
	}, nil
}
