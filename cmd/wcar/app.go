package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/wcar/internal/capture"
	"github.com/GriffinCanCode/wcar/internal/domain/session"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/config"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/logging"
	"github.com/GriffinCanCode/wcar/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wcar/internal/platform"
	"github.com/GriffinCanCode/wcar/internal/restore"
)

// newDesktop is swapped out in tests.
var newDesktop = platform.Native

// app is everything a command needs, built from configuration and flags.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	desktop platform.Desktop
	apps    *config.Apps
	manager *session.Manager
}

type setupOptions struct {
	noRemap bool
}

func setup(cmd *cobra.Command, opts setupOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rootFlags.dataDir != "" {
		cfg.Data.Dir = rootFlags.dataDir
	}
	if rootFlags.appsFile != "" {
		cfg.Data.AppsFile = rootFlags.appsFile
	}
	if rootFlags.logLevel != "" {
		cfg.Log.Level = rootFlags.logLevel
	}

	logCfg := cfg.Logging()
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	apps := config.NewApps(cfg.AppsPath())
	if err := apps.Reload(); err != nil {
		if !errors.Is(err, config.ErrCorruptApps) {
			return nil, err
		}
		logger.Warn("Tracked-app file was corrupt; using defaults", zap.Error(err))
	}

	restoreOpts := restore.DefaultOptions()
	restoreOpts.MainWindowTimeout = cfg.Restore.MainWindowTimeout
	restoreOpts.Stabilize.Timeout = cfg.Restore.StabilizeTimeout
	restoreOpts.Remap = cfg.Restore.Remap && !opts.noRemap

	metrics := monitoring.NewMetrics()
	desktop := newDesktop()
	manager, err := session.NewManager(
		cfg.Layout(),
		capture.New(desktop, logger),
		restore.New(desktop, restoreOpts, logger),
		apps,
		session.Options{
			HistoryKeep: cfg.Data.HistoryKeep,
			Metrics:     metrics,
			Logger:      logger,
		},
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		desktop: desktop,
		apps:    apps,
		manager: manager,
	}, nil
}

func (a *app) Close() {
	a.manager.Close()
	_ = a.logger.Sync()
}
