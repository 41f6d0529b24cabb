package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reprise/internal/history"
	"reprise/internal/library"
	"reprise/internal/logging"
	"reprise/internal/preflight"
	"reprise/internal/refresh"
	"reprise/internal/storage"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the refresh daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), ctx)
		},
	}
}

func runDaemon(cmdCtx context.Context, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var failed []string
	for _, result := range preflight.RunAll(signalCtx, cfg) {
		if !result.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("preflight failed: %s", strings.Join(failed, "; "))
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "reprised.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another reprise daemon instance is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	db, err := storage.Open(cfg)
	if err != nil {
		logger.Error("open database", logging.Error(err))
		return err
	}
	defer db.Close()

	lib := library.NewStore(db)
	hist := history.NewStore(db, lib)
	service, err := buildService(cfg, hist, logger)
	if err != nil {
		return err
	}

	manager, err := refresh.NewManager(cfg, service, hist, logger)
	if err != nil {
		return fmt.Errorf("build refresh manager: %w", err)
	}

	if err := manager.Start(signalCtx); err != nil {
		return fmt.Errorf("start refresh manager: %w", err)
	}
	logger.Info("reprise daemon started",
		logging.String("lock", lockPath),
		logging.String("database", db.Path()))

	<-signalCtx.Done()
	logger.Info("reprise daemon shutting down")
	manager.Stop()
	return nil
}
