package main

import (
	"context"
	"fmt"
	"sync"

	"logsieve/src/internal/config"
	"logsieve/src/internal/service"

	"github.com/lixenwraith/log"
)

// ReloadManager re-reads the chains file and swaps the appender chains
type ReloadManager struct {
	chainsPath string
	service    *service.Service
	logger     *log.Logger

	reloadingMu sync.Mutex
	isReloading bool
}

func NewReloadManager(chainsPath string, svc *service.Service, logger *log.Logger) *ReloadManager {
	return &ReloadManager{
		chainsPath: chainsPath,
		service:    svc,
		logger:     logger,
	}
}

// TriggerReload performs a reload unless one is already running. A failed
// reload keeps every current chain.
func (rm *ReloadManager) TriggerReload(ctx context.Context) error {
	rm.reloadingMu.Lock()
	if rm.isReloading {
		rm.reloadingMu.Unlock()
		rm.logger.Debug("msg", "Reload already in progress, skipping",
			"component", "reload_manager")
		return nil
	}
	rm.isReloading = true
	rm.reloadingMu.Unlock()

	defer func() {
		rm.reloadingMu.Lock()
		rm.isReloading = false
		rm.reloadingMu.Unlock()
	}()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	rm.logger.Info("msg", "Starting chains reload",
		"component", "reload_manager",
		"chains_file", rm.chainsPath)

	if err := rm.performReload(); err != nil {
		rm.logger.Error("msg", "Chains reload failed",
			"component", "reload_manager",
			"error", err,
			"action", "keeping current chains")
		return err
	}

	rm.logger.Info("msg", "Chains reload completed successfully",
		"component", "reload_manager")
	return nil
}

func (rm *ReloadManager) performReload() error {
	chains, err := config.LoadChains(rm.chainsPath)
	if err != nil {
		return fmt.Errorf("failed to load chains: %w", err)
	}
	return rm.service.Reload(chains)
}
