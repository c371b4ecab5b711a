package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// Register is the part of the entity store the autosave worker needs
type Register interface {
	State() usecase.SaveStatus
	Persist(ctx context.Context) error
}

// AutosaveWorker periodically persists unsaved changes
//
// Architecture assumptions:
// - Single server instance owns the collections
// - Failed saves keep the changes unsaved and are retried on the next tick
type AutosaveWorker struct {
	register Register
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAutosaveWorker creates a new worker persisting register every interval
func NewAutosaveWorker(register Register, interval time.Duration) *AutosaveWorker {
	return &AutosaveWorker{
		register: register,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background save loop
func (w *AutosaveWorker) Start(ctx context.Context) error {
	logging.Default().Info("autosave worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for the final save
func (w *AutosaveWorker) Stop() {
	logging.Default().Info("autosave worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("autosave worker stopped")
}

func (w *AutosaveWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.save(ctx); err != nil {
				logging.Default().Error("autosave failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			if err := w.save(context.WithoutCancel(ctx)); err != nil {
				logging.Default().Error("final autosave failed",
					"error", err.Error())
			}
			return

		case <-ctx.Done():
			logging.Default().Info("autosave worker context cancelled")
			return
		}
	}
}

// save persists only when there are unsaved changes
func (w *AutosaveWorker) save(ctx context.Context) error {
	if !w.register.State().Dirty {
		return nil
	}

	startTime := time.Now()
	if err := w.register.Persist(ctx); err != nil {
		return err
	}

	logging.Default().Info("autosave completed",
		"duration", time.Since(startTime).String())
	return nil
}
