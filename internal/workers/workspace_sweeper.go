package workers

import (
	"context"
	"time"

	"github.com/alimgiray/agrocontrol/pkg/logger"
)

// IdleSweeper is the part of the workspace registry the sweeper needs
type IdleSweeper interface {
	SweepIdle(ttl time.Duration) int
}

// WorkspaceSweeper periodically drops workspaces that have been idle for
// longer than ttl.
type WorkspaceSweeper struct {
	*BaseWorker
	registry IdleSweeper
	interval time.Duration
	ttl      time.Duration
}

func NewWorkspaceSweeper(workerID string, registry IdleSweeper, interval, ttl time.Duration) *WorkspaceSweeper {
	return &WorkspaceSweeper{
		BaseWorker: NewBaseWorker(workerID),
		registry:   registry,
		interval:   interval,
		ttl:        ttl,
	}
}

// Start begins the sweep loop
func (w *WorkspaceSweeper) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	log := logger.Component("workspace_sweeper").WithField("worker_id", w.WorkerID)
	log.Info("Workspace sweeper started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Workspace sweeper stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			log.Info("Workspace sweeper stopping")
			return nil
		case <-ticker.C:
			if n := w.registry.SweepIdle(w.ttl); n > 0 {
				log.WithField("swept", n).Debug("sweep completed")
			}
		}
	}
}
