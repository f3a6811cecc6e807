package workers

import (
	"context"
	"sync"

	"github.com/alimgiray/agrocontrol/pkg/logger"
)

// WorkerManager runs background workers and stops them together
type WorkerManager struct {
	workers []Worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerManager creates a manager for the given workers
func NewWorkerManager(workers ...Worker) *WorkerManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// StartAll starts every registered worker in its own goroutine
func (wm *WorkerManager) StartAll() error {
	for _, worker := range wm.workers {
		wm.startWorker(worker)
	}
	logger.Component("workers").Infof("Started %d workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	log := logger.Component("workers")
	log.Info("Stopping all workers...")

	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			log.WithError(err).WithField("worker_id", worker.GetWorkerID()).Warn("error stopping worker")
		}
	}

	wm.wg.Wait()

	log.Info("All workers stopped")
	return nil
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && err != context.Canceled {
			logger.Component("workers").WithError(err).
				WithField("worker_id", worker.GetWorkerID()).Warn("worker stopped with error")
		}
	}()
}

// GetWorkerStatus returns the running flag of every worker
func (wm *WorkerManager) GetWorkerStatus() map[string]bool {
	status := make(map[string]bool)
	for _, worker := range wm.workers {
		if r, ok := worker.(interface{ IsRunning() bool }); ok {
			status[worker.GetWorkerID()] = r.IsRunning()
		} else {
			status[worker.GetWorkerID()] = false
		}
	}
	return status
}
