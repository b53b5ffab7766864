package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultVacuumInterval is the default interval between vacuum runs.
	DefaultVacuumInterval = 24 * time.Hour
)

// VacuumJob periodically hard-deletes conversations that have not been
// touched within the retention period. A zero retention disables the job.
type VacuumJob struct {
	store     *Store
	retention time.Duration
	interval  time.Duration

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewVacuumJob creates a new vacuum job.
func NewVacuumJob(store *Store, retention, interval time.Duration) *VacuumJob {
	if interval <= 0 {
		interval = DefaultVacuumInterval
	}
	return &VacuumJob{
		store:     store,
		retention: retention,
		interval:  interval,
	}
}

// Start begins the periodic vacuum job. Non-blocking.
func (j *VacuumJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running || j.retention <= 0 {
		return
	}
	j.running = true
	j.stopChan = make(chan struct{})

	go j.run(ctx)

	slog.Info("conversation vacuum job started",
		"retention", j.retention,
		"interval", j.interval)
}

// Stop stops the vacuum job.
func (j *VacuumJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}
	close(j.stopChan)
	j.running = false
}

// RunOnce performs a single vacuum pass.
func (j *VacuumJob) RunOnce(ctx context.Context) (int64, error) {
	return j.store.VacuumConversations(ctx, j.retention)
}

func (j *VacuumJob) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := j.RunOnce(ctx)
			if err != nil {
				slog.Error("conversation vacuum failed", "error", err)
				continue
			}
			if deleted > 0 {
				slog.Info("conversation vacuum completed", "deleted", deleted)
			}
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}
