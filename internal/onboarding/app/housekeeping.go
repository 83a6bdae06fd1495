package app

import (
	"context"
	"log/slog"
	"time"
)

// Task is one housekeeping job. It returns how many records it removed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Housekeeping periodically expires carry slots, email challenges and idle
// wizard sessions so nothing grows without bound.
type Housekeeping struct {
	Tasks    []Task
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeeping creates a housekeeping worker. A non-positive interval
// defaults to five minutes.
func NewHousekeeping(logger *slog.Logger, interval time.Duration, tasks ...Task) *Housekeeping {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Housekeeping{
		Tasks:    tasks,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop.
func (h *Housekeeping) Start() {
	go h.run()
	h.Logger.Info("housekeeping started", "interval", h.Interval, "tasks", len(h.Tasks))
}

// Stop blocks until an in-progress cleanup has finished.
func (h *Housekeeping) Stop() {
	close(h.stopCh)
	<-h.doneCh
	h.Logger.Info("housekeeping stopped")
}

func (h *Housekeeping) run() {
	defer close(h.doneCh)

	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	// Slots left by a previous process expire on startup.
	h.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			h.Cleanup(context.Background())
		case <-h.stopCh:
			return
		}
	}
}

// Cleanup runs every task once. A failing task does not stop the others.
func (h *Housekeeping) Cleanup(ctx context.Context) {
	var ok int
	for _, t := range h.Tasks {
		n, err := t.Run(ctx)
		if err != nil {
			h.Logger.Error("housekeeping task failed", "task", t.Name, "error", err)
			continue
		}
		ok++
		if n > 0 {
			h.Logger.Debug("housekeeping task removed records", "task", t.Name, "count", n)
		}
	}
	h.Logger.Info("housekeeping cleanup completed", "successful_cleanups", ok)
}
