// Package jobs defines the background runs triggered by change events.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/warden-judge/internal/core"
)

// dispatcher implements core.JobDispatcher. Every accepted event gets its own
// goroutine; an optional semaphore bounds how many runs execute at once.
type dispatcher struct {
	jobs    map[core.EventKind]core.Job
	sem     chan struct{} // nil when runs are unbounded
	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher routing review events to reviewJob and
// feedback events to justifyJob. maxConcurrent <= 0 means unbounded.
func NewDispatcher(reviewJob, justifyJob core.Job, maxConcurrent int, logger *slog.Logger) core.JobDispatcher {
	d := &dispatcher{
		jobs: map[core.EventKind]core.Job{
			core.EventReview:   reviewJob,
			core.EventFeedback: justifyJob,
		},
		logger: logger.With("component", "dispatcher"),
	}
	if maxConcurrent > 0 {
		d.sem = make(chan struct{}, maxConcurrent)
	}
	return d
}

// Dispatch schedules a run for event and returns immediately. The run is detached
// from ctx's cancellation so that it outlives the webhook request.
func (d *dispatcher) Dispatch(ctx context.Context, event *core.ChangeEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	job, ok := d.jobs[event.Kind]
	if !ok || job == nil {
		return fmt.Errorf("no job registered for event kind %q", event.Kind)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return core.ErrDispatcherStopped
	}

	d.logger.Info("queuing job", "kind", event.Kind, "change", event.Change.String(), "action", event.Action)
	d.wg.Add(1)
	go d.run(context.WithoutCancel(ctx), job, event)
	return nil
}

func (d *dispatcher) run(ctx context.Context, job core.Job, event *core.ChangeEvent) {
	defer d.wg.Done()

	if d.sem != nil {
		d.sem <- struct{}{}
		defer func() { <-d.sem }()
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("job panicked", "kind", event.Kind, "change", event.Change.String(), "panic", r)
		}
	}()

	if err := job.Run(ctx, event); err != nil {
		d.logger.Error("job failed", "kind", event.Kind, "change", event.Change.String(), "error", err)
		return
	}
	d.logger.Info("job finished", "kind", event.Kind, "change", event.Change.String())
}

// Stop rejects new events and waits for in-flight runs to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.wg.Wait()
	d.logger.Info("all jobs have finished")
}
