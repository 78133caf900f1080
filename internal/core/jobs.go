package core

import (
	"context"
	"errors"
)

// ErrDispatcherStopped is returned by Dispatch after Stop has been called.
var ErrDispatcherStopped = errors.New("dispatcher is stopped")

// JobDispatcher accepts change events and runs them in the background. Dispatch
// returns as soon as the run is scheduled; it never waits for the run itself.
type JobDispatcher interface {
	Dispatch(ctx context.Context, event *ChangeEvent) error
	// Stop rejects new events and waits for in-flight runs to finish.
	Stop()
}

// Job is one executable unit of work triggered by a ChangeEvent.
type Job interface {
	Run(ctx context.Context, event *ChangeEvent) error
}
