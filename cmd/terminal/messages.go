package main

import (
	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/core"
)

// Indicates that the collaborators have been initialized.
type runtimeInitializedMsg struct {
	rt      *app.Runtime
	cleanup func()
	err     error
}

type contextsLoadedMsg struct {
	contexts []*core.PersistedContext
	err      error
}

type contextLoadedMsg struct {
	context  *core.PersistedContext
	showDiff bool
	err      error
}

type healthMsg struct{ readiness core.Readiness }

// A generic error message for reporting failures from commands.
type errorMsg struct{ err error }

func (e errorMsg) Error() string {
	return e.err.Error()
}
