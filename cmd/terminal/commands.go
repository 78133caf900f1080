package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/core"
	"github.com/sevigo/warden-judge/internal/wire"
)

var errNoStore = errors.New("database is not configured, no review contexts available")

func initializeRuntimeCmd() tea.Cmd {
	return func() tea.Msg {
		rt, cleanup, err := wire.InitializeRuntime(context.Background())
		if err != nil {
			return runtimeInitializedMsg{err: err}
		}
		return runtimeInitializedMsg{rt: rt, cleanup: cleanup}
	}
}

func loadContextsCmd(rt *app.Runtime, limit int) tea.Cmd {
	return func() tea.Msg {
		if rt.Services.Store == nil {
			return contextsLoadedMsg{err: errNoStore}
		}
		contexts, err := rt.Services.Store.List(context.Background(), limit)
		return contextsLoadedMsg{contexts: contexts, err: err}
	}
}

func loadContextCmd(rt *app.Runtime, projectID int64, changeID int, showDiff bool) tea.Cmd {
	return func() tea.Msg {
		if rt.Services.Store == nil {
			return contextLoadedMsg{err: errNoStore}
		}
		rc, err := rt.Services.Store.Load(context.Background(), projectID, changeID)
		if errors.Is(err, core.ErrContextNotFound) {
			err = fmt.Errorf("no stored review for project %d, change %d", projectID, changeID)
		}
		return contextLoadedMsg{context: rc, showDiff: showDiff, err: err}
	}
}

func checkHealthCmd(rt *app.Runtime) tea.Cmd {
	return func() tea.Msg {
		return healthMsg{readiness: rt.Services.Readiness(context.Background())}
	}
}

// parseKey accepts either "<project> <change>" or a single list index.
func parseKey(args []string, contexts []*core.PersistedContext) (int64, int, error) {
	switch len(args) {
	case 1:
		idx, err := strconv.Atoi(args[0])
		if err != nil || idx < 1 || idx > len(contexts) {
			return 0, 0, fmt.Errorf("no listed context #%s, use /list first", args[0])
		}
		rc := contexts[idx-1]
		return rc.ProjectID, rc.ChangeID, nil
	case 2:
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid project ID %q", args[0])
		}
		changeID, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid change ID %q", args[1])
		}
		return projectID, changeID, nil
	default:
		return 0, 0, fmt.Errorf("expected [index] or [project] [change]")
	}
}
