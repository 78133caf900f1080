package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/sevigo/warden-judge/internal/core"
)

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if out, rerr := r.Render(md); rerr == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(md)
}

func printSection(title, body string) {
	separator := strings.Repeat("═", 60)
	fmt.Println()
	titleColor.Println(separator)
	titleColor.Println(title)
	titleColor.Println(separator)
	printMarkdown(body)
}

func printErrors(state *core.ReviewState) {
	if len(state.Errors) == 0 {
		return
	}
	fmt.Println()
	warnColor.Printf("Stage errors (%d)\n", len(state.Errors))
	for _, e := range state.Errors {
		errorColor.Printf("  %s", e.Stage)
		dimColor.Printf(": %s\n", e.Message)
	}
}

// printingConnector wraps a connector so that comments are printed instead of posted.
type printingConnector struct {
	core.Connector
	out io.Writer
}

func (p printingConnector) PostComment(_ context.Context, ref core.ChangeRef, body string) (int64, error) {
	fmt.Fprintf(p.out, "\n[dry-run] comment for %s not posted (%d chars)\n", ref, len(body))
	return 0, nil
}
