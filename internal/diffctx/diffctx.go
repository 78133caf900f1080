// Package diffctx renders the diff text handed to the review pipeline: one
// fragment per changed file, optionally preceded by the issues the change links to.
package diffctx

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const (
	LinkedIssuesHeader = "=== LINKED ISSUES ==="
	CodeChangesHeader  = "=== CODE CHANGES ==="
)

var issueRefRegex = regexp.MustCompile(`#(\d+)`)

// FileDiff is the unified-diff fragment of one changed file.
type FileDiff struct {
	// Path is rendered as-is in the file header. For renames use "<old> -> <new>".
	Path  string
	Patch string
}

// Issue is the context of one linked issue.
type Issue struct {
	Number      int
	Title       string
	Description string
	Labels      []string
	State       string
}

// IssueFetcher loads one issue by number.
type IssueFetcher func(ctx context.Context, number int) (*Issue, error)

// IssueRefs returns the distinct issue numbers referenced as #<digits> in text,
// in order of first appearance.
func IssueRefs(text string) []int {
	var refs []int
	seen := make(map[int]struct{})
	for _, m := range issueRefRegex.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		refs = append(refs, n)
	}
	return refs
}

// CollectIssues fetches every referenced issue. Issues that cannot be fetched
// are logged and skipped; they never fail the collection.
func CollectIssues(ctx context.Context, refs []int, fetch IssueFetcher, logger *slog.Logger) []Issue {
	issues := make([]Issue, 0, len(refs))
	for _, n := range refs {
		issue, err := fetch(ctx, n)
		if err != nil || issue == nil {
			logger.Warn("could not fetch linked issue", "issue", n, "error", err)
			continue
		}
		issues = append(issues, *issue)
	}
	return issues
}

// FormatIssue renders a single issue block.
func FormatIssue(issue Issue) string {
	description := issue.Description
	if description == "" {
		description = "No description"
	}
	labels := "None"
	if len(issue.Labels) > 0 {
		labels = strings.Join(issue.Labels, ", ")
	}
	return fmt.Sprintf("Issue #%d: %s\nDescription: %s\nLabels: %s\nState: %s",
		issue.Number, issue.Title, description, labels, issue.State)
}

// FormatFiles renders each file with a patch as "--- File: <path> ---" followed by
// its patch. Files without a patch, such as binaries, are left out.
func FormatFiles(files []FileDiff) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		if f.Patch == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- File: %s ---\n%s\n", f.Path, f.Patch))
	}
	return strings.Join(parts, "\n")
}

// Compose builds the final diff text. It returns "" when no file carries a patch.
// The linked-issues section is emitted only when at least one issue was found.
// Patches and issue bodies are copied verbatim, so a patch that itself contains
// a section header line adds another occurrence of it. Only the leading headers
// delimit the sections.
func Compose(files []FileDiff, issues []Issue) string {
	code := FormatFiles(files)
	if code == "" {
		return ""
	}
	if len(issues) == 0 {
		return code
	}

	blocks := make([]string, 0, len(issues))
	for _, issue := range issues {
		blocks = append(blocks, FormatIssue(issue))
	}
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", LinkedIssuesHeader, strings.Join(blocks, "\n\n"), CodeChangesHeader, code)
}
