package llm

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptKey names a pipeline stage's system prompt.
type PromptKey string

const (
	ReviewerAPrompt PromptKey = "reviewer_a"
	ReviewerBPrompt PromptKey = "reviewer_b"
	JudgePrompt     PromptKey = "judge"
	JustifyPrompt   PromptKey = "justify"
)

// NoOutput stands in for a reviewer output that is absent.
const NoOutput = "No output"

// PromptSet maps stage names to system prompts. It is loaded once and never
// mutated afterwards.
type PromptSet struct {
	prompts map[PromptKey]string
}

// NewPromptSet builds a prompt set from an explicit map.
func NewPromptSet(prompts map[PromptKey]string) *PromptSet {
	ps := &PromptSet{prompts: make(map[PromptKey]string, len(prompts))}
	for k, v := range prompts {
		ps.prompts[k] = strings.TrimSpace(v)
	}
	return ps
}

// LoadPromptSet reads the embedded prompts and, when overrideFile is set, replaces
// the entries present in that YAML file (a mapping of stage name to prompt text).
func LoadPromptSet(overrideFile string) (*PromptSet, error) {
	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	prompts := make(map[PromptKey]string, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := promptFiles.ReadFile("prompts/" + file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", file.Name(), err)
		}
		key := PromptKey(strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
		prompts[key] = string(content)
	}

	if overrideFile != "" {
		data, err := os.ReadFile(overrideFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompts file %s: %w", overrideFile, err)
		}
		var overrides map[string]string
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse prompts file %s: %w", overrideFile, err)
		}
		for k, v := range overrides {
			prompts[PromptKey(k)] = v
		}
	}

	return NewPromptSet(prompts), nil
}

// System returns the system prompt for key, or "" when none is defined.
func (ps *PromptSet) System(key PromptKey) string {
	if ps == nil {
		return ""
	}
	return ps.prompts[key]
}

var inputTemplates = template.Must(template.New("inputs").Parse(`
{{- define "reviewer" -}}
Code diff to review:

{{ .Diff }}
{{- end -}}

{{- define "judge" }}
Original Code Diff:
{{ .Diff }}

Security/Performance Review:
{{ .ReviewA }}

Readability/Maintainability Review:
{{ .ReviewB }}
{{ end -}}

{{- define "justify" }}
Original Code Diff:
{{ .Diff }}

Original AI Review:
{{ .OriginalReview }}

Human Feedback:
{{ .HumanComment }}
{{ end -}}
`))

func render(name string, data any) string {
	var buf bytes.Buffer
	if err := inputTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		// The templates are static and only reference string fields.
		panic(fmt.Sprintf("render %s input: %v", name, err))
	}
	return buf.String()
}

// ReviewerInput renders the user prompt for a reviewer stage.
func ReviewerInput(diff string) string {
	return render("reviewer", struct{ Diff string }{diff})
}

// JudgeInput renders the composite judge prompt. Absent reviews render as NoOutput.
func JudgeInput(diff string, reviewA, reviewB *string) string {
	orNoOutput := func(s *string) string {
		if s == nil {
			return NoOutput
		}
		return *s
	}
	return render("judge", struct{ Diff, ReviewA, ReviewB string }{diff, orNoOutput(reviewA), orNoOutput(reviewB)})
}

// JustifyInput renders the justification prompt.
func JustifyInput(diff, originalReview, humanComment string) string {
	return render("justify", struct{ Diff, OriginalReview, HumanComment string }{diff, originalReview, humanComment})
}
