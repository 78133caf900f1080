package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptSet_Embedded(t *testing.T) {
	ps, err := LoadPromptSet("")
	require.NoError(t, err)

	for _, key := range []PromptKey{ReviewerAPrompt, ReviewerBPrompt, JudgePrompt, JustifyPrompt} {
		assert.NotEmpty(t, ps.System(key), "prompt %s should be embedded", key)
	}
	assert.Empty(t, ps.System("unknown"))
}

func TestLoadPromptSet_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("judge: |\n  Be brief.\njustify: \"\"\n"), 0o600))

	ps, err := LoadPromptSet(path)
	require.NoError(t, err)

	assert.Equal(t, "Be brief.", ps.System(JudgePrompt))
	assert.Empty(t, ps.System(JustifyPrompt))
	assert.True(t, strings.HasPrefix(ps.System(ReviewerAPrompt), "You are Reviewer A"))
}

func TestLoadPromptSet_BadOverride(t *testing.T) {
	_, err := LoadPromptSet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))
	_, err = LoadPromptSet(path)
	assert.Error(t, err)
}

func TestNilPromptSet(t *testing.T) {
	var ps *PromptSet
	assert.Empty(t, ps.System(JudgePrompt))
}

func TestReviewerInput(t *testing.T) {
	assert.Equal(t, "Code diff to review:\n\n+added", ReviewerInput("+added"))
}

func TestJudgeInput(t *testing.T) {
	a := "Error: model unreachable"
	got := JudgeInput("+x", &a, nil)
	want := "\nOriginal Code Diff:\n+x\n\nSecurity/Performance Review:\nError: model unreachable\n\n" +
		"Readability/Maintainability Review:\nNo output\n"
	assert.Equal(t, want, got)
}

func TestJustifyInput(t *testing.T) {
	got := JustifyInput("+x", "Request changes", "This is intended.")
	want := "\nOriginal Code Diff:\n+x\n\nOriginal AI Review:\nRequest changes\n\nHuman Feedback:\nThis is intended.\n"
	assert.Equal(t, want, got)
}
