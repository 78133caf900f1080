package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/warden-judge/internal/app"
	"github.com/sevigo/warden-judge/internal/core"
)

const banner = `
╔══════════════════════════════════════════════════════╗
║                  W A R D E N   J U D G E              ║
║          two reviewers, one judge, every change       ║
╚══════════════════════════════════════════════════════╝
`

type model struct {
	styles  styles
	rt      *app.Runtime
	cleanup func()
	limit   int

	// UI Components
	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	isLoading bool
	width     int

	history  []string
	contexts []*core.PersistedContext
	selected *core.PersistedContext
}

func initialModel(theme ThemeName, limit int) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter a command, /help for the list..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = styles.ascii

	return &model{
		styles:    styles,
		limit:     limit,
		textarea:  ta,
		spinner:   sp,
		isLoading: true,
		width:     80,
		history:   []string{styles.ascii.Render(banner), "", "⚙ CONNECTING TO SERVICES..."},
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(initializeRuntimeCmd(), m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m, m.processCommand(input)
		}

	case runtimeInitializedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendLines("", m.styles.error.Render("⚠ "+msg.err.Error()))
			return m, nil
		}
		m.rt = msg.rt
		m.cleanup = msg.cleanup
		m.isLoading = true
		return m, loadContextsCmd(m.rt, m.limit)

	case contextsLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendLines("", m.styles.error.Render("Could not load review contexts: "+msg.err.Error()))
		} else {
			m.contexts = msg.contexts
			m.appendLines("", m.styles.success.Render("✓ SYSTEM ONLINE"), m.renderList())
		}
		m.appendLines("", "Type /help for commands.")
		return m, nil

	case contextLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendLines("", m.styles.error.Render("⚠ "+msg.err.Error()))
			return m, nil
		}
		m.selected = msg.context
		m.appendLines("", m.renderContext(msg.context, msg.showDiff))
		return m, nil

	case healthMsg:
		m.appendLines("", m.renderHealth(msg.readiness))
		return m, nil

	case errorMsg:
		m.isLoading = false
		m.appendLines("", m.styles.error.Render("⚠ "+msg.err.Error()))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 10
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) appendLines(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) View() string {
	if m.rt == nil && m.isLoading {
		return fmt.Sprintf("\n  %s CONNECTING...\n\n", m.spinner.View())
	}

	var statusParts []string
	if m.selected != nil {
		statusParts = append(statusParts, fmt.Sprintf("CHANGE: %d/%d", m.selected.ProjectID, m.selected.ChangeID))
	} else {
		statusParts = append(statusParts, "CHANGE: None Selected")
	}
	statusParts = append(statusParts, fmt.Sprintf("CONTEXTS: %d", len(m.contexts)))
	if m.rt != nil && m.rt.Cfg != nil {
		statusParts = append(statusParts, fmt.Sprintf("🤖 %s (%s)", m.rt.Cfg.AI.JudgeModel, m.rt.Cfg.AI.Provider))
	}
	status := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("LOADING...")
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

func (m *model) processCommand(input string) tea.Cmd {
	m.appendLines(m.styles.prompt.Render("► ") + input)

	parts := strings.Fields(input)
	command := parts[0]
	args := parts[1:]

	if m.rt == nil && command != "/help" && command != "/exit" && command != "/quit" {
		m.appendLines(m.styles.error.Render("Services are not available."))
		return nil
	}

	switch command {
	case "/list", "/ls":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadContextsCmd(m.rt, m.limit))

	case "/show", "/diff":
		projectID, changeID, err := parseKey(args, m.contexts)
		if err != nil {
			m.appendLines(m.styles.error.Render(fmt.Sprintf("USAGE: %s [index] | %s [project] [change]: %v", command, command, err)))
			return nil
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadContextCmd(m.rt, projectID, changeID, command == "/diff"))

	case "/health":
		return checkHealthCmd(m.rt)

	case "/help", "/h":
		helpText := m.styles.success.Render("AVAILABLE COMMANDS:") + `

  /list, /ls                   Reload the most recently reviewed changes.
  /show [index]                Show the final review of a listed change.
  /show [project] [change]     Show the final review of any stored change.
  /diff [index]                Show the final review together with the stored diff.
  /health                      Report which services are available.
  /help                        Show this help message.
  /exit, /quit                 Exit.`
		m.appendLines("", helpText)
		return nil

	case "/exit", "/quit":
		return tea.Quit

	default:
		m.appendLines("", m.styles.error.Render(fmt.Sprintf("UNKNOWN COMMAND: %s", command)), m.styles.inactive.Render("Type /help for assistance."))
		return nil
	}
}

func (m *model) renderList() string {
	if len(m.contexts) == 0 {
		return m.styles.inactive.Render("No review contexts stored yet.")
	}
	var b strings.Builder
	b.WriteString(m.styles.success.Render("RECENT REVIEWS:"))
	for i, rc := range m.contexts {
		comment := "not posted"
		if rc.CommentID != nil {
			comment = "comment " + strconv.FormatInt(*rc.CommentID, 10)
		}
		fmt.Fprintf(&b, "\n  %s project %d, change %d %s",
			m.styles.prompt.Render(fmt.Sprintf("%2d.", i+1)),
			rc.ProjectID, rc.ChangeID,
			m.styles.inactive.Render(fmt.Sprintf("(%s, %s)", comment, rc.UpdatedAt.Format(time.RFC822))))
	}
	b.WriteString("\n\n" + m.styles.inactive.Render("Use '/show [index]' to read a review."))
	return b.String()
}

func (m *model) renderContext(rc *core.PersistedContext, showDiff bool) string {
	md := fmt.Sprintf("# Project %d, change %d\n\n%s\n", rc.ProjectID, rc.ChangeID, rc.FinalReview)
	if showDiff {
		md += "\n## Diff\n\n```diff\n" + rc.DiffText + "\n```\n"
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(m.width-8, 40)))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m *model) renderHealth(r core.Readiness) string {
	check := func(name string, ok bool) string {
		if ok {
			return m.styles.success.Render("● ") + name
		}
		return m.styles.error.Render("○ ") + name
	}
	lines := []string{
		check("github_service", r.GitHub),
		check("gitlab_service", r.GitLab),
		check("review_workflow", r.Workflow),
		check("memory_service", r.Memory),
		check("database_connection", r.Database),
	}
	status := m.styles.inactive.Render("status: partial")
	if r.OK() {
		status = m.styles.success.Render("status: ok")
	}
	return strings.Join(append(lines, status), "\n")
}
