// Package tui is the terminal front end of the reset page.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neboloop/cryptoportal/internal/resetflow"
)

type Options struct {
	// LoginURL is reported once the page redirects. Defaults to the
	// redirect path.
	LoginURL       string
	PageOptions    []resetflow.Option
	ProgramOptions []tea.ProgramOption
}

// Result describes how the program ended.
type Result struct {
	Reset    bool
	LoginURL string // set when the redirect fired
}

const (
	fieldPassword = iota
	fieldConfirm
	fieldCount
)

var (
	boxStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#374151")).Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e5e7eb"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	buttonStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2563eb")).Padding(0, 2)
	busyButtonStyle = buttonStyle.Background(lipgloss.Color("#4b5563"))
)

type mountedMsg struct{}

type submittedMsg struct {
	err error
}

type redirectMsg struct {
	path string
}

// navigator hands the page's redirect to the running program.
type navigator chan string

func (n navigator) Navigate(path string) {
	select {
	case n <- path:
	default:
	}
}

type model struct {
	ctx      context.Context
	page     *resetflow.Page
	redirect navigator
	done     <-chan struct{}
	loginURL string

	inputs     [fieldCount]textinput.Model
	focus      int
	submitting bool
	result     Result
}

// Run shows the reset page for token in the terminal until the user quits or
// the page redirects to login.
func Run(ctx context.Context, backend resetflow.Backend, token string, opts Options) (Result, error) {
	nav := make(navigator, 1)
	pageOpts := append([]resetflow.Option{}, opts.PageOptions...)
	pageOpts = append(pageOpts, resetflow.WithNavigator(nav))
	page := resetflow.New(backend, token, pageOpts...)
	defer page.Close()

	done := make(chan struct{})
	defer close(done)

	m := newModel(ctx, page, nav, done, opts.LoginURL)
	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, err
	}
	res := final.(model).result
	res.Reset = page.Phase() == resetflow.PhaseSucceeded
	return res, nil
}

func newModel(ctx context.Context, page *resetflow.Page, nav navigator, done <-chan struct{}, loginURL string) model {
	m := model{ctx: ctx, page: page, redirect: nav, done: done, loginURL: loginURL}
	placeholders := [fieldCount]string{"New password", "Confirm password"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
		ti.CharLimit = 256
		ti.Width = 32
		m.inputs[i] = ti
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.mountCmd(), m.waitForRedirect())
}

func (m model) mountCmd() tea.Cmd {
	return func() tea.Msg {
		m.page.Mount(m.ctx)
		return mountedMsg{}
	}
}

func (m model) submitCmd() tea.Cmd {
	return func() tea.Msg {
		return submittedMsg{err: m.page.Submit(m.ctx)}
	}
}

func (m model) waitForRedirect() tea.Cmd {
	return func() tea.Msg {
		select {
		case path := <-m.redirect:
			return redirectMsg{path: path}
		case <-m.done:
			return nil
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case mountedMsg:
		cmd := m.setFocus(fieldPassword)
		return m, cmd
	case submittedMsg:
		m.submitting = false
		return m, nil
	case redirectMsg:
		m.result.LoginURL = m.loginURL
		if m.result.LoginURL == "" {
			m.result.LoginURL = msg.path
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.page.Close()
		return m, tea.Quit
	}

	if _, ok := m.page.View().(resetflow.Form); !ok {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case "enter":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		m.page.SetPassword(m.inputs[fieldPassword].Value())
		m.page.SetConfirm(m.inputs[fieldConfirm].Value())
		return m, m.submitCmd()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
			continue
		}
		m.inputs[j].Blur()
	}
	return cmd
}

func (m model) View() string {
	v := m.page.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title()))
	b.WriteString("\n\n")

	switch v := v.(type) {
	case resetflow.Invalid:
		b.WriteString(errorStyle.Render(v.Message))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("esc quit"))
	case resetflow.Form:
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if v.Busy || m.submitting {
			b.WriteString(busyButtonStyle.Render("Resetting..."))
		} else {
			b.WriteString(buttonStyle.Render("Reset Password"))
		}
		if v.Error != "" {
			b.WriteString("\n\n")
			b.WriteString(errorStyle.Render(v.Error))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("tab switch field • enter submit • esc quit"))
	case resetflow.Success:
		b.WriteString(successStyle.Render(v.Message))
	default:
		b.WriteString(helpStyle.Render("Verifying reset link..."))
	}
	return boxStyle.Render(b.String()) + "\n"
}
