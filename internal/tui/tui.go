// Package tui is the interactive front end: one panel per target platform,
// each with its own scan controller. Scans finish on a worker goroutine and
// reach the UI only as scanDoneMsg values.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/advantech-ae/idaqscan/internal/output"
	"github.com/advantech-ae/idaqscan/internal/scanner"
	"github.com/advantech-ae/idaqscan/internal/session"
)

var (
	colorFound    = lipgloss.Color("#2ECC71")
	colorError    = lipgloss.Color("#E74C3C")
	colorScanning = lipgloss.Color("#E67E22")
	colorCode     = lipgloss.Color("#3498DB")
	colorMuted    = lipgloss.Color("240")

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(colorCode)
	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			BorderForeground(colorMuted)
	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 2).
			Align(lipgloss.Center)
	logStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Target is one panel's configuration.
type Target struct {
	Mode scanner.OSMode
	Path string
}

type scanDoneMsg struct {
	panel  int
	result scanner.ScanResult
}

type panel struct {
	target   Target
	ctrl     *session.Controller
	scanning bool
	result   *scanner.ScanResult
	viewport viewport.Model
}

func (p *panel) title() string {
	return p.target.Mode.String() + " System"
}

type model struct {
	ctx     context.Context
	panels  []*panel
	active  int
	spinner spinner.Model
	message string
	copy    func(string) error
	width   int
	height  int
}

func newModel(ctx context.Context, targets []Target, runner session.Runner, logger *zap.Logger) model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := model{
		ctx:     ctx,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		copy:    clipboard.WriteAll,
		width:   80,
		height:  30,
	}
	m.spinner.Style = lipgloss.NewStyle().Foreground(colorScanning)
	for _, t := range targets {
		m.panels = append(m.panels, &panel{
			target:   t,
			ctrl:     session.New(runner, logger.With(zap.Stringer("panel", t.Mode))),
			viewport: viewport.New(76, 12),
		})
	}
	m.resize()
	return m
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case scanDoneMsg:
		p := m.panels[msg.panel]
		result := msg.result
		p.scanning = false
		p.result = &result
		p.viewport.SetContent(rawText(result))
		p.viewport.GotoTop()
		m.message = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			m.active = (m.active + 1) % len(m.panels)
			m.message = ""
			return m, nil
		case "shift+tab", "left", "h":
			m.active = (m.active + len(m.panels) - 1) % len(m.panels)
			m.message = ""
			return m, nil
		case "s", "enter":
			return m, m.startScan(m.active)
		case "c":
			m.copyAddress()
			return m, nil
		}
	}

	var cmd tea.Cmd
	p := m.panels[m.active]
	p.viewport, cmd = p.viewport.Update(msg)
	return m, cmd
}

// startScan hands the request to the panel's controller. The controller's
// callback only forwards the finished result; the UI state changes when the
// resulting scanDoneMsg comes back through Update.
func (m *model) startScan(i int) tea.Cmd {
	p := m.panels[i]
	if p.scanning {
		return nil
	}
	done := make(chan scanner.ScanResult, 1)
	req := scanner.ScanRequest{TargetPath: p.target.Path, Mode: p.target.Mode}

	if err := p.ctrl.StartScan(m.ctx, req, func(r scanner.ScanResult) { done <- r }); err != nil {
		return nil
	}

	p.scanning = true
	p.result = nil
	p.viewport.SetContent("")
	m.message = ""

	return func() tea.Msg {
		return scanDoneMsg{panel: i, result: <-done}
	}
}

func (m *model) copyAddress() {
	p := m.panels[m.active]
	if p.result == nil || p.result.Match == nil {
		return
	}
	addr := p.result.Match.Address
	if err := m.copy(addr); err != nil {
		m.message = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.message = fmt.Sprintf("IP %s copied!", addr)
}

func (m *model) resize() {
	w := m.width - 2
	h := m.height - 17
	if w < 20 {
		w = 20
	}
	if h < 3 {
		h = 3
	}
	for _, p := range m.panels {
		p.viewport.Width = w
		p.viewport.Height = h
	}
}

func rawText(r scanner.ScanResult) string {
	text := r.Outcome.Stdout
	if r.Status == scanner.StatusProcessError {
		text = r.Diagnostic
	}
	return output.SanitizeTerminal(text)
}

func (m model) View() string {
	var b strings.Builder

	var tabs []string
	for i, p := range m.panels {
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(p.title()))
		} else {
			tabs = append(tabs, tabStyle.Render(p.title()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
	b.WriteString("\n\n")

	p := m.panels[m.active]
	b.WriteString(fmt.Sprintf("%s %s\n", m.statusLine(p), mutedStyle.Render(m.message)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Target Executable (%s):", p.target.Mode)))
	b.WriteString("\n" + output.SanitizeTerminal(p.target.Path) + "\n\n")

	headline, code := m.resultLines(p)
	box := lipgloss.JoinVertical(lipgloss.Center,
		mutedStyle.Render("SCAN RESULT"),
		headline,
		code,
	)
	b.WriteString(resultStyle.Width(m.width - 4).Render(box))
	b.WriteString("\n\nCLI Raw Output\n")
	b.WriteString(logStyle.Render(p.viewport.View()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("s scan • c copy IP • tab switch • ↑/↓ scroll • q quit"))

	return b.String()
}

func (m model) statusLine(p *panel) string {
	switch {
	case p.scanning:
		return m.spinner.View() + lipgloss.NewStyle().Foreground(colorScanning).Render("Scanning...")
	case p.result == nil:
		return "Ready"
	case p.result.Status == scanner.StatusSuccess:
		return lipgloss.NewStyle().Foreground(colorFound).Render("Device Found")
	case p.result.Status == scanner.StatusDeviceNotFound:
		return mutedStyle.Render("Target Missing")
	default:
		return lipgloss.NewStyle().Foreground(colorError).Render("Execution Failed")
	}
}

func (m model) resultLines(p *panel) (string, string) {
	bold := lipgloss.NewStyle().Bold(true)
	switch {
	case p.scanning:
		return bold.Render("Scanning..."), mutedStyle.Render("Code: ...")
	case p.result == nil:
		return bold.Render("--"), mutedStyle.Render("Code: -")
	}

	code := fmt.Sprintf("Code: %d", p.result.Outcome.ExitCode)
	switch p.result.Status {
	case scanner.StatusSuccess:
		return bold.Foreground(colorFound).Render(output.SanitizeTerminal(p.result.Match.Address)),
			lipgloss.NewStyle().Foreground(colorCode).Render(code)
	case scanner.StatusDeviceNotFound:
		return bold.Foreground(colorError).Render("Not Found"),
			lipgloss.NewStyle().Foreground(colorCode).Render(code)
	default:
		return bold.Foreground(colorError).Render("Error"),
			lipgloss.NewStyle().Foreground(colorError).Render(code)
	}
}

var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Run starts the full-screen UI and blocks until the user quits. Scans still
// running at that point are cancelled, which kills their dndev process.
func Run(ctx context.Context, targets []Target, runner session.Runner, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := runProgram(newModel(ctx, targets, runner, logger)); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
