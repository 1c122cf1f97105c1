package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gitpatrol/gitpatrol/internal/engine"
	"golang.org/x/term"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	stageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	pathStyle    = lipgloss.NewStyle().Faint(true)
)

const maxPathWidth = 60

type stageMsg struct {
	stage engine.Stage
	path  string
}

type doneMsg struct{}

// Model renders a one-line spinner with the current scan stage.
type Model struct {
	spinner  spinner.Model
	stage    engine.Stage
	path     string
	fetched  int
	quitting bool
}

func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = spinnerStyle
	return Model{spinner: s}
}

func (m Model) Init() tea.Cmd { return m.spinner.Tick }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageMsg:
		m.stage, m.path = msg.stage, msg.path
		if msg.stage == engine.StageFetching {
			m.fetched++
		}
		return m, nil
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	line := fmt.Sprintf("%s %s", m.spinner.View(), stageStyle.Render(m.stage.String()))
	if m.fetched > 0 {
		line += fmt.Sprintf(" (%d files)", m.fetched)
	}
	if m.path != "" {
		line += " " + pathStyle.Render(truncateLeft(m.path, maxPathWidth))
	}
	return line + "\n"
}

// truncateLeft keeps the tail of s, which is the informative end of a path.
func truncateLeft(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

// Progress drives a spinner program from scan progress callbacks.
type Progress struct {
	prog *tea.Program
	done chan struct{}
}

// StartProgress begins rendering to w. Stop must be called to restore the
// terminal line.
func StartProgress(w io.Writer) *Progress {
	p := &Progress{
		prog: tea.NewProgram(NewModel(), tea.WithOutput(w), tea.WithInput(nil)),
		done: make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		_, _ = p.prog.Run()
	}()
	return p
}

// Report matches engine.Config.Progress.
func (p *Progress) Report(stage engine.Stage, path string) {
	p.prog.Send(stageMsg{stage: stage, path: path})
}

// Write prints b above the spinner line so log output does not tear it.
// Writes after the program has exited are dropped.
func (p *Progress) Write(b []byte) (int, error) {
	select {
	case <-p.done:
		return len(b), nil
	default:
	}
	line := strings.TrimRight(string(b), "\n")
	sent := make(chan struct{})
	go func() {
		defer close(sent)
		// Println has no cancellation; the program may exit on SIGINT.
		p.prog.Println(line)
	}()
	select {
	case <-sent:
	case <-p.done:
	}
	return len(b), nil
}

func (p *Progress) Stop() {
	p.prog.Send(doneMsg{})
	<-p.done
}

// Enabled reports whether f is an interactive terminal.
func Enabled(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
