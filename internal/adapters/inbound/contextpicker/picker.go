// Package contextpicker lets the user choose a kubeconfig context in the
// terminal when none was given on the command line.
package contextpicker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"k8s.io/client-go/tools/clientcmd"
)

var (
	ErrNoContexts = errors.New("kubeconfig has no contexts")
	ErrCancelled  = errors.New("context selection cancelled")
)

const tableWidth = 48

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7DCE13")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
)

// Contexts lists the context names of the kubeconfig at path, or of the
// default loading chain when path is empty, together with the current one.
func Contexts(path string) ([]string, string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}

	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).RawConfig()
	if err != nil {
		return nil, "", fmt.Errorf("load kubeconfig: %w", err)
	}

	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, cfg.CurrentContext, nil
}

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Pick shows the contexts and returns the one selected with Enter. The
// cursor starts on current.
func Pick(ctx context.Context, names []string, current string, in io.Reader, out io.Writer) (string, error) {
	if len(names) == 0 {
		return "", ErrNoContexts
	}

	p := tea.NewProgram(newModel(names, current),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run context picker: %w", err)
	}

	m, ok := final.(model)
	if !ok || m.cancelled {
		return "", ErrCancelled
	}

	return m.chosen, nil
}

type model struct {
	table     table.Model
	names     []string
	chosen    string
	cancelled bool
}

func newModel(names []string, current string) model {
	rows := make([]table.Row, 0, len(names))
	for _, n := range names {
		marker := " "
		if n == current {
			marker = "*"
		}

		rows = append(rows, table.Row{marker, n})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: " ", Width: 1},
			{Title: "Context", Width: tableWidth - 4},
		}),
		table.WithRows(rows),
		table.WithHeight(min(len(rows), 12)+1),
		table.WithWidth(tableWidth),
		table.WithFocused(true),
	)

	if i := slices.Index(names, current); i >= 0 {
		t.SetCursor(i)
	}

	return model{table: t, names: names}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "enter":
		idx := max(0, min(m.table.Cursor(), len(m.names)-1))
		m.chosen = m.names[idx]

		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true

		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Select kube context"),
		m.table.View(),
		footerStyle.Render("↑/↓ move • Enter select • Esc cancel"),
	)

	return boxStyle.Render(content) + "\n"
}
