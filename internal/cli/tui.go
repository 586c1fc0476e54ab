package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ridgemap/ridgemap/pkg/pipeline"
)

// Progress bar styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 40

// =============================================================================
// samplingModel - Live sampling progress
// =============================================================================

// sampleProgressMsg reports sampled cells.
type sampleProgressMsg struct {
	done  int
	total int
}

// sampleDoneMsg carries the pipeline result or error.
type sampleDoneMsg struct {
	result *pipeline.Result
	err    error
}

// samplingModel is the bubbletea model showing grid sampling progress.
type samplingModel struct {
	done   int
	total  int
	result *pipeline.Result
	err    error
	closed bool
}

func (m samplingModel) Init() tea.Cmd {
	return nil
}

func (m samplingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.closed = true
			return m, tea.Quit
		}
	case sampleProgressMsg:
		m.done, m.total = msg.done, msg.total
	case sampleDoneMsg:
		m.result, m.err = msg.result, msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m samplingModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Sampling terrain"))
	b.WriteString("\n\n")

	filled := 0
	if m.total > 0 {
		filled = m.done * barWidth / m.total
	}
	if filled > barWidth {
		filled = barWidth
	}
	b.WriteString("  ")
	b.WriteString(barFilledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(barEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d cells", m.done, m.total)))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("  q to cancel"))
	b.WriteString("\n")

	return b.String()
}

// runSamplingTUI executes the pipeline behind a live progress display. The
// pipeline runs in a goroutine and feeds progress messages into the program;
// quitting the display cancels the run via context.
func runSamplingTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(samplingModel{}, tea.WithContext(ctx))

	opts.Progress = func(done, total int) {
		p.Send(sampleProgressMsg{done: done, total: total})
	}

	go func() {
		result, err := runner.Execute(ctx, opts)
		p.Send(sampleDoneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := final.(samplingModel)
	if m.closed {
		cancel()
		return nil, context.Canceled
	}
	return m.result, m.err
}
