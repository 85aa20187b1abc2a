package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/joblens/internal/model"
)

// ErrCancelled is returned by RunLoader when the user presses ctrl+c.
var ErrCancelled = errors.New("cancelled")

type searchDoneMsg struct {
	result model.SearchResult
	err    error
}

type loaderModel struct {
	label    string
	searchFn func(ctx context.Context) (model.SearchResult, error)
	ctx      context.Context
	spinner  spinner.Model
	result   model.SearchResult
	err      error
	done     bool
}

func newLoader(ctx context.Context, label string, fn func(ctx context.Context) (model.SearchResult, error)) loaderModel {
	return loaderModel{
		label:    label,
		searchFn: fn,
		ctx:      ctx,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("33"))),
		),
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doSearch(), m.spinner.Tick)
}

func (m loaderModel) doSearch() tea.Cmd {
	fn, ctx := m.searchFn, m.ctx
	return func() tea.Msg {
		result, err := fn(ctx)
		return searchDoneMsg{result: result, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Searching %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while fn runs. It renders inline (no alt screen).
func RunLoader(ctx context.Context, label string, fn func(ctx context.Context) (model.SearchResult, error)) (model.SearchResult, error) {
	p := tea.NewProgram(newLoader(ctx, label, fn))
	result, err := p.Run()
	if err != nil {
		return model.SearchResult{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
