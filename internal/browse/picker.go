package browse

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

type pickerModel struct {
	title  string
	items  []string
	cursor int
	chosen int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.items) > 0 {
				m.chosen = m.cursor
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.chosen != -1 {
		return ""
	}
	s := pickerTitleStyle.Render(m.title) + "\n"
	for i, item := range m.items {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+item) + "\n"
		} else {
			s += pickerItemStyle.Render(item) + "\n"
		}
	}
	s += pickerHintStyle.Render("↑/↓ navigate  enter select  q quit")
	return s
}

// RunPicker lets the user choose one of items. It returns the chosen index,
// or -1 if the user quit without choosing.
func RunPicker(title string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("nothing to pick from")
	}
	p := tea.NewProgram(pickerModel{title: title, items: items, chosen: -1})
	result, err := p.Run()
	if err != nil {
		return -1, err
	}
	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
