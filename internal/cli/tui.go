package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mindtower/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// kindChoice pairs a layout kind with its interactive description.
type kindChoice struct {
	kind  string
	label string
	desc  string
}

var kindChoices = []kindChoice{
	{scene.KindRadial, "Radial", "branches fan out around a central root"},
	{scene.KindHorizontal, "Horizontal", "branches flow left to right like a file tree"},
}

// KindListModel is the bubbletea model for interactive layout selection.
type KindListModel struct {
	Cursor   int
	Selected string
}

// NewKindListModel creates a new layout kind picker.
func NewKindListModel() KindListModel {
	return KindListModel{}
}

func (m KindListModel) Init() tea.Cmd {
	return nil
}

func (m KindListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(kindChoices)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = kindChoices[m.Cursor].kind
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m KindListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, choice := range kindChoices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-12s %s", cursor, choice.label, listDimStyle.Render(choice.desc))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickKind runs the interactive layout picker and returns the chosen kind.
// An empty string means the user aborted.
func pickKind() (string, error) {
	p := tea.NewProgram(NewKindListModel())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(KindListModel); ok {
		return m.Selected, nil
	}
	return "", nil
}
