package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TitleChoice is what the player picked on the title screen.
type TitleChoice int

const (
	TitleNone TitleChoice = iota
	TitleNewGame
	TitleContinue
	TitleQuit
)

type titleItem struct {
	label  string
	choice TitleChoice
}

// TitleModel is the title screen: New game, Continue or Quit.
type TitleModel struct {
	items     []titleItem
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	choice    TitleChoice
}

// NewTitleModel creates the title screen. Continue is offered only when
// saves exist.
func NewTitleModel(width, height int, canContinue bool) TitleModel {
	items := []titleItem{{"New game", TitleNewGame}}
	if canContinue {
		items = append(items, titleItem{"Continue", TitleContinue})
	}
	items = append(items, titleItem{"Quit", TitleQuit})

	return TitleModel{
		items:     items,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the title model.
func (m TitleModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the title screen.
func (m TitleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit, MenuActionBack:
			m.choice = TitleQuit
		case MenuActionUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case MenuActionDown:
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			m.choice = m.items[m.cursor].choice
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the title screen.
func (m TitleModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", max(1, m.height/4)))
	b.WriteString(centerText(titleStyle.Render("T I L E   Q U E S T"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(subtleStyle.Render("Chop, mine and fish your way up"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.label
		if i == m.cursor {
			line = activeStyle.Render("> " + item.label)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(subtleStyle.Render(controls), m.width))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the selection, or TitleNone while the player is choosing.
func (m TitleModel) Choice() TitleChoice {
	return m.choice
}

// centerText centers text within given width. Styled text is measured by
// its printed width.
func centerText(text string, width int) string {
	visible := lipgloss.Width(text)
	if visible >= width {
		return text
	}
	return strings.Repeat(" ", (width-visible)/2) + text
}
