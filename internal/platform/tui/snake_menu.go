package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
)

// DifficultyModel lets users choose a difficulty preset before playing.
type DifficultyModel struct {
	presets  []config.DifficultyPreset
	cursor   int
	width    int
	height   int
	selected *config.DifficultyPreset
	scores   bool // user asked for the scoreboard
	quitting bool
	embedded bool // hosted by another model; choosing must not quit
}

// NewDifficultyModel creates a picker with normal preselected.
func NewDifficultyModel(width, height int) DifficultyModel {
	m := DifficultyModel{
		presets: config.Presets(),
		width:   width,
		height:  height,
	}
	for i, p := range m.presets {
		if p == config.DifficultyNormal {
			m.cursor = i
		}
	}
	return m
}

// Init initializes the model.
func (m DifficultyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DifficultyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "tab" {
			m.scores = true
			return m, m.done()
		}
		return m.handleKey(menuAction(msg))
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m DifficultyModel) handleKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		p := m.presets[m.cursor]
		m.selected = &p
		return m, m.done()
	}
	return m, nil
}

func (m DifficultyModel) done() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// View renders the preset list.
func (m DifficultyModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("S N A K E", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, p := range m.presets {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, p, p.Description())
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText("Enter: Select  |  Tab: Scores  |  Q: Quit", m.width)))

	return b.String()
}

// Selected returns the chosen preset, or nil if still choosing.
func (m DifficultyModel) Selected() *config.DifficultyPreset {
	return m.selected
}

// WantsScores returns true if the user asked for the scoreboard.
func (m DifficultyModel) WantsScores() bool {
	return m.scores
}

// IsQuitting returns true if user wants to quit.
func (m DifficultyModel) IsQuitting() bool {
	return m.quitting
}

// MenuResult holds the outcome of the difficulty picker.
type MenuResult struct {
	Preset          config.DifficultyPreset
	WantsScoreboard bool
	Quit            bool
}

// RunDifficultyMenu shows the picker and returns the user's choice.
func RunDifficultyMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewDifficultyModel(cfg.ScreenW, cfg.ScreenH), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := final.(DifficultyModel)
	if !ok || m.IsQuitting() {
		return MenuResult{Quit: true}, nil
	}
	if m.WantsScores() {
		return MenuResult{WantsScoreboard: true}, nil
	}
	if sel := m.Selected(); sel != nil {
		return MenuResult{Preset: *sel}, nil
	}
	return MenuResult{Quit: true}, nil
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}
