package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// PlayOptions configures the play screen.
type PlayOptions struct {
	Session *session.Session
	// Store is optional; without it final scores are not recorded and the
	// scoreboard is unavailable.
	Store  *storage.Store
	GameID string
	Title  string
	Config core.RuntimeConfig
	Logger *log.Logger
}

// Model is the Bubble Tea model for one snake session. It forwards keys to
// the session and redraws whenever the session publishes a snapshot.
type Model struct {
	sess   *session.Session
	feed   *session.Feed
	snap   session.Snapshot
	store  *storage.Store
	gameID string
	title  string
	logger *log.Logger

	screen *core.Screen
	keys   GameKeyMap
	help   help.Model

	scores     *ScoreboardModel
	width      int
	height     int
	recorded   bool // final score of the current game over already saved
	quitting   bool
	backToMenu bool
	embedded   bool // hosted by another model; going back must not quit
}

// NewModel creates the play model and subscribes it to the session.
func NewModel(opts PlayOptions) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	title := opts.Title
	if title == "" {
		title = "SNAKE"
	}

	feed := opts.Session.Subscribe(16)
	return Model{
		sess:   opts.Session,
		feed:   feed,
		snap:   opts.Session.Snapshot(),
		store:  opts.Store,
		gameID: opts.GameID,
		title:  title,
		logger: logger,
		screen: core.NewScreen(opts.Config.ScreenW, max(opts.Config.ScreenH-1, 0)),
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
		width:  opts.Config.ScreenW,
		height: opts.Config.ScreenH,
	}
}

// Init starts listening to the session feed.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.feed)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case SnapshotMsg:
		if msg.feed != m.feed {
			return m, nil
		}
		m.handleSnapshot(msg.Snapshot)
		return m, waitForSnapshot(m.feed)

	case feedClosedMsg:
		if msg.feed != m.feed {
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.scores != nil {
		return m.updateScores(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey turns key presses into session intents.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)

	switch {
	case action == core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case action.IsDirectional():
		// An arrow in Idle starts the game heading that way.
		if m.sess.State() == session.Idle {
			m.sess.Start()
		}
		m.sess.PostDirection(Direction(action))

	case action == core.ActionStart:
		if m.sess.State() == session.GameOver {
			m.sess.Reset()
		}
		m.sess.Start()

	case action == core.ActionPause:
		m.sess.TogglePause()

	case action == core.ActionRestart:
		m.sess.Reset()

	case action == core.ActionScores:
		if m.store == nil {
			return m, nil
		}
		m.sess.Pause()
		sb := NewScoreboardModel(m.store, m.width, m.height)
		sb.SelectGame(m.gameID)
		sb.embedded = true
		m.scores = &sb

	case action == core.ActionBack:
		if m.sess.State() != session.Running {
			m.backToMenu = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

// updateScores routes input to the scoreboard overlay until it closes.
func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.scores.Update(msg)
	sb, ok := updated.(ScoreboardModel)
	if !ok {
		m.scores = nil
		return m, cmd
	}
	switch {
	case sb.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scores = nil
		return m, nil
	}
	m.scores = &sb
	return m, cmd
}

// handleResize processes window resize events. The last row holds help.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 0))
	m.help.Width = msg.Width

	if m.scores != nil {
		updated, cmd := m.scores.Update(msg)
		if sb, ok := updated.(ScoreboardModel); ok {
			m.scores = &sb
		}
		return m, cmd
	}
	return m, nil
}

// handleSnapshot stores the latest state and records the final score once
// per game over.
func (m *Model) handleSnapshot(snap session.Snapshot) {
	m.snap = snap
	if snap.State != session.GameOver {
		m.recorded = false
		return
	}
	if m.recorded {
		return
	}
	m.recorded = true
	if m.store == nil || snap.Score == 0 {
		return
	}
	if _, err := m.store.SaveScore(m.gameID, snap.Score); err != nil {
		m.logger.Warn("could not record score", "game", m.gameID, "score", snap.Score, "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	DrawBoard(m.screen, m.snap, m.title)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if the user asked to exit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked for the difficulty menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Close detaches the model from its session.
func (m Model) Close() {
	m.feed.Close()
}

// Run plays one session in the terminal until the user quits or goes back.
// It reports whether the user asked to return to the menu.
func Run(opts PlayOptions) (backToMenu bool, err error) {
	model := NewModel(opts)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
