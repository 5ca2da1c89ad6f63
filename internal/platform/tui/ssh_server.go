package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/clock"
	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Snake is the game configuration every connection plays with.
	Snake config.SnakeConfig

	// Logger defaults to stderr with an "snake-ssh" prefix.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/scores.db",
		IdleTimeout: 30 * time.Minute,
		Snake:       config.DefaultSnakeConfig(),
	}
}

// SSHServer serves the game over SSH. Every connection gets its own
// session; all sessions share one real-time clock and the score store.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	clock    *clock.Ticker
	sessions *session.Registry
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake-ssh",
		})
	}

	// Fail early on a config no session could be built from.
	for _, p := range config.Presets() {
		if _, err := snake.RulesForPreset(cfg.Snake, p); err != nil {
			return nil, fmt.Errorf("invalid snake config for %s: %w", p, err)
		}
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		clock:    clock.NewTicker(),
		sessions: session.NewRegistry(),
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// connID names the game session of one SSH connection.
func connID(s ssh.Session) string {
	return fmt.Sprintf("%s@%s", s.User(), s.RemoteAddr())
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		Seed:    time.Now().UnixNano(),
	}

	id := connID(sshSession)
	model := NewConnectionModel(s.store, cfg, func(p config.DifficultyPreset) (*session.Session, error) {
		return s.startSession(id, sshSession.User(), p)
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// startSession replaces the connection's game session with a fresh one.
func (s *SSHServer) startSession(id, user string, preset config.DifficultyPreset) (*session.Session, error) {
	s.endSession(id)

	rules, err := snake.RulesForPreset(s.config.Snake, preset)
	if err != nil {
		return nil, err
	}

	opts := session.Options{
		Rules:  rules,
		Seed:   time.Now().UnixNano(),
		Clock:  s.clock,
		Logger: s.logger.With("user", user, "difficulty", string(preset)),
	}
	if s.store != nil {
		opts.Store = s.store.HighScores(config.GameID(preset))
	}

	sess, err := session.New(opts)
	if err != nil {
		return nil, err
	}
	if prev := s.sessions.Register(id, sess); prev != nil {
		prev.Close()
	}
	return sess, nil
}

// endSession closes and forgets the connection's game session, if any.
func (s *SSHServer) endSession(id string) {
	if sess, ok := s.sessions.Remove(id); ok {
		sess.Close()
	}
}

// sessionMiddleware logs connections and releases the game session when
// the client goes away.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := connID(sshSession)
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.endSession(id)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.sessions.Count(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops the server, then every game session, then storage.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.sessions.CloseAll()
	s.clock.Stop()
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionFactory starts a game session for the chosen difficulty.
type SessionFactory func(config.DifficultyPreset) (*session.Session, error)

// ConnectionModel runs the full flow of one connection: difficulty menu,
// game, scoreboard and back.
type ConnectionModel struct {
	store    *storage.Store
	config   core.RuntimeConfig
	start    SessionFactory
	menu     DifficultyModel
	game     *Model
	scores   *ScoreboardModel
	err      error
	quitting bool
}

// NewConnectionModel creates a connection model starting at the menu.
func NewConnectionModel(store *storage.Store, cfg core.RuntimeConfig, start SessionFactory) ConnectionModel {
	return ConnectionModel{
		store:  store,
		config: cfg,
		start:  start,
		menu:   newEmbeddedMenu(cfg),
	}
}

func newEmbeddedMenu(cfg core.RuntimeConfig) DifficultyModel {
	m := NewDifficultyModel(cfg.ScreenW, cfg.ScreenH)
	m.embedded = true
	return m
}

// Init initializes the connection.
func (m ConnectionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the connection.
func (m ConnectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.scores != nil:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m ConnectionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.menu.Update(msg)
	if menu, ok := updated.(DifficultyModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScores():
		sb := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		sb.embedded = true
		m.scores = &sb
		m.menu = newEmbeddedMenu(m.config)
		return m, nil

	case m.menu.Selected() != nil:
		preset := *m.menu.Selected()
		m.menu = newEmbeddedMenu(m.config)

		sess, err := m.start(preset)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		game := NewModel(PlayOptions{
			Session: sess,
			Store:   m.store,
			GameID:  config.GameID(preset),
			Title:   "SNAKE " + string(preset),
			Config:  m.config,
		})
		game.embedded = true
		m.game = &game
		return m, m.game.Init()
	}

	return m, cmd
}

func (m ConnectionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.game.Update(msg)
	if game, ok := updated.(Model); ok {
		m.game = &game
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		m.game.Close()
		m.game = nil
		return m, nil
	}
	return m, cmd
}

func (m ConnectionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.scores.Update(msg)
	if sb, ok := updated.(ScoreboardModel); ok {
		m.scores = &sb
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.scores = nil
		return m, nil
	}
	return m, cmd
}

// View renders the current screen.
func (m ConnectionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.game != nil:
		return m.game.View()
	case m.scores != nil:
		return m.scores.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n\n" + centerText("could not start game: "+m.err.Error(), m.config.ScreenW)
	}
	return view
}
