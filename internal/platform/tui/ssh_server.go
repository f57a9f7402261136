package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
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

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/host"
	"github.com/vovakirdan/gamehost/internal/registry"
	"github.com/vovakirdan/gamehost/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key is generated in the configured storage directory.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Host is the configuration every session's host is created with.
	// Defaults to config.Default().
	Host *config.Config
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves the app menu over SSH, one host per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if cfg.Host == nil {
		def := config.Default()
		cfg.Host = &def
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gamehost-ssh",
		})
	}

	// Open storage
	var store *storage.Store
	dbPath, err := cfg.Host.DatabasePath()
	if err == nil {
		store, err = storage.Open(dbPath)
	}
	if err != nil {
		logger.Warn("could not open database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir, dirErr := cfg.Host.StoragePath()
		if dirErr != nil {
			return nil, fmt.Errorf("cannot resolve storage directory: %w", dirErr)
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(sshSession.Context(), Options{
		Config: s.config.Host,
		Store:  s.store,
		Logger: s.logger.With("user", sshSession.User()),
		Player: sshSession.User(),
		Locale: host.LocaleFromEnv(sshSession.Environ()),
		Output: sshSession,
		Remote: true,
	}, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
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

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full session flow: menu -> app -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	ctx     context.Context
	opts    Options
	width   int
	height  int
	menu    MenuModel
	board   *ScoreboardModel
	app     *Model
	cancel  context.CancelFunc
	lastErr string

	quitting bool
}

// NewSessionModel creates a new session model. Every app picked from the
// menu gets its own host built from opts; hosts still running when ctx ends
// are finished.
func NewSessionModel(ctx context.Context, opts Options, width, height int) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		ctx:    ctx,
		opts:   opts,
		width:  width,
		height: height,
		menu:   NewMenuModel(width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch {
	case m.app != nil:
		return m.updateApp(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.menu = NewMenuModel(m.width, m.height)
		var boards []string
		if m.opts.Store != nil {
			boards, _ = m.opts.Store.Boards()
		}
		sb := NewScoreboardModel(m.opts.Store, boards, m.width, m.height)
		sb.embedded = true
		m.board = &sb
		return m, nil
	}

	if selected := m.menu.Selected(); selected != nil {
		m.menu = NewMenuModel(m.width, m.height)
		return m.startApp(selected.AppID)
	}

	return m, cmd
}

func (m SessionModel) startApp(id string) (tea.Model, tea.Cmd) {
	factory, err := registry.FactoryFor(id)
	if err != nil {
		m.lastErr = err.Error()
		return m, nil
	}

	t, err := NewTerminal(factory, m.opts)
	if err != nil {
		m.opts.Logger.Error("cannot start app", "app", id, "error", err)
		m.lastErr = err.Error()
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	t.Start(ctx)
	t.Host().Resize(m.width, m.height)

	app := newEmbeddedModel(t, m.width, m.height)
	m.app = &app
	m.cancel = cancel
	m.lastErr = ""
	return m, app.Init()
}

// updateApp handles updates while an app is running.
func (m SessionModel) updateApp(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.app.Update(msg)
	app := newModel.(Model)
	m.app = &app

	if app.Finished() {
		m.cancel()
		m.app = nil
		m.cancel = nil
		return m, nil
	}
	return m, cmd
}

// updateBoard handles updates while the scoreboard is shown.
func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	sb := newBoard.(ScoreboardModel)
	switch {
	case sb.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case sb.IsGoingBack():
		m.board = nil
		return m, nil
	}
	m.board = &sb
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.app != nil:
		return m.app.View()
	case m.board != nil:
		return m.board.View()
	}
	if m.lastErr != "" {
		return m.menu.View() + "\n" + centerText("error: "+m.lastErr, m.width)
	}
	return m.menu.View()
}
