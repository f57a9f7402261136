package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamehost/internal/config"
	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/dialog"
	"github.com/vovakirdan/gamehost/internal/engine"
	"github.com/vovakirdan/gamehost/internal/host"
	"github.com/vovakirdan/gamehost/internal/registry"
	"github.com/vovakirdan/gamehost/internal/storage"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

// finishTimeout bounds how long a cancelled terminal waits for the host to
// walk down to destroy.
const finishTimeout = 2 * time.Second

// ErrBusy is returned by the presenter when the model is not keeping up.
var ErrBusy = errors.New("tui: too many pending messages")

// Options configures a Terminal.
type Options struct {
	Config *config.Config
	Store  *storage.Store
	Logger *log.Logger
	Player string
	Locale string

	// Output receives OSC 52 clipboard sequences. Defaults to stdout.
	Output io.Writer

	// Remote terminals cannot open links on the user's machine; links are
	// shown on the status line instead.
	Remote bool

	ui uithread.Poster
}

type (
	frameMsg       struct{ screen *core.Screen }
	dialogMsg      struct{ d *dialog.Dialog }
	leaderboardMsg struct {
		board   string
		entries []storage.ScoreEntry
	}
	noticeMsg string
	doneMsg   struct{}
)

// Terminal runs one host behind a Bubble Tea program. The render goroutine
// hands finished frames over a one-slot channel, so a slow terminal only
// ever sees the newest frame.
type Terminal struct {
	host    *host.Host
	logger  *log.Logger
	frames  chan *core.Screen
	events  chan tea.Msg
	screen  *core.Screen // render goroutine only
	stopped chan struct{}
}

// NewTerminal creates the host for factory and wires its outputs to the terminal.
func NewTerminal(factory registry.Factory, opts Options) (*Terminal, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	t := &Terminal{
		logger:  opts.Logger.WithPrefix("tui"),
		frames:  make(chan *core.Screen, 1),
		events:  make(chan tea.Msg, 32),
		stopped: make(chan struct{}),
	}

	openURL := host.OpenURL
	if opts.Remote {
		openURL = func(url string) error {
			t.post(noticeMsg("open " + url))
			return nil
		}
	}

	h, err := host.New(factory, host.Options{
		Config:    opts.Config,
		Store:     opts.Store,
		Logger:    opts.Logger,
		UI:        opts.ui,
		Presenter: dialog.PresenterFunc(t.present),
		Notify: func(message string) {
			t.post(noticeMsg(message))
		},
		ShowLeaderboard: func(board string, entries []storage.ScoreEntry) {
			t.post(leaderboardMsg{board: board, entries: entries})
		},
		Clipboard: opts.Output,
		OpenURL:   openURL,
		Player:    opts.Player,
		Locale:    opts.Locale,
	})
	if err != nil {
		return nil, err
	}
	t.host = h
	h.View().Controller().OnFrame(t.publish)
	return t, nil
}

// Host returns the hosted application root.
func (t *Terminal) Host() *host.Host {
	return t.host
}

func (t *Terminal) post(msg tea.Msg) bool {
	select {
	case t.events <- msg:
		return true
	default:
		t.logger.Warn("dropping message", "type", fmt.Sprintf("%T", msg))
		return false
	}
}

func (t *Terminal) present(d *dialog.Dialog) error {
	if !t.post(dialogMsg{d: d}) {
		return ErrBusy
	}
	return nil
}

// publish runs on the render goroutine after every frame.
func (t *Terminal) publish() {
	r, ok := t.host.Engine().(engine.Renderer)
	if !ok {
		return
	}
	p := t.host.View().Controller().Params()
	if t.screen == nil {
		t.screen = core.NewScreen(p.Width, p.Height)
	} else {
		t.screen.Resize(p.Width, p.Height)
	}
	t.screen.Clear()
	r.Render(t.screen)
	frame := t.screen.Clone()

	select {
	case <-t.frames:
	default:
	}
	select {
	case t.frames <- frame:
	default:
	}
}

// Start runs the host and reports it visible and focused. When ctx ends the
// host is finished the way a closed window would be.
func (t *Terminal) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(t.stopped)
		defer cancel()
		err := t.host.Run(runCtx)
		if err != nil && !errors.Is(err, host.ErrFinished) && !errors.Is(err, context.Canceled) {
			t.logger.Error("host stopped", "error", err)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			t.host.Finish()
			select {
			case <-t.host.Done():
			case <-time.After(finishTimeout):
				t.logger.Warn("host did not finish in time")
			}
			cancel()
		case <-t.stopped:
		}
	}()

	t.host.Start()
	t.host.Resume()
	t.host.RecreateSurface()
}

// Wait blocks until the host started by Start has stopped running.
func (t *Terminal) Wait() {
	<-t.stopped
}

// wait delivers the next frame, host message or shutdown to the model.
func (t *Terminal) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-t.frames:
			return frameMsg{screen: s}
		case msg := <-t.events:
			return msg
		case <-t.host.Done():
			return doneMsg{}
		}
	}
}

// Model is the Bubble Tea model that plays the window system for a host.
type Model struct {
	term     *Terminal
	keys     HostKeyMap
	help     help.Model
	pointers *pointers

	frame    *core.Screen
	width    int
	height   int
	dialogs  []*dialog.Dialog
	board    *ScoreboardModel
	toast    string
	toastID  int
	showHelp bool
	quitting bool
	finished bool
	embedded bool // Another model owns the program; never send tea.Quit
}

// NewModel creates the model for an already started terminal.
func NewModel(t *Terminal) Model {
	return Model{
		term:     t,
		keys:     DefaultHostKeyMap(),
		help:     help.New(),
		pointers: &pointers{},
	}
}

// newEmbeddedModel creates a model that reports Finished instead of quitting
// the program when the host goes away.
func newEmbeddedModel(t *Terminal, width, height int) Model {
	m := NewModel(t)
	m.embedded = true
	m.width, m.height = width, height
	m.help.Width = width
	return m
}

// Finished reports whether the hosted app was destroyed.
func (m Model) Finished() bool {
	return m.finished
}

// Init starts listening for host output.
func (m Model) Init() tea.Cmd {
	return m.term.wait()
}

// Update handles messages from the terminal and from the host.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	h := m.term.host

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		h.Resize(msg.Width, msg.Height)
		if m.board != nil {
			b, _ := m.board.Update(msg)
			sb := b.(ScoreboardModel)
			m.board = &sb
		}
		return m, nil

	case tea.FocusMsg:
		h.Resume()
		return m, nil

	case tea.BlurMsg:
		h.Pause()
		return m, nil

	case tea.MouseMsg:
		if m.topDialog() != nil || m.board != nil {
			return m, nil
		}
		if ev, ok := m.pointers.handle(msg); ok {
			h.Touch(ev)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.frame = msg.screen
		return m, m.term.wait()

	case dialogMsg:
		if ev, ok := m.pointers.cancel(); ok {
			h.Touch(ev)
		}
		m.dialogs = append(m.dialogs, msg.d)
		return m, m.term.wait()

	case leaderboardMsg:
		if ev, ok := m.pointers.cancel(); ok {
			h.Touch(ev)
		}
		b := NewBoardView(msg.board, msg.entries, m.width, m.height)
		m.board = &b
		return m, m.term.wait()

	case noticeMsg:
		m.toastID++
		m.toast = string(msg)
		return m, tea.Batch(m.term.wait(), expireCmd(m.toastID, toastTTL))

	case expireMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case doneMsg:
		m.finished = true
		if m.embedded {
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := m.term.host

	if key.Matches(msg, m.keys.Quit) {
		h.Finish()
		if m.embedded {
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if m.board != nil {
		b, cmd := m.board.Update(msg)
		sb := b.(ScoreboardModel)
		if sb.IsGoingBack() {
			m.board = nil
			return m, nil
		}
		m.board = &sb
		return m, cmd
	}

	if d := m.topDialog(); d != nil {
		switch {
		case key.Matches(msg, m.keys.Yes):
			d.Confirm()
		case key.Matches(msg, m.keys.No):
			if d.Kind == dialog.KindConfirm {
				d.Cancel()
			}
		case key.Matches(msg, m.keys.Back):
			d.Dismiss()
		}
		m.dialogs = pending(m.dialogs)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		h.BackPressed()
	case key.Matches(msg, m.keys.Recreate):
		h.RecreateSurface()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// topDialog returns the oldest dialog still waiting for the user.
func (m *Model) topDialog() *dialog.Dialog {
	m.dialogs = pending(m.dialogs)
	if len(m.dialogs) == 0 {
		return nil
	}
	return m.dialogs[0]
}

// pending drops dialogs that were resolved, by the user or by the host.
func pending(ds []*dialog.Dialog) []*dialog.Dialog {
	out := ds[:0]
	for _, d := range ds {
		if !d.Resolved() {
			out = append(out, d)
		}
	}
	return out
}

// View renders the newest frame with dialogs and notices on top.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View()
	}
	if m.frame == nil {
		return centerText("waiting for the first frame...", m.width)
	}

	frame := m.frame.Clone()
	for _, d := range m.dialogs {
		if !d.Resolved() {
			drawDialog(frame, d)
			break
		}
	}
	if m.toast != "" {
		drawStatus(frame, " "+m.toast, core.ColorBrightYellow)
	}

	out := RenderScreen(frame)
	if m.showHelp {
		lines := strings.Split(out, "\n")
		lines[len(lines)-1] = m.help.View(m.keys)
		out = strings.Join(lines, "\n")
	}
	return out
}

// Run hosts the app built by factory in the current terminal until the user
// quits, the app finishes or ctx is cancelled.
func Run(ctx context.Context, factory registry.Factory, opts Options) error {
	t, err := NewTerminal(factory, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	t.Start(ctx)

	p := tea.NewProgram(
		NewModel(t),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err = p.Run()
	cancel()
	t.Wait()
	return err
}
