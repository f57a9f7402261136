package services

import (
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamehost/internal/lifecycle"
	"github.com/vovakirdan/gamehost/internal/storage"
	"github.com/vovakirdan/gamehost/internal/uithread"
)

// ErrNotSignedIn is returned when the leaderboard service is disconnected.
var ErrNotSignedIn = errors.New("leaderboards: not signed in")

// LocalLeaderboards keeps boards in the local SQLite database. It is
// connected between OnStart and OnStop.
type LocalLeaderboards struct {
	lifecycle.Base

	store  *storage.Store
	ui     uithread.Poster
	show   func(board string, entries []storage.ScoreEntry)
	player string
	board  string
	limit  int
	logger *log.Logger

	connected atomic.Bool
}

// NewLocalLeaderboards creates the leaderboard service.
func NewLocalLeaderboards(env Env, logger *log.Logger) *LocalLeaderboards {
	board := env.Config.Leaderboards.Default
	if board == "" {
		board = "default"
	}
	return &LocalLeaderboards{
		store:  env.Store,
		ui:     env.UI,
		show:   env.ShowLeaderboard,
		player: env.Player,
		board:  board,
		limit:  env.Config.Leaderboards.Limit,
		logger: logger,
	}
}

func (l *LocalLeaderboards) OnStart() {
	if l.store == nil {
		return
	}
	l.connected.Store(true)
	l.logger.Debug("connected")
}

func (l *LocalLeaderboards) OnStop() {
	l.connected.Store(false)
	l.logger.Debug("disconnected")
}

// IsAuthenticated reports whether scores can be submitted.
func (l *LocalLeaderboards) IsAuthenticated() bool {
	return l.connected.Load()
}

// DefaultBoard returns the board used when none is named.
func (l *LocalLeaderboards) DefaultBoard() string {
	return l.board
}

func (l *LocalLeaderboards) resolve(board string) string {
	if board == "" {
		return l.board
	}
	return board
}

// SubmitScore records score on board. Submissions while disconnected are
// dropped with ErrNotSignedIn.
func (l *LocalLeaderboards) SubmitScore(board string, score int) error {
	if !l.IsAuthenticated() {
		l.logger.Warn("score not submitted", "board", l.resolve(board), "error", ErrNotSignedIn)
		return ErrNotSignedIn
	}
	board = l.resolve(board)
	if _, err := l.store.SaveScore(board, l.player, score); err != nil {
		l.logger.Error("cannot submit score", "board", board, "error", err)
		return err
	}
	l.logger.Debug("score submitted", "board", board, "score", score)
	return nil
}

// Top returns the best entries on board.
func (l *LocalLeaderboards) Top(board string) ([]storage.ScoreEntry, error) {
	if l.store == nil {
		return nil, ErrNotSignedIn
	}
	return l.store.TopScores(l.resolve(board), l.limit)
}

// Open asks the host to display board.
func (l *LocalLeaderboards) Open(board string) error {
	if !l.IsAuthenticated() {
		return ErrNotSignedIn
	}
	board = l.resolve(board)
	entries, err := l.Top(board)
	if err != nil {
		return err
	}
	if l.show == nil {
		l.logger.Warn("no leaderboard viewer", "board", board)
		return nil
	}
	l.ui.Post(func() { l.show(board, entries) })
	return nil
}
