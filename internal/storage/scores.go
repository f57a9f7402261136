package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// ScoreEntry is a single leaderboard record.
type ScoreEntry struct {
	ID        int64
	Board     string
	Player    string
	Score     int
	CreatedAt time.Time
}

// BoardStats contains aggregated statistics for a leaderboard.
type BoardStats struct {
	Board      string
	Entries    int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// SaveScore records a new score on the given board.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(board, player string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (board, player, score) VALUES (?, ?, ?)",
		board, player, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the board, highest first.
func (s *Store) TopScores(board string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, board, player, score, created_at
		 FROM scores
		 WHERE board = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		board, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Board, &e.Player, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score on the board, or 0 if it is empty.
func (s *Store) HighScore(board string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE board = ?", board).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Boards lists every board that has at least one score, sorted by name.
func (s *Store) Boards() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT board FROM scores ORDER BY board")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list boards: %w", err)
	}
	defer rows.Close()

	var boards []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// ClearScores deletes all scores on the board.
func (s *Store) ClearScores(board string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE board = ?", board); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats returns aggregated statistics for the board.
func (s *Store) Stats(board string) (*BoardStats, error) {
	stats := &BoardStats{Board: board}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM scores WHERE board = ?`,
		board,
	).Scan(&stats.Entries, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}
