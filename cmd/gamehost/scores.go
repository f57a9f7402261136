package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamehost/internal/platform/tui"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [board]",
	Short: "Show leaderboard scores",
	Long: `Display the top scores of a leaderboard, or list the boards that have
scores when no board is given.

Examples:
  gamehost scores
  gamehost scores tapper
  gamehost scores tapper --limit 25
  gamehost scores --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse boards interactively")
}

func runScores(cmd *cobra.Command, args []string) error {
	var board string
	if len(args) > 0 {
		board = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		width, height := terminalSize()
		return tui.RunScoreboard(store, board, width, height)
	}

	if board == "" {
		boards, err := store.Boards()
		if err != nil {
			return err
		}
		if len(boards) == 0 {
			fmt.Println("No scores recorded yet.")
			return nil
		}
		fmt.Println("Leaderboards:")
		fmt.Println()
		for _, b := range boards {
			stats, err := store.Stats(b)
			if err != nil {
				return err
			}
			fmt.Printf("  %-16s  %d scores, best %d\n", b, stats.Entries, stats.HighScore)
		}
		fmt.Println()
		fmt.Println("Run 'gamehost scores <board>' to see a board.")
		return nil
	}

	scores, err := store.TopScores(board, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", board)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, entry.Player, entry.Score, dateStr)
	}
	return nil
}
