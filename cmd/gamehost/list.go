package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamehost/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available apps",
	Long:  `Shows a list of all engine cores registered with the host.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	apps := registry.List()

	if len(apps) == 0 {
		fmt.Println("No apps available.")
		return
	}

	fmt.Println("Available apps:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, a := range apps {
		maxIDLen = max(maxIDLen, len(a.ID))
		maxTitleLen = max(maxTitleLen, len(a.Title))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Description")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----------")

	for _, a := range apps {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, a.ID, maxTitleLen, a.Title, a.Description)
	}

	fmt.Println()
	fmt.Println("Run 'gamehost run <id>' to start an app.")
}
