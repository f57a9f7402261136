package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamehost/internal/storage"
)

var flagPrefType string

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and edit stored preferences",
	Long: `Preferences are the typed key/value pairs apps and services keep in the
database, such as the rate-app counters or purchase flags.

Examples:
  gamehost prefs list
  gamehost prefs get store.launches
  gamehost prefs set tapper.sound false --type bool
  gamehost prefs rm tapper.sound
  gamehost prefs clear`,
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every preference with its type and value",
	Args:  cobra.NoArgs,
	RunE: withPrefs(func(store *storage.Store, _ []string) error {
		keys, err := store.Keys()
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Println("No preferences stored.")
			return nil
		}
		width := 3
		for _, k := range keys {
			width = max(width, len(k))
		}
		for _, k := range keys {
			kind, value, err := readPref(store, k)
			if err != nil {
				return err
			}
			fmt.Printf("  %-*s  %-6s  %s\n", width, k, kind, value)
		}
		return nil
	}),
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	RunE: withPrefs(func(store *storage.Store, args []string) error {
		kind, value, err := readPref(store, args[0])
		if err != nil {
			return err
		}
		if kind == storage.PrefNone {
			return fmt.Errorf("no preference %q", args[0])
		}
		fmt.Println(value)
		return nil
	}),
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a preference",
	Args:  cobra.ExactArgs(2),
	RunE: withPrefs(func(store *storage.Store, args []string) error {
		return writePref(store, args[0], args[1], flagPrefType)
	}),
}

var prefsRemoveCmd = &cobra.Command{
	Use:     "rm <key>",
	Aliases: []string{"remove"},
	Short:   "Remove a preference",
	Args:    cobra.ExactArgs(1),
	RunE: withPrefs(func(store *storage.Store, args []string) error {
		return store.Remove(args[0])
	}),
}

var prefsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every preference",
	Args:  cobra.NoArgs,
	RunE: withPrefs(func(store *storage.Store, _ []string) error {
		return store.Clear()
	}),
}

func init() {
	prefsSetCmd.Flags().StringVar(&flagPrefType, "type", "string", "Value type: string, int, float, bool")

	prefsCmd.AddCommand(prefsListCmd)
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsRemoveCmd)
	prefsCmd.AddCommand(prefsClearCmd)
}

// withPrefs opens the configured database around fn.
func withPrefs(fn func(store *storage.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()
		return fn(store, args)
	}
}

// readPref returns the stored type of key and its value formatted as text.
func readPref(p storage.Prefs, key string) (storage.PrefType, string, error) {
	kind, err := p.Type(key)
	if err != nil {
		return storage.PrefNone, "", err
	}

	switch kind {
	case storage.PrefString:
		v, err := p.GetString(key)
		return kind, v, err
	case storage.PrefInt:
		v, err := p.GetInt(key)
		return kind, strconv.Itoa(v), err
	case storage.PrefFloat:
		v, err := p.GetFloat(key)
		return kind, strconv.FormatFloat(v, 'g', -1, 64), err
	case storage.PrefBool:
		v, err := p.GetBool(key)
		return kind, strconv.FormatBool(v), err
	}
	return storage.PrefNone, "", nil
}

// writePref parses value as kind and stores it under key.
func writePref(p storage.Prefs, key, value, kind string) error {
	switch strings.ToLower(kind) {
	case "string", "str", "":
		return p.SetString(key, value)
	case "int":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid int %q", value)
		}
		return p.SetInt(key, v)
	case "float":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q", value)
		}
		return p.SetFloat(key, v)
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool %q", value)
		}
		return p.SetBool(key, v)
	}
	return fmt.Errorf("unknown type %q (want string, int, float or bool)", kind)
}
