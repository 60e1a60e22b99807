// tilequest is a tile-based gathering RPG played in the terminal.
//
// Usage:
//
//	tilequest play                 - Play (title screen, or --slot to jump in)
//	tilequest serve                - Start SSH server for remote play
//	tilequest saves                - List, delete, export and import saves
//	tilequest maps                 - List maps
//	tilequest maps validate <dir>  - Check map files, optionally on every change
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <dsn>           - SQLite path or postgres:// DSN (default: ~/.tilequest/saves.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDB       string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilequest",
	Short: "Tile Quest - chop, mine and fish in your terminal",
	Long: `Tile Quest is a terminal RPG about gathering: walk a tile map, cut
trees, mine rocks and fish until your skills level up.

Available commands:
  play     - Start playing
  serve    - Start SSH server for remote play
  saves    - Manage save slots
  maps     - List and validate maps

Examples:
  tilequest play
  tilequest play --slot main --pace relaxed
  tilequest serve --ssh :2222
  tilequest saves export main ./main.json
  tilequest maps validate ./maps --watch`,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return checkFPS(flagFPS)
	},
}

// checkFPS rejects tick rates that would leave a tick without simulated time.
func checkFPS(fps int) error {
	if fps < 1 || fps > core.MaxTickRate {
		return fmt.Errorf("--fps must be between 1 and %d, got %d", core.MaxTickRate, fps)
	}
	return nil
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", storage.DefaultPath, "Save database: SQLite path or postgres:// DSN")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(mapsCmd)
}
