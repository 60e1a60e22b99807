package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilequest/internal/platform/tui"
	"github.com/vovakirdan/tilequest/internal/storage"
)

var (
	flagSlot   string
	flagMap    string
	flagConfig string
	flagPace   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Tile Quest in this terminal",
	Long: `Start the game. Without --slot the title screen lets you start a new
game or continue a saved one.

Controls:
  WASD/arrows  move (walking into a wall turns to face it)
  E/space      gather from or use the tile you face
  I / O        inventory / equipment
  ctrl+s       save
  P            pause, then esc to return to the title
  Q            save and quit

Examples:
  tilequest play
  tilequest play --slot main
  tilequest play --pace relaxed --seed 42
  tilequest play --config ./quest.yaml --map quarry`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSlot, "slot", "", "Save slot to continue (a new game starts if it does not exist)")
	playCmd.Flags().StringVar(&flagMap, "map", "", "Start map for new games (overrides config)")
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a quest config file")
	playCmd.Flags().StringVar(&flagPace, "pace", "normal", "Pace preset: relaxed, normal, hardcore")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadQuest(flagConfig, flagPace)
	if err != nil {
		fatal("%v", err)
	}
	if flagMap != "" {
		cfg.World.StartMap = flagMap
	}

	maps, err := loadMaps(cfg.World.MapDir)
	if err != nil {
		fatal("%v", err)
	}
	if _, ok := maps[cfg.World.StartMap]; !ok {
		fatal("unknown start map %q", cfg.World.StartMap)
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	var store storage.Store
	if s, err := storage.Open(flagDB); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		fmt.Fprintln(os.Stderr, "Saving is disabled for this session.")
	} else {
		store = s
		defer store.Close()
	}

	opts := tui.Options{
		Store:   store,
		Config:  cfg,
		Maps:    maps,
		Runtime: runtimeConfig(),
		Slot:    flagSlot,
		Logger:  logger,
	}
	if err := tui.Run(opts); err != nil {
		fatal("%v", err)
	}
}
