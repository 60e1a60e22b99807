package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tilequest/internal/config"
	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/core"
	"github.com/vovakirdan/tilequest/internal/world"
)

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilequest",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.tilequest/tilequest.log; the TUI owns the terminal.
// It falls back to discarding logs if the file cannot be opened.
func fileLogger() (*log.Logger, func()) {
	path := config.DataPath("tilequest.log")
	if path == "" {
		return log.New(io.Discard), func() {}
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// loadQuest loads the game config and applies a pace preset.
func loadQuest(path, pace string) (config.QuestConfig, error) {
	cfg, err := config.LoadQuest(path)
	if err != nil {
		return cfg, err
	}
	preset, err := config.ParsePace(pace)
	if err != nil {
		return cfg, err
	}
	config.ApplyPacePreset(&cfg, preset)
	return cfg, nil
}

// loadMaps returns the built-in maps merged with the maps under dir. Maps in
// dir replace built-ins with the same ID. Every map must validate.
func loadMaps(dir string) (map[string]world.MapFile, error) {
	maps, err := world.NewLoader("").LoadIndex()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return maps, nil
	}

	custom, err := world.NewLoader(dir).LoadAll()
	if err != nil {
		return nil, err
	}
	for _, f := range custom {
		maps[f.ID] = f
	}

	var errs []error
	for _, f := range custom {
		errs = append(errs, world.Validate(f, content.Default(), maps)...)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid maps in %s: %w", dir, errors.Join(errs...))
	}
	return maps, nil
}

// runtimeConfig builds the runtime config from the global flags and the
// terminal size.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
