package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilequest/internal/content"
	"github.com/vovakirdan/tilequest/internal/world"
)

var (
	flagMapsDir string
	flagWatch   bool
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List available maps",
	Long: `List the built-in maps, plus the maps in --dir when given.

Examples:
  tilequest maps
  tilequest maps --dir ./maps
  tilequest maps validate ./maps
  tilequest maps validate ./maps --watch`,
	Args: cobra.NoArgs,
	Run:  runMapsList,
}

var mapsValidateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check the map files in a directory",
	Long: `Parse and check every map file in a directory: tiles, spawn point,
object placement and portal destinations. Portals may lead to built-in maps.

With --watch the directory is checked again whenever a map file changes,
until Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	Run:  runMapsValidate,
}

func init() {
	mapsCmd.Flags().StringVar(&flagMapsDir, "dir", "", "Extra map directory")
	mapsValidateCmd.Flags().BoolVar(&flagWatch, "watch", false, "Check again on every change")
	mapsCmd.AddCommand(mapsValidateCmd)
}

func runMapsList(_ *cobra.Command, _ []string) {
	maps, err := loadMaps(flagMapsDir)
	if err != nil {
		fatal("%v", err)
	}

	ids := make([]string, 0, len(maps))
	for id := range maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("Available maps:")
	fmt.Println()
	for _, id := range ids {
		f := maps[id]
		source := f.FilePath
		if source == "" {
			source = "built-in"
		}
		width := 0
		if len(f.Rows) > 0 {
			width = len([]rune(f.Rows[0]))
		}
		fmt.Printf("  %-12s  %-22s  %3dx%-3d  %s\n", id, f.Name, width, len(f.Rows), source)
	}
	fmt.Println()
	fmt.Println("Start on a map with: tilequest play --map <id>")
}

// mapProblem is one problem found in one file.
type mapProblem struct {
	File string
	Err  error
}

// validateDir checks every map file under dir. It returns the number of
// files checked and every problem found.
func validateDir(dir string) (int, []mapProblem, error) {
	index, err := world.NewLoader("").LoadIndex()
	if err != nil {
		return 0, nil, err
	}

	loader := world.NewLoader(dir)
	var files []world.MapFile
	var problems []mapProblem
	checked := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !world.IsMapFile(path) {
			return nil
		}
		checked++
		f, err := loader.LoadFile(path)
		if err != nil {
			problems = append(problems, mapProblem{File: path, Err: err})
			return nil
		}
		if prev, dup := index[f.ID]; dup && prev.FilePath != "" {
			problems = append(problems, mapProblem{File: path, Err: fmt.Errorf("map id %q is also used by %s", f.ID, prev.FilePath)})
			return nil
		}
		index[f.ID] = f
		files = append(files, f)
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	catalog := content.Default()
	for _, f := range files {
		for _, e := range world.Validate(f, catalog, index) {
			problems = append(problems, mapProblem{File: f.FilePath, Err: e})
		}
	}
	return checked, problems, nil
}

// reportValidation prints the result and reports whether the maps are valid.
func reportValidation(dir string) bool {
	checked, problems, err := validateDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	for _, p := range problems {
		fmt.Printf("%s: %v\n", p.File, p.Err)
	}
	if len(problems) == 0 {
		fmt.Printf("%d map file(s) OK\n", checked)
		return true
	}
	fmt.Printf("%d problem(s) in %d map file(s)\n", len(problems), checked)
	return false
}

func runMapsValidate(_ *cobra.Command, args []string) {
	dir := args[0]
	ok := reportValidation(dir)
	if !flagWatch {
		if !ok {
			os.Exit(1)
		}
		return
	}

	watcher, err := world.NewWatcher(dir)
	if err != nil {
		fatal("watching %s: %v", dir, err)
	}
	defer watcher.Close()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			fmt.Println()
			fmt.Printf("%s changed\n", path)
			reportValidation(dir)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		case <-done:
			return
		}
	}
}
