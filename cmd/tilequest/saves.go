package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilequest/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved games",
	Long: `List every save slot, most recently saved first.

Subcommands manage single slots:
  tilequest saves show <slot>            - Show a slot and what it has gathered
  tilequest saves delete <slot>          - Delete a slot
  tilequest saves export <slot> <file>   - Write a slot to a JSON file
  tilequest saves import <file>          - Load a slot from a JSON file`,
	Args: cobra.NoArgs,
	Run:  runSavesList,
}

var savesShowCmd = &cobra.Command{
	Use:   "show <slot>",
	Short: "Show one save slot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesShow,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a save slot",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

var savesExportCmd = &cobra.Command{
	Use:   "export <slot> <file>",
	Short: "Export a save slot to a JSON file",
	Args:  cobra.ExactArgs(2),
	Run:   runSavesExport,
}

var savesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a save slot from a JSON file",
	Long: `Import a save exported with 'tilequest saves export'. An existing slot
with the same name is overwritten.`,
	Args: cobra.ExactArgs(1),
	Run:  runSavesImport,
}

func init() {
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesDeleteCmd)
	savesCmd.AddCommand(savesExportCmd)
	savesCmd.AddCommand(savesImportCmd)
}

func openStore() storage.Store {
	store, err := storage.Open(flagDB)
	if err != nil {
		fatal("opening save database: %v", err)
	}
	return store
}

func runSavesList(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	saves, err := store.ListSaves()
	if err != nil {
		fatal("listing saves: %v", err)
	}

	if len(saves) == 0 {
		fmt.Println("No saved games yet.")
		fmt.Println()
		fmt.Println("Run 'tilequest play' and press ctrl+s to save.")
		return
	}

	fmt.Printf("  %-24s  %-12s  %-12s  %-5s  %s\n", "Slot", "Player", "Map", "Total", "Saved")
	fmt.Printf("  %-24s  %-12s  %-12s  %-5s  %s\n", "----", "------", "---", "-----", "-----")
	for _, rec := range saves {
		fmt.Printf("  %-24s  %-12s  %-12s  %-5d  %s\n",
			rec.Slot, rec.Player, rec.Map, rec.TotalLevel, rec.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesShow(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	rec := loadSlot(store, args[0])
	fmt.Printf("Slot:    %s\n", rec.Slot)
	fmt.Printf("ID:      %s\n", rec.ID)
	fmt.Printf("Player:  %s\n", rec.Player)
	fmt.Printf("Map:     %s\n", rec.Map)
	fmt.Printf("Total:   %d\n", rec.TotalLevel)
	fmt.Printf("Ticks:   %d\n", rec.Ticks)
	fmt.Printf("Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Saved:   %s\n", rec.UpdatedAt.Format("2006-01-02 15:04"))

	totals, err := store.GatherTotals(rec.Slot)
	if err != nil {
		fatal("reading gather log: %v", err)
	}
	fmt.Println()
	if len(totals) == 0 {
		fmt.Println("Nothing gathered yet.")
		return
	}
	fmt.Printf("  %-12s  %-16s  %-6s  %s\n", "Skill", "Item", "Count", "XP")
	fmt.Printf("  %-12s  %-16s  %-6s  %s\n", "-----", "----", "-----", "--")
	for _, t := range totals {
		fmt.Printf("  %-12s  %-16s  %-6d  %d\n", t.Skill, t.Item, t.Count, t.XP)
	}
}

func runSavesDelete(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	if err := store.DeleteSave(args[0]); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fatal("no save named %q", args[0])
		}
		fatal("deleting save: %v", err)
	}
	fmt.Printf("Deleted %s\n", args[0])
}

func runSavesExport(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	rec := loadSlot(store, args[0])
	if err := storage.ExportFile(args[1], rec); err != nil {
		fatal("exporting save: %v", err)
	}
	fmt.Printf("Exported %s to %s\n", rec.Slot, args[1])
}

func runSavesImport(_ *cobra.Command, args []string) {
	rec, err := storage.ImportFile(args[0])
	if err != nil {
		fatal("%v", err)
	}

	store := openStore()
	defer store.Close()

	if _, err := store.SaveGame(rec); err != nil {
		fatal("importing save: %v", err)
	}
	fmt.Printf("Imported %s\n", rec.Slot)
}

func loadSlot(store storage.Store, slot string) storage.SaveRecord {
	rec, err := store.LoadGame(slot)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fatal("no save named %q", slot)
		}
		fatal("loading save: %v", err)
	}
	return rec
}
