package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilequest/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeConfig string
	flagServePace   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Tile Quest SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game. Saves are kept per SSH user, so
players only see and continue their own slots.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tilequest/host_key

Examples:
  tilequest serve                           # Listen on :23234 with auto-generated key
  tilequest serve --ssh :2222               # Listen on port 2222
  tilequest serve --host-key ./my_host_key  # Use specific host key
  tilequest serve --db postgres://localhost/tilequest

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", "", "Path to a quest config file")
	serveCmd.Flags().StringVar(&flagServePace, "pace", "normal", "Pace preset: relaxed, normal, hardcore")
}

func runServe(_ *cobra.Command, _ []string) {
	quest, err := loadQuest(flagServeConfig, flagServePace)
	if err != nil {
		fatal("%v", err)
	}
	maps, err := loadMaps(quest.World.MapDir)
	if err != nil {
		fatal("%v", err)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DSN:         flagDB,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		Quest:       quest,
		Maps:        maps,
	}

	server, err := tui.NewSSHServer(cfg, newLogger(os.Stderr).WithPrefix("tilequest-ssh"))
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting Tile Quest SSH server on %s\n", cfg.Address)
	port := "23234"
	if _, p, err := net.SplitHostPort(cfg.Address); err == nil && p != "" {
		port = p
	}
	fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fatal("server: %v", err)
	}
}
