package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host flappy over SSH, one private session per connection",
	Long: `Serve the flappy menu to SSH clients.

Every connection that requests a terminal gets a session of its own: the
home menu, manual and autopilot games and a best-score table that lives
only as long as the connection. Nothing a player does is written back to
the server. The run log at --db, filled by "flappy bench", can be browsed
from every session's menu but is never written by one. If it cannot be
opened the server still starts and the menu reports it as unavailable.

Games run at --fps with the server's --config and --difficulty, falling
back to flappy.yaml in ./configs or ~/.flappy/configs. Each connection is
seeded from the clock, so --seed does not apply here.

The host key is read from --host-key, or created once at
~/.flappy/host_key. Connections without a PTY are refused, and sessions
idle for --idle-timeout minutes are closed. Session starts and ends are
logged to stderr with the SSH user and remote address.

Examples:
  flappy serve                             # :23234, key in ~/.flappy/host_key
  flappy serve --ssh 0.0.0.0:2222 -v       # public port, log connections
  flappy serve --db ./runs.db --fps 30     # browse a local run log, 30 Hz games
  flappy serve --difficulty hard           # every session plays the hard preset

Players connect with:
  ssh -t -p 23234 player@your-host`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Minutes a session may sit idle before it is closed")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger()
	logger.SetPrefix("flappy-ssh")

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
	}

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	port := "23234"
	if _, p, err := net.SplitHostPort(server.Addr()); err == nil && p != "" {
		port = p
	}
	fmt.Printf("Serving flappy over SSH on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh -t -p %s localhost\n", port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
