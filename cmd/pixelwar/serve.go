package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelwar/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeScene  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pixelwar SSH server",
	Long: `Start an SSH server that shows a live simulation to every connection.

Each SSH session gets its own board sized to its terminal. The command sent
over SSH picks the scenario; "history" opens the run history instead.
Finished runs are recorded in the shared history database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.pixelwar/host_key

Examples:
  pixelwar serve                           # Listen on :23234 with auto-generated key
  pixelwar serve --ssh :2222               # Listen on port 2222
  pixelwar serve --scenario islands        # Default scenario for sessions

Users can connect with:
  ssh localhost -p 23234
  ssh localhost -p 23234 -t melee
  ssh localhost -p 23234 -t history`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeScene, "scenario", "", "Default scenario (default: from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	simCfg, err := loadSimConfig()
	if err != nil {
		return err
	}
	var scenarioArgs []string
	if flagServeScene != "" {
		scenarioArgs = []string{flagServeScene}
	}
	scenario, err := resolveScenario(scenarioArgs, simCfg)
	if err != nil {
		return err
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Scenario:    scenario,
		Sim:         simCfg,
		Aggression:  string(aggressionOrDefault()),
		FPS:         flagFPS,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting pixelwar SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: %s\n", connectHint(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// connectHint builds the ssh command for a listen address. Wildcard hosts
// are shown as localhost.
func connectHint(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "ssh " + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	if port == "" || port == "22" {
		return "ssh " + host
	}
	return fmt.Sprintf("ssh %s -p %s", host, port)
}
