package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inspector/internal/metrics"
	"github.com/vovakirdan/inspector/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspector SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a difficulty menu.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.inspector/host_key

Metrics:
  - --metrics exposes Prometheus metrics at /metrics (empty disables)

Examples:
  inspector serve                           # Listen on :23234 with auto-generated key
  inspector serve --ssh :2222               # Listen on port 2222
  inspector serve --host-key ./my_host_key  # Use specific host key
  inspector serve --metrics :9108           # Also serve /metrics

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Prometheus metrics address (e.g. :9108)")
}

func runServe(cmd *cobra.Command, _ []string) {
	a := mustSetup(cmd)
	defer a.Close()

	ctx := cmd.Context()

	var mgr *metrics.Manager
	if flagMetricsAddr != "" {
		mgr = metrics.NewManager()
		metricsSrv := startMetricsServer(flagMetricsAddr, mgr, a)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		GameID:      gameID,
		TickRate:    flagFPS,
		Balance:     a.loaded.Balance,
		Scores:      a.scores(),
		Metrics:     mgr,
		Logger:      a.logger.WithPrefix("inspector-ssh"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting inspector SSH server on %s\n", flagSSHAddr)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(flagSSHAddr))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		a.logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// startMetricsServer serves /metrics in the background.
func startMetricsServer(addr string, mgr *metrics.Manager, a *app) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", mgr.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("serving metrics", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	return srv
}

func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return port
}
