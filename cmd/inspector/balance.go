package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/inspector/internal/config"
	"github.com/vovakirdan/inspector/internal/platform/tui"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Edit balance overrides (admin password required)",
	Long: `Open the balance panel. The panel unlocks with the admin password whose
bcrypt hash is published in the remote config document, so --remote (or
INSPECTOR_REMOTE_URL) must point at a document carrying admin_password_hash.

Saved overrides live in the database and apply on top of the balance file
on every later run.

Examples:
  inspector balance --remote https://example.com/inspector.json
  inspector balance hash-password`,
	Args: cobra.NoArgs,
	Run:  runBalance,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print the bcrypt hash to publish as admin_password_hash",
	Args:  cobra.NoArgs,
	Run:   runHashPassword,
}

func init() {
	balanceCmd.AddCommand(hashPasswordCmd)
}

func runBalance(cmd *cobra.Command, _ []string) {
	a := mustSetup(cmd)
	defer a.Close()

	if a.loaded.AdminPasswordHash == "" {
		a.logger.Warn("balance panel is locked", "error", config.ErrNoAdminPassword)
	}
	if a.store == nil {
		a.logger.Warn("database is not available, overrides cannot be saved")
	}

	err := tui.RunBalancePanel(tui.BalancePanelOptions{
		Balance:           a.loaded.Local,
		AdminPasswordHash: a.loaded.AdminPasswordHash,
		Store:             a.settings(),
		Reload: func() (config.Balance, error) {
			if err := a.reload(cmd.Context()); err != nil {
				return config.Balance{}, err
			}
			return a.loaded.Local, nil
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running balance panel: %v\n", err)
		os.Exit(1)
	}
}

func runHashPassword(_ *cobra.Command, _ []string) {
	password, err := readPassword()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hash, err := config.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

// readPassword reads the password without echo on a terminal, or the first
// line of stdin otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return validPassword(string(raw))
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return validPassword(strings.TrimRight(line, "\r\n"))
}

func validPassword(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty password")
	}
	return p, nil
}
