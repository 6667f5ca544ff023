// ABOUTME: Login command: capture the API token without echo
// ABOUTME: Saves the token into persisted state for later sessions
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/koochoy97/sheet-app/config"
)

// LoginCommand prompts for the API token and persists it.
func LoginCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("login takes no arguments")
	}

	fmt.Print("API token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return fmt.Errorf("empty token")
	}

	st, err := config.LoadState()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	st.Token = token
	if err := config.SaveState(st); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	fmt.Println("Token saved")
	return nil
}
