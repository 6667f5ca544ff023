// ABOUTME: Program launcher for the full-screen sheet TUI
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/rest"
)

// Run starts the sheet TUI and blocks until the user quits.
func Run(cfg *config.Config, client *rest.Client, clientFilter string) error {
	m := NewModel(cfg, client, clientFilter)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
