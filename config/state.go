// ABOUTME: Persisted UI state at XDG data paths
// ABOUTME: Round-trips the active client filter and the saved API token
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the directory name under XDG data home.
const AppName = "sheet-app"

// State is the small slice of UI state that survives restarts: the
// active client filter (read once at startup, rewritten on every filter
// change) and a saved token from `sheet-app login`.
type State struct {
	ClientFilter string `json:"client_filter,omitempty"`
	Token        string `json:"token,omitempty"`
}

// StatePath returns the XDG-compliant path of the state file.
func StatePath() string {
	return filepath.Join(xdg.DataHome, AppName, "state.json")
}

// LoadState reads persisted state, returning the zero value when the
// file does not exist yet.
func LoadState() (*State, error) {
	data, err := os.ReadFile(StatePath())
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveState writes persisted state, creating the directory as needed.
func SaveState(st *State) error {
	path := StatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
