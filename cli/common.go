// ABOUTME: Shared CLI helpers for building clients and resolving filters
// ABOUTME: Token resolution order: environment, then saved login state
package cli

import (
	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/rest"
)

// NewRestClient builds the remote store client from config plus saved
// state.
func NewRestClient(cfg *config.Config) *rest.Client {
	token := cfg.Token
	if token == "" {
		if st, err := config.LoadState(); err == nil {
			token = st.Token
		}
	}
	return rest.New(cfg.BaseURL, cfg.ClientsURL, cfg.LinesURL, token)
}

// resolveClientFilter picks the effective client scope: an explicit flag
// wins, then the persisted filter, then the configured default.
func resolveClientFilter(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if st, err := config.LoadState(); err == nil && st.ClientFilter != "" {
		return st.ClientFilter
	}
	return cfg.DefaultClient
}
