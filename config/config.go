// ABOUTME: Endpoint and credential configuration for the sheet app
// ABOUTME: Loads .env via godotenv with SHEETAPP_* environment overrides
package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL    = "https://rest.wearesiete.com/meetings"
	defaultClientsURL = "https://rest.wearesiete.com/clientes"
	defaultLinesURL   = "https://rest.wearesiete.com/clientes_lineas_negocio"
	defaultBriefURL   = "https://hooks.wearesiete.com/webhook/brief"
	defaultClientID   = "46"
)

// Config holds endpoints and the API token.
type Config struct {
	BaseURL       string
	ClientsURL    string
	LinesURL      string
	BriefURL      string
	Token         string
	DefaultClient string
}

// Load reads configuration from a .env file (best effort) and the
// environment. Environment variables win over the file.
func Load() *Config {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	return &Config{
		BaseURL:       envOr("SHEETAPP_BASE_URL", defaultBaseURL),
		ClientsURL:    envOr("SHEETAPP_CLIENTS_URL", defaultClientsURL),
		LinesURL:      envOr("SHEETAPP_LINES_URL", defaultLinesURL),
		BriefURL:      envOr("SHEETAPP_BRIEF_URL", defaultBriefURL),
		Token:         os.Getenv("SHEETAPP_TOKEN"),
		DefaultClient: envOr("SHEETAPP_DEFAULT_CLIENT", defaultClientID),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
