// ABOUTME: Export command: write the current scope to CSV
// ABOUTME: Defaults to datos.csv in the working directory
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/sheet"
)

// ExportCommand fetches the current scope and writes it as CSV.
func ExportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	clientFlag := fs.String("client", "", "Client id to scope rows ('all' for every client)")
	out := fs.String("out", sheet.ExportFilename, "Output file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	clientFilter := resolveClientFilter(*clientFlag, cfg)
	if strings.EqualFold(clientFilter, "all") {
		clientFilter = models.AllClients
	}

	client := NewRestClient(cfg)
	rows, err := client.FetchRows(context.Background(), clientFilter)
	if err != nil {
		return fmt.Errorf("failed to fetch rows: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	defer f.Close()

	if err := sheet.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	fmt.Printf("Exported %d rows to %s\n", len(rows), *out)
	return nil
}
