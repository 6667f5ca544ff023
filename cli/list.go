// ABOUTME: List command: fetch, filter, sort, and print rows
// ABOUTME: Scriptable counterpart of the TUI sheet view
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/sheet"
)

// ListCommand fetches the current scope and prints the filtered, sorted
// projection.
func ListCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	clientFlag := fs.String("client", "", "Client id to scope rows ('all' for every client)")
	status := fs.String("status", "", "Filter by exact status")
	score := fs.String("score", "", "Filter by score ('none' for rows without one)")
	company := fs.String("company", "", "Fuzzy company filter")
	from := fs.String("from", "", "Start of celebration date range (YYYY-MM-DD)")
	to := fs.String("to", "", "End of celebration date range (YYYY-MM-DD)")
	sortKey := fs.String("sort", "", "Sort column key (e.g. company, fecha, score)")
	desc := fs.Bool("desc", false, "Sort descending")
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

	filtered := sheet.FilterRows(rows, sheet.Filters{
		Status:       *status,
		Score:        *score,
		CompanyQuery: *company,
		Dates:        sheet.DateRange{Start: *from, End: *to},
	})
	if *sortKey != "" {
		dir := sheet.SortAsc
		if *desc {
			dir = sheet.SortDesc
		}
		filtered = sheet.SortRows(filtered, sheet.Sort{Key: models.Field(*sortKey), Dir: dir})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tFECHA\tSTATUS\tKDM\tSCORE\tCLIENTE")
	for _, row := range filtered {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Company, row.Fecha, row.Status, row.KDM, row.Score, row.Cliente)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d rows\n", len(filtered))
	return nil
}
