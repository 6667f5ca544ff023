// ABOUTME: Brief command: trigger document generation for one record
// ABOUTME: Requires the record's AE mail list to be non-empty
package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/koochoy97/sheet-app/brief"
	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/models"
)

// BriefCommand sends the brief webhook for a single record.
func BriefCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brief", flag.ExitOnError)
	clientFlag := fs.String("client", "", "Client id scope used to locate the record")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("brief requires exactly one record id")
	}
	recordID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", fs.Arg(0))
	}

	ctx := context.Background()
	client := NewRestClient(cfg)
	rows, err := client.FetchRows(ctx, resolveClientFilter(*clientFlag, cfg))
	if err != nil {
		return fmt.Errorf("failed to fetch rows: %w", err)
	}

	var row *models.Row
	for i := range rows {
		if rows[i].RecordID != nil && *rows[i].RecordID == recordID {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return fmt.Errorf("record %d not found in current scope", recordID)
	}

	resp, err := brief.New(cfg.BriefURL).Send(ctx, *row, time.Now())
	if err != nil {
		return fmt.Errorf("failed to send brief: %w", err)
	}
	if len(resp.Links) > 0 {
		for _, link := range resp.Links {
			fmt.Printf("%s\n  %s\n", link.Heading, link.Link)
		}
		return nil
	}
	fmt.Println(resp.Raw)
	return nil
}
