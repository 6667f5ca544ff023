// ABOUTME: Archive command: soft-delete records by remote id
// ABOUTME: One bulk PATCH, never a physical delete
package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/koochoy97/sheet-app/config"
)

// ArchiveCommand flips the archived flag for the given record ids.
func ArchiveCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("archive requires at least one record id")
	}

	ids := make([]int64, 0, fs.NArg())
	for _, arg := range fs.Args() {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, id)
	}

	client := NewRestClient(cfg)
	count, err := client.ArchiveRows(context.Background(), ids)
	if err != nil {
		return fmt.Errorf("failed to archive: %w", err)
	}
	fmt.Printf("Archived %d records\n", count)
	return nil
}
