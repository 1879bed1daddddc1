package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	exportDays  int
	exportForce bool
)

var exportCmd = &cobra.Command{
	Use:   "export [date]",
	Short: "Write daily markdown digests",
	Long: `Renders stored entries into per-source markdown files under the
configured output directory, one file per source per day.

Pass a date (YYYY-MM-DD) to export one day, or --days N for the most
recent N days. Existing files are kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "export the most recent N days")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	ctx := context.Background()

	var (
		paths []string
		err   error
	)

	switch {
	case len(args) > 0:
		paths, err = exportService.ExportDay(ctx, args[0], exportForce)
	case exportDays > 0:
		paths, err = exportService.ExportRange(ctx, exportDays, exportForce)
	default:
		return errors.New("pass a date or --days N")
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if len(paths) == 0 {
		cmd.Println("Nothing to export.")
		return nil
	}

	for _, path := range paths {
		cmd.Println(path)
	}
	cmd.Printf("Wrote %d files.\n", len(paths))
	return nil
}
