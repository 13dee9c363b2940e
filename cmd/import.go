package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a legacy flat-list export (runs once)",
	Long: `Import a legacy flat-list export (runs once).

Reads a JSON array of word records from the file (use "-" for stdin) and
loads them in batches. The import records its completion and later runs
are no-ops; a failed run can simply be retried.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader
		if args[0] == "-" {
			r = os.Stdin
		} else {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()
			r = f
		}

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		stats, err := e.Import(cmd.Context(), r)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		if stats.AlreadyDone {
			fmt.Println("Import already completed; nothing to do.")
			return nil
		}
		fmt.Printf("Imported %d words (%d skipped) in %d batches.\n",
			stats.Imported, stats.Skipped, stats.Batches)
		return nil
	},
}
