package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <text>",
	Short: "Remove a word and its review history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.DeleteWord(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete %q: %w", args[0], err)
		}
		fmt.Printf("Deleted %q.\n", args[0])
		return nil
	},
}
