package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <prefix>",
	Short: "Find words by prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		words, err := e.Search(cmd.Context(), args[0], limit)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if len(words) == 0 {
			fmt.Printf("No words match %q.\n", args[0])
			return nil
		}
		printWords(words)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "n", 10, "Maximum number of matches")
}
