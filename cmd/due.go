package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List words due for review, new words first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		words, err := e.Due(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list due words: %w", err)
		}
		if len(words) == 0 {
			fmt.Println("Nothing is due. Well done.")
			return nil
		}
		printWords(words)
		return nil
	},
}

func init() {
	dueCmd.Flags().IntP("limit", "n", 20, "Maximum number of words to show")
}
