package cmd

import (
	"fmt"
	"strings"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every word in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		words, err := e.Words(cmd.Context())
		if err != nil {
			return fmt.Errorf("list words: %w", err)
		}
		if len(words) == 0 {
			fmt.Println("No words yet. Add one with: wordvault add <text>")
			return nil
		}
		printWords(words)
		return nil
	},
}

func printWords(words []*vocab.Word) {
	fmt.Printf("%-24s  %-8s  %7s  %5s  %-16s\n",
		"Word", "Status", "Mastery", "Seen", "Next Review")
	fmt.Println(strings.Repeat("\u2500", 70))
	for _, w := range words {
		fmt.Printf("%-24s  %-8s  %6.0f%%  %5d  %-16s\n",
			truncate(w.Text, 24),
			w.Status,
			w.MasteryScore*100,
			w.TimesShown,
			w.NextReviewAt.Local().Format("2006-01-02 15:04"))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
