package cmd

import (
	"fmt"
	"strings"

	"github.com/KyryloOleynik/wordvault/internal/spacedrep"
	"github.com/KyryloOleynik/wordvault/internal/vocab"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <text>",
	Short: "Show one word in full, with its recent reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetInt("history")

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		w, err := e.Word(ctx, args[0])
		if err != nil {
			return fmt.Errorf("show %q: %w", args[0], err)
		}

		fmt.Printf("Word:         %s\n", w.Text)
		fmt.Printf("Status:       %s\n", w.Status)
		fmt.Printf("Source:       %s\n", w.Source)
		if w.Definition != "" {
			fmt.Printf("Definition:   %s\n", w.Definition)
		}
		if w.Translation != "" {
			fmt.Printf("Translation:  %s\n", w.Translation)
		}
		if w.CEFRLevel != "" {
			fmt.Printf("CEFR level:   %s\n", w.CEFRLevel)
		}
		fmt.Printf("Mastery:      %.0f%%\n", w.MasteryScore*100)
		fmt.Printf("Answers:      %d shown / %d correct / %d wrong\n",
			w.TimesShown, w.TimesCorrect, w.TimesWrong)
		if w.Modal != nil {
			for _, m := range vocab.Modalities() {
				if n := w.Modal.Attempts(m); n > 0 {
					fmt.Printf("  %-12s%d/%d correct\n", m.String()+":", w.Modal.Correct[m], n)
				}
			}
		}
		if w.Reviewed() {
			fmt.Printf("Stability:    %.1f days\n", *w.Stability)
			fmt.Printf("Difficulty:   %.1f\n", *w.Difficulty)
			fmt.Printf("Last review:  %s\n", w.LastReviewedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("Next review:  %s\n", w.NextReviewAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Added:        %s\n", w.CreatedAt.Local().Format("2006-01-02"))

		logs, err := e.History(ctx, args[0], history)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(logs) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Recent reviews")
		fmt.Println(strings.Repeat("\u2500", 40))
		for _, l := range logs {
			fmt.Printf("%s  %-5s  %dms\n",
				l.ReviewedAt.Local().Format("2006-01-02 15:04"),
				spacedrep.Grade(l.Grade),
				l.TimeTakenMs)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().Int("history", 5, "Number of recent reviews to show")
}
