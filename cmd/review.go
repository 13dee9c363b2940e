package cmd

import (
	"fmt"
	"strings"

	"github.com/KyryloOleynik/wordvault/internal/review"
	"github.com/KyryloOleynik/wordvault/internal/spacedrep"
	"github.com/KyryloOleynik/wordvault/internal/vocab"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review <text> <grade>",
	Short: "Grade a word (1-4, or again/hard/good/easy)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		modality, _ := cmd.Flags().GetString("modality")
		took, _ := cmd.Flags().GetInt64("took")

		g, err := parseGradeArg(args[1])
		if err != nil {
			return err
		}
		m, err := vocab.ParseModality(modality)
		if err != nil {
			return err
		}

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		w, err := e.GradeWord(cmd.Context(), args[0], review.Outcome{
			Grade:       g,
			Modality:    m,
			TimeTakenMs: took,
		})
		if err != nil {
			return fmt.Errorf("review %q: %w", args[0], err)
		}

		fmt.Printf("%s: %s, stability %.1f days, next review %s\n",
			w.Text,
			w.Status,
			w.StabilityOrZero(),
			w.NextReviewAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

// parseGradeArg accepts both the numeric grades and their names.
func parseGradeArg(s string) (spacedrep.Grade, error) {
	switch strings.ToLower(s) {
	case "again":
		return spacedrep.Again, nil
	case "hard":
		return spacedrep.Hard, nil
	case "good":
		return spacedrep.Good, nil
	case "easy":
		return spacedrep.Easy, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid grade %q (use 1-4 or again/hard/good/easy)", s)
	}
	return spacedrep.ParseGrade(n)
}

func init() {
	reviewCmd.Flags().StringP("modality", "m", "translation", "Exercise type: translation, matching or lesson")
	reviewCmd.Flags().Int64("took", 0, "Answer time in milliseconds")
}
