package cmd

import (
	"fmt"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		st, err := e.Stats(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		today, err := e.ReviewsToday(ctx)
		if err != nil {
			return fmt.Errorf("count reviews: %w", err)
		}

		fmt.Printf("Words:            %d\n", st.TotalWords)
		fmt.Printf("  new:            %d\n", st.ByStatus[vocab.StatusNew])
		fmt.Printf("  learning:       %d\n", st.ByStatus[vocab.StatusLearning])
		fmt.Printf("  known:          %d\n", st.ByStatus[vocab.StatusKnown])
		fmt.Printf("Due now:          %d\n", st.DueNow)
		fmt.Printf("Average mastery:  %.0f%%\n", st.AvgMastery*100)
		fmt.Printf("Grammar concepts: %d\n", st.TotalConcepts)
		fmt.Printf("Reviews today:    %d\n", today)
		return nil
	},
}
