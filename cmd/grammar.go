package cmd

import (
	"fmt"
	"strings"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
	"github.com/spf13/cobra"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Track grammar concepts alongside vocabulary",
}

var grammarAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a grammar concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		c, created, err := e.AddConcept(cmd.Context(), args[0], description)
		if err != nil {
			return fmt.Errorf("add concept: %w", err)
		}
		if !created {
			fmt.Printf("%q is already tracked.\n", c.Name)
			return nil
		}
		fmt.Printf("Added %q.\n", c.Name)
		return nil
	},
}

var grammarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every grammar concept",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		concepts, err := e.Concepts(cmd.Context())
		if err != nil {
			return fmt.Errorf("list concepts: %w", err)
		}
		if len(concepts) == 0 {
			fmt.Println("No grammar concepts yet. Add one with: wordvault grammar add <name>")
			return nil
		}
		printConcepts(concepts)
		return nil
	},
}

var grammarDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List grammar concepts due for practice",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		concepts, err := e.DueConcepts(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list due concepts: %w", err)
		}
		if len(concepts) == 0 {
			fmt.Println("No grammar practice due.")
			return nil
		}
		printConcepts(concepts)
		return nil
	},
}

var grammarReviewCmd = &cobra.Command{
	Use:   "review <name> <grade>",
	Short: "Grade a grammar concept (1-4, or again/hard/good/easy)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := parseGradeArg(args[1])
		if err != nil {
			return err
		}

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.GradeConcept(cmd.Context(), args[0], g)
		if err != nil {
			return fmt.Errorf("review %q: %w", args[0], err)
		}

		fmt.Printf("%s: %s, practiced %d times (%d errors), next review %s\n",
			c.Name,
			c.Status,
			c.PracticeCount,
			c.ErrorCount,
			c.NextReviewAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

func printConcepts(concepts []*vocab.GrammarConcept) {
	fmt.Printf("%-28s  %-8s  %7s  %9s  %-16s\n",
		"Concept", "Status", "Mastery", "Practiced", "Next Review")
	fmt.Println(strings.Repeat("\u2500", 78))
	for _, c := range concepts {
		fmt.Printf("%-28s  %-8s  %6.0f%%  %9d  %-16s\n",
			truncate(c.Name, 28),
			c.Status,
			c.MasteryScore*100,
			c.PracticeCount,
			c.NextReviewAt.Local().Format("2006-01-02 15:04"))
	}
}

func init() {
	grammarAddCmd.Flags().StringP("description", "d", "", "What the concept covers")
	grammarDueCmd.Flags().IntP("limit", "n", 20, "Maximum number of concepts to show")

	grammarCmd.AddCommand(grammarAddCmd)
	grammarCmd.AddCommand(grammarListCmd)
	grammarCmd.AddCommand(grammarDueCmd)
	grammarCmd.AddCommand(grammarReviewCmd)
}
