package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// runQueue prints today's practice queue. It backs both the bare root
// command and `wordvault queue`.
func runQueue(cmd *cobra.Command) error {
	e, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	q, err := e.Queue(cmd.Context())
	if err != nil {
		return fmt.Errorf("build queue: %w", err)
	}
	if len(q.Slots) == 0 {
		fmt.Println("Nothing to practice right now.")
		return nil
	}

	fmt.Printf("Practice queue (%d):\n", len(q.Slots))
	for i, s := range q.Slots {
		fmt.Printf("%2d. %-24s  [%s]\n", i+1, truncate(s.Word.Text, 24), s.Category)
	}
	fmt.Println()
	fmt.Println("Grade a word with: wordvault review <text> <1-4>")
	return nil
}
