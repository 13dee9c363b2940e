package cmd

import (
	"fmt"
	"strings"

	"github.com/KyryloOleynik/wordvault/internal/vocab"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a word or phrase to the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		src, err := parseSource(source)
		if err != nil {
			return err
		}

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		text := strings.Join(args, " ")
		w, created, err := e.AddWord(cmd.Context(), text, src)
		if err != nil {
			return fmt.Errorf("add word: %w", err)
		}
		if !created {
			fmt.Printf("%q is already in the vault (added %s).\n",
				w.Text, w.CreatedAt.Local().Format("2006-01-02"))
			return nil
		}
		fmt.Printf("Added %q.\n", w.Text)
		return nil
	},
}

func parseSource(s string) (vocab.Source, error) {
	switch vocab.Source(s) {
	case vocab.SourceManual, vocab.SourceLookup, vocab.SourceYouTube, vocab.SourceLesson:
		return vocab.Source(s), nil
	}
	return "", fmt.Errorf("unknown source %q (use manual, lookup, youtube or lesson)", s)
}

func init() {
	addCmd.Flags().StringP("source", "s", string(vocab.SourceManual), "Where the word came from")
}
