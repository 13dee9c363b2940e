package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/KyryloOleynik/wordvault/internal/enrich"
	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich [<text>]",
	Short: "Fill in definition, translation and CEFR level for a word",
	Long: `Fill in definition, translation and CEFR level for a word.

Fields come from flags, or from a JSON payload via --json (use "-" for
stdin). Payload fields that are empty never overwrite what is already
stored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonPath, _ := cmd.Flags().GetString("json")

		var (
			p   *enrich.Payload
			err error
		)
		if jsonPath != "" {
			p, err = readPayload(jsonPath)
			if err != nil {
				return err
			}
		} else {
			if len(args) == 0 {
				return fmt.Errorf("either <text> or --json is required")
			}
			definition, _ := cmd.Flags().GetString("definition")
			translation, _ := cmd.Flags().GetString("translation")
			cefr, _ := cmd.Flags().GetString("cefr")
			p = &enrich.Payload{
				Text:        args[0],
				Definition:  definition,
				Translation: translation,
				CEFRLevel:   cefr,
			}
		}

		e, err := loadEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		w, changed, err := e.Enrich(cmd.Context(), p)
		if err != nil {
			return fmt.Errorf("enrich: %w", err)
		}
		if !changed {
			fmt.Printf("Nothing to update for %q.\n", p.Text)
			return nil
		}
		fmt.Printf("Updated %q.\n", w.Text)
		return nil
	},
}

// readPayload loads and validates an enrichment payload from a file, or from
// stdin when path is "-".
func readPayload(path string) (*enrich.Payload, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	p, err := enrich.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return p, nil
}

func init() {
	enrichCmd.Flags().StringP("definition", "d", "", "Definition in the target language")
	enrichCmd.Flags().StringP("translation", "t", "", "Translation into your language")
	enrichCmd.Flags().String("cefr", "", "CEFR level (A1-C2)")
	enrichCmd.Flags().String("json", "", "JSON payload file, or - for stdin")
}
