package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/KyryloOleynik/wordvault/internal/app"
	"github.com/KyryloOleynik/wordvault/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wordvault",
	Short: "Personal vocabulary trainer",
	Long:  "WordVault — spaced-repetition vocabulary trainer that lives in your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueue(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: XDG config dir)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadEngine builds the engine from the merged configuration. A store that
// cannot open degrades with a warning instead of aborting: reads come back
// empty and writes report the store error.
func loadEngine(cmd *cobra.Command) (*app.Engine, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, rootCmd.PersistentFlags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := app.New(app.Options{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	if e.Degraded() {
		fmt.Fprintln(os.Stderr, "Store unavailable:", e.Err())
		fmt.Fprintln(os.Stderr, "Running without persistence; writes will fail.")
	}
	return e, nil
}
