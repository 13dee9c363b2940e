package cmd

import (
	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the practice queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueue(cmd)
	},
}
