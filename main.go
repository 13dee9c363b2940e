package main

import (
	"os"

	"github.com/KyryloOleynik/wordvault/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
