package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/quokkaq/quokkaq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.New(os.Stderr).Error("application failed", "error", err)
		os.Exit(1)
	}
}
