package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kavro/mnemo/internal/cli"
)

func main() {
	// Optional; a missing .env is the normal case.
	_ = godotenv.Load()

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
