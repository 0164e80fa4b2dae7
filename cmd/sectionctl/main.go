package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"sectionview/internal/cli"
)

func main() {
	// Load .env so --db can default to DATABASE_URL / SQLITE_DATABASE (ignore if missing)
	_ = godotenv.Load()

	if err := cli.NewRootCmd(&cli.App{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
