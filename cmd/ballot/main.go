package main

import (
	"os"

	"github.com/joho/godotenv"

	"ballot/internal/cli"
)

func main() {
	// A missing .env is fine; the environment may already carry the keys.
	_ = godotenv.Load()
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
