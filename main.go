package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spigell/hr-interviewer/cmd"
)

func main() {
	// A local .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
