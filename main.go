package main

import (
	"github.com/RolAlek/cli-app-logs-analyzer/internal/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// LOGS_ANALYZER_* settings may come from a local .env file.
	_ = godotenv.Load()

	cmd.Execute()
}
