package main

import (
	"log"

	"condoku_backend/cmd/importer/cli"
	"condoku_backend/internals/configs"
	"condoku_backend/internals/helpers/logger"
)

func main() {
	cfg := logger.DefaultConfig()
	cfg.Level = configs.GetEnv("LOG_LEVEL", "warn")
	cfg.Output = "stderr"
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	configs.LoadEnv()

	cli.Execute()
}
