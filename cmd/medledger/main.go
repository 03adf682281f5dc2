package main

import (
	"context"
	"os"

	"medledger/internal/cli"
	"medledger/internal/ui"
)

func main() {
	cli.LoadEnvFile()

	// Bootstrap order matters: the log level comes from config, but config
	// validation wants a logger, so start at info and re-level after.
	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	store := cli.InitStore(logger, cfg.DBPath)
	app := cli.NewApp(cfg, store)
	defer app.Close()

	logger.Info("Ledger ready", "db", cfg.DBPath)

	console := ui.New(app, os.Stdin, os.Stdout)
	if err := console.Run(context.Background()); err != nil {
		logger.Error("Console terminated", "error", err)
		os.Exit(1)
	}
}
