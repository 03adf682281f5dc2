// Package cli provides common initialization utilities for cmd/medledger.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"medledger/internal/config"
	"medledger/internal/log"
	"medledger/internal/maintenance"
	"medledger/internal/services"
	"medledger/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the named level and sets
// it as the default logger.
func SetupLogger(level string) *slog.Logger {
	return log.Setup(level)
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the SQLite store at the given path, running migrations.
// Returns the store or exits the process on failure.
func InitStore(logger *slog.Logger, dbPath string) *storage.SQLiteStore {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}

// App wires the store and the services the console front end drives.
type App struct {
	Config   *config.Config
	Registry *services.PatientRegistry
	Ledger   *services.BillingLedger
	Maint    *maintenance.Manager

	store *storage.SQLiteStore
}

// NewApp builds the application graph on top of an open store.
func NewApp(cfg *config.Config, store *storage.SQLiteStore) *App {
	app := &App{Config: cfg}
	app.attach(store)
	return app
}

func (a *App) attach(store *storage.SQLiteStore) {
	a.store = store
	a.Registry = services.NewPatientRegistry(store)
	a.Ledger = services.NewBillingLedger(store)
	a.Maint = maintenance.NewManager(store, a.Config.BackupDir, a.Config.ExportDir)
}

// RestoreBackup swaps the live database for the given snapshot: it closes
// the store, copies the snapshot over the database file, and reopens. The
// service handles on the App are rebuilt, so callers must not hold on to
// the old ones across this call.
func (a *App) RestoreBackup(backupPath string) error {
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	restoreErr := a.Maint.Restore(backupPath, a.Config.DBPath)
	store, err := storage.Open(a.Config.DBPath)
	if err != nil {
		return fmt.Errorf("reopening store: %w", err)
	}
	a.attach(store)
	if restoreErr != nil {
		return restoreErr
	}
	return nil
}

// Close releases the underlying store.
func (a *App) Close() error {
	return a.store.Close()
}
