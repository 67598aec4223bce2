// Package cli provides common CLI initialization utilities shared by
// cmd/finledger and cmd/finledger-worker.
package cli

import (
	"os"

	"finledger/internal/auth"
	"finledger/internal/config"
	applog "finledger/internal/log"
	"finledger/internal/storage"
	"github.com/joho/godotenv"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the record store for the configured backend.
// Returns the store or exits the process on failure.
func InitStore(logger *applog.Logger, cfg *config.Config) storage.Store {
	switch cfg.DataBackend {
	case "memory":
		logger.Info("Initialized memory backend")
		return storage.NewMemoryStore()
	default:
		store, err := storage.NewJSONStore(cfg.FinancePath)
		if err != nil {
			logger.Error("Failed to initialize JSON store", "error", err, "path", cfg.FinancePath)
			os.Exit(1)
		}
		logger.Info("Initialized JSON backend", "path", cfg.FinancePath)
		return store
	}
}

// InitAuthenticator builds the credential store.
// Returns the authenticator or exits the process on failure.
func InitAuthenticator(logger *applog.Logger, cfg *config.Config) *auth.Authenticator {
	authenticator, err := auth.NewAuthenticator(cfg.CredentialsPath)
	if err != nil {
		logger.Error("Failed to initialize authenticator", "error", err, "path", cfg.CredentialsPath)
		os.Exit(1)
	}
	return authenticator
}

// InitArchive initializes the SQLite archive repository.
// Returns the repository or exits the process on failure.
func InitArchive(logger *applog.Logger, dbPath string) *storage.ArchiveRepository {
	archive, err := storage.NewArchiveRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize archive repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return archive
}
