package config

import (
	"os"
	"path/filepath"

	"fjacquet/statement-ingest/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the working directory or its
// parent, when one exists. Variables already set in the environment win.
// It returns the file that was loaded, or "".
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables")
			return ""
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithError(err).Warn("Error loading .env file")
		return ""
	}
	logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
	return envFile
}
