// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"

	"fjacquet/statement-ingest/internal/config"
	"fjacquet/statement-ingest/internal/container"
	"fjacquet/statement-ingest/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Config  string
	Input   string
	Output  string
	Account string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-ingest",
		Short: "Import Argentine bank and card statements into categorized transactions.",
		Long: `statement-ingest reads bank and credit card statements, from their text
layer or through OCR for scanned documents, classifies every movement against
the account's merchant rules and writes the batch to CSV or PostgreSQL.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: func(*cobra.Command, []string) error { return Close() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.Config, "config", "", "Config file (default: ./config.yaml)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Account, "account", "", "Account the statement belongs to (overrides import.account_id)")
}

func setup(cmd *cobra.Command, _ []string) error {
	config.LoadEnv(nil)

	cfg, err := config.LoadConfig(SharedFlags.Config)
	if err != nil {
		return err
	}
	if SharedFlags.Account != "" {
		cfg.Import.AccountID = SharedFlags.Account
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	appContainer = c
	return nil
}

// Close releases the container of the running command. It runs after every
// successful command and must also be called when a command fails.
func Close() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if appContainer == nil {
		return nil, errors.New("container not initialized")
	}
	return appContainer, nil
}

// SetContainer installs c as the running command's container, for tests.
func SetContainer(c *container.Container) {
	appContainer = c
}

// GetLogger returns the container's logger, or a default one before setup.
func GetLogger() logging.Logger {
	if appContainer == nil {
		return logging.NewLogrusAdapter("info", "text")
	}
	return appContainer.GetLogger()
}
