// Package migrate applies the database schema
package migrate

import (
	"fjacquet/statement-ingest/cmd/common"
	"fjacquet/statement-ingest/cmd/root"
	"fjacquet/statement-ingest/internal/container"
	"fjacquet/statement-ingest/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the PostgreSQL schema",
	RunE:  migrateFunc,
}

func migrateFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	dsn := c.GetConfig().Database.DSN
	if dsn == "" {
		return container.ErrNoDatabase
	}
	return store.Migrate(common.Context(cmd), dsn, c.GetLogger())
}
