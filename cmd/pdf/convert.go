// Package pdf handles text-layer PDF statement imports
package pdf

import (
	"context"
	"io"

	"fjacquet/statement-ingest/cmd/common"
	"fjacquet/statement-ingest/cmd/root"
	"fjacquet/statement-ingest/internal/ingest"

	"github.com/spf13/cobra"
)

var sinkName string

// Cmd represents the pdf command
var Cmd = &cobra.Command{
	Use:   "pdf",
	Short: "Import a PDF statement through its text layer",
	Long: `Import a PDF statement whose text can be extracted. Transactions are
classified against the merchant rules and written to CSV or PostgreSQL.`,
	RunE: pdfFunc,
}

func init() {
	Cmd.Flags().StringVar(&sinkName, "sink", common.SinkCSV, "Where to write transactions: csv or postgres")
}

func pdfFunc(cmd *cobra.Command, _ []string) error {
	logger := root.GetLogger()
	logger.Info("PDF import command called")

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	_, err = common.ProcessFile(common.Context(cmd), c, importPDF, false,
		root.SharedFlags.Input, root.SharedFlags.Output, sinkName, cmd.ErrOrStderr())
	return err
}

func importPDF(ctx context.Context, im *ingest.Importer, accountID string, r io.Reader) (ingest.Result, error) {
	return im.ImportPDF(ctx, accountID, r)
}
