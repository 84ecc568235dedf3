// Package ocr handles scanned PDF statement imports
package ocr

import (
	"context"
	"io"

	"fjacquet/statement-ingest/cmd/common"
	"fjacquet/statement-ingest/cmd/root"
	"fjacquet/statement-ingest/internal/ingest"

	"github.com/spf13/cobra"
)

var sinkName string

// Cmd represents the ocr command
var Cmd = &cobra.Command{
	Use:   "ocr",
	Short: "Import a scanned PDF statement through OCR",
	Long: `Import a scanned PDF statement. Pages are rendered with pdftoppm and
recognised with tesseract; the usual misreads of dates, amounts and receipt
numbers are corrected before the rows are classified and stored.`,
	RunE: ocrFunc,
}

func init() {
	Cmd.Flags().StringVar(&sinkName, "sink", common.SinkCSV, "Where to write transactions: csv or postgres")
}

func ocrFunc(cmd *cobra.Command, _ []string) error {
	logger := root.GetLogger()
	logger.Info("OCR import command called")

	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	_, err = common.ProcessFile(common.Context(cmd), c, importOCR, true,
		root.SharedFlags.Input, root.SharedFlags.Output, sinkName, cmd.ErrOrStderr())
	return err
}

func importOCR(ctx context.Context, im *ingest.Importer, accountID string, r io.Reader) (ingest.Result, error) {
	return im.ImportOCR(ctx, accountID, r)
}
