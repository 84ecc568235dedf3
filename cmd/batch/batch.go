// Package batch handles batch imports of statement directories
package batch

import (
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/statement-ingest/cmd/common"
	"fjacquet/statement-ingest/cmd/root"
	"fjacquet/statement-ingest/internal/batch"
	"fjacquet/statement-ingest/internal/fileutils"
	"fjacquet/statement-ingest/internal/ingest"
	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/report"

	"github.com/spf13/cobra"
)

var (
	sinkName   string
	modeName   string
	reportPath string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch import every PDF statement of a directory",
	Long: `Batch import every PDF statement found under the input directory.

Files named {account}_{YYYY-MM}.pdf are imported under that account, others
under import.account_id. Each file becomes its own import batch. In auto mode
the text layer is tried first and OCR runs when it yields no transaction; one
OCR engine is shared by the whole run.

Example:
  statement-ingest batch -i statements/ -o transactions.csv --mode auto`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&sinkName, "sink", common.SinkCSV, "Where to write transactions: csv or postgres")
	Cmd.Flags().StringVar(&modeName, "mode", string(batch.ModeAuto), "Pipeline per file: text, ocr or auto")
	Cmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON or YAML import report to this file")
}

func batchFunc(cmd *cobra.Command, _ []string) error {
	logger := root.GetLogger()
	logger.Info("Batch command called")

	mode, err := batch.ParseMode(modeName)
	if err != nil {
		return err
	}
	inputDir := root.SharedFlags.Input
	if inputDir == "" {
		return fmt.Errorf("an input directory is required (--input)")
	}
	var reportFormat string
	if reportPath != "" {
		if reportFormat, err = report.FormatFromPath(reportPath); err != nil {
			return err
		}
	}

	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	ctx := common.Context(cmd)

	sink, closeSink, err := common.OpenSink(ctx, c, sinkName, root.SharedFlags.Output)
	if err != nil {
		return err
	}
	defer func() { _ = closeSink() }()
	tally := &common.TallySink{Next: sink}

	var im *ingest.Importer
	if mode == batch.ModeText {
		im, err = c.Importer(ctx, tally)
	} else {
		im, err = c.OCRImporter(ctx, tally)
	}
	if err != nil {
		return err
	}

	summary, err := batch.NewProcessor(im, c.GetConfig().Import.AccountID, mode, logger).Run(ctx, inputDir)
	if err != nil {
		return err
	}
	if err := closeSink(); err != nil {
		return fmt.Errorf("error closing output file: %w", err)
	}

	PrintSummary(cmd.ErrOrStderr(), summary)
	if reportPath != "" {
		if err := writeReport(inputDir, reportFormat, summary, logger); err != nil {
			return err
		}
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, len(summary.Files))
	}
	return nil
}

func writeReport(inputDir, format string, summary batch.Summary, logger logging.Logger) error {
	generator := report.NewReportGenerator(logger)
	data, err := generator.GenerateReport(generator.Build(inputDir, summary), format)
	if err != nil {
		return err
	}
	out, err := fileutils.CreateFile(reportPath)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Wrote import report", logging.F(logging.FieldFile, reportPath))
	return out.Close()
}

// PrintSummary writes one line per file and the run totals.
func PrintSummary(w io.Writer, summary batch.Summary) {
	for _, f := range summary.Files {
		name := filepath.Base(f.File)
		switch {
		case f.Err != nil:
			fmt.Fprintf(w, "FAIL  %-30s %-12s %v\n", name, f.AccountID, f.Err)
		case f.Result.Parsed == 0:
			fmt.Fprintf(w, "EMPTY %-30s %-12s %s\n", name, f.AccountID, f.Mode)
		default:
			fmt.Fprintf(w, "OK    %-30s %-12s %s %d stored, %d classified\n",
				name, f.AccountID, f.Mode, f.Result.Inserted, f.Result.Classified)
		}
	}
	fmt.Fprintf(w, "%d imported, %d empty, %d failed\n", summary.Imported, summary.Empty, summary.Failed)
}
