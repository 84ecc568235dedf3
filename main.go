// Package main provides the entry point for the statement-ingest CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/statement-ingest/cmd/batch"
	"fjacquet/statement-ingest/cmd/classify"
	"fjacquet/statement-ingest/cmd/migrate"
	"fjacquet/statement-ingest/cmd/ocr"
	"fjacquet/statement-ingest/cmd/pdf"
	"fjacquet/statement-ingest/cmd/root"
	"fjacquet/statement-ingest/cmd/rules"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(pdf.Cmd)
	root.Cmd.AddCommand(ocr.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(migrate.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := root.Cmd.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails; the OCR scratch
	// directory and the pool still have to go.
	if closeErr := root.Close(); err == nil {
		err = closeErr
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
