// Package parser defines what every statement parser exposes to the
// ingestion pipeline, and the pieces the implementations share.
package parser

import (
	"context"
	"io"

	"fjacquet/statement-ingest/internal/models"
)

// Parser turns one statement document into transaction candidates.
//
// A document either yields a list (possibly empty) or an error; rows that
// cannot be parsed are dropped silently and never surface as errors.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]models.ParsedTransaction, error)
}
