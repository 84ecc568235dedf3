package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"

	"github.com/gocarina/gocsv"
)

// csvRecord is the exported row layout. Amounts keep two decimals and the
// dot separator so spreadsheets and databases read them back unchanged.
type csvRecord struct {
	BatchID           string `csv:"batch_id"`
	AccountID         string `csv:"account_id"`
	Date              string `csv:"date"`
	Description       string `csv:"description"`
	MerchantName      string `csv:"merchant_name"`
	CategoryID        string `csv:"category_id"`
	Amount            string `csv:"amount"`
	Type              string `csv:"type"`
	Receipt           string `csv:"receipt"`
	InstallmentNumber string `csv:"installment_number"`
	InstallmentsTotal string `csv:"installments_total"`
	AmountUSD         string `csv:"amount_usd"`
	Source            string `csv:"source"`
}

func toCSVRecord(rec models.InsertRecord) csvRecord {
	row := csvRecord{
		BatchID:      rec.BatchID,
		AccountID:    rec.AccountID,
		Date:         rec.Date,
		Description:  rec.Description,
		MerchantName: models.Deref(rec.MerchantName),
		CategoryID:   models.Deref(rec.CategoryID),
		Amount:       rec.Amount.StringFixed(2),
		Type:         string(rec.Type),
		Receipt:      models.Deref(rec.Receipt),
		Source:       string(rec.Source),
	}
	if rec.InstallmentNumber != nil && rec.InstallmentsTotal != nil {
		row.InstallmentNumber = strconv.Itoa(*rec.InstallmentNumber)
		row.InstallmentsTotal = strconv.Itoa(*rec.InstallmentsTotal)
	}
	if rec.AmountUSD.Valid {
		row.AmountUSD = rec.AmountUSD.Decimal.StringFixed(2)
	}
	return row
}

// CSVSink writes insert records as CSV. The header is written once, before
// the first batch.
type CSVSink struct {
	w         io.Writer
	delimiter rune
	logger    logging.Logger

	mu          sync.Mutex
	wroteHeader bool
}

// NewCSVSink writes to w with the given delimiter (',' when zero).
func NewCSVSink(w io.Writer, delimiter rune, logger logging.Logger) *CSVSink {
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CSVSink{w: w, delimiter: delimiter, logger: logger}
}

// Insert writes records and reports how many were written.
func (s *CSVSink) Insert(ctx context.Context, records []models.InsertRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]csvRecord, len(records))
	for i, rec := range records {
		rows[i] = toCSVRecord(rec)
	}

	csvWriter := csv.NewWriter(s.w)
	csvWriter.Comma = s.delimiter
	out := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if s.wroteHeader {
		if len(rows) == 0 {
			return 0, nil
		}
		err = gocsv.MarshalCSVWithoutHeaders(&rows, out)
	} else {
		err = gocsv.MarshalCSV(&rows, out)
	}
	if err != nil {
		return 0, fmt.Errorf("error writing CSV data: %w", err)
	}
	s.wroteHeader = true

	s.logger.Debug("Wrote transactions to CSV",
		logging.F(logging.FieldSink, "csv"),
		logging.F(logging.FieldCount, len(rows)),
		logging.F("delimiter", string(s.delimiter)))
	return len(rows), nil
}
