package store

import (
	"context"
	"fmt"
	"time"

	"fjacquet/statement-ingest/internal/dateutils"
	"fjacquet/statement-ingest/internal/logging"
	"fjacquet/statement-ingest/internal/models"
	"fjacquet/statement-ingest/internal/parsererror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DBTX is the slice of pgx the store needs. *pgxpool.Pool, pgx.Tx and
// pgxmock all satisfy it.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var transactionsTable = pgx.Identifier{"transactions"}

var transactionColumns = []string{
	"account_id", "batch_id", "date", "description", "merchant_name", "category_id",
	"amount", "type", "receipt", "installment_number", "installments_total",
	"amount_usd", "source",
}

const activeRulesQuery = `
	SELECT id::text, pattern, match_type, merchant_name, category_id, priority
	FROM merchant_rules
	WHERE active AND (account_id IS NULL OR account_id = $1)
	ORDER BY created_at, id`

// PostgresStore reads merchant rules from and writes transactions to
// PostgreSQL.
type PostgresStore struct {
	db        DBTX
	accountID string
	logger    logging.Logger
}

// NewPostgresStore wraps db. accountID scopes the rules that are loaded; an
// empty value loads only global rules.
func NewPostgresStore(db DBTX, accountID string, logger logging.Logger) *PostgresStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &PostgresStore{db: db, accountID: accountID, logger: logger}
}

// OpenPool connects to dsn and checks the connection.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}

// LoadRules returns the active rules in declaration order. Evaluation order
// is the rule engine's business.
func (s *PostgresStore) LoadRules(ctx context.Context) ([]models.MerchantRule, error) {
	rows, err := s.db.Query(ctx, activeRulesQuery, s.accountID)
	if err != nil {
		return nil, &parsererror.RuleSourceError{Source: "postgres", Err: err}
	}
	defer rows.Close()

	var rules []models.MerchantRule
	for rows.Next() {
		var (
			r         models.MerchantRule
			matchType string
		)
		if err := rows.Scan(&r.ID, &r.Pattern, &matchType, &r.MerchantName, &r.CategoryID, &r.Priority); err != nil {
			return nil, &parsererror.RuleSourceError{Source: "postgres", Err: err}
		}
		r.MatchType = models.MatchType(matchType)
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.RuleSourceError{Source: "postgres", Err: err}
	}

	s.logger.Debug("Loaded merchant rules",
		logging.F(logging.FieldSink, "postgres"),
		logging.F(logging.FieldCount, len(rules)))
	return rules, nil
}

// Insert bulk-loads records with COPY.
func (s *PostgresStore) Insert(ctx context.Context, records []models.InsertRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	start := time.Now()
	n, err := s.db.CopyFrom(ctx, transactionsTable, transactionColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return copyRow(records[i])
		}))
	if err != nil {
		return int(n), fmt.Errorf("failed to insert transactions: %w", err)
	}

	s.logger.Info("Inserted transactions",
		logging.F(logging.FieldSink, "postgres"),
		logging.F(logging.FieldBatchID, records[0].BatchID),
		logging.F(logging.FieldCount, n),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return int(n), nil
}

func copyRow(rec models.InsertRecord) ([]any, error) {
	date, err := dateutils.ParseISO(rec.Date)
	if err != nil {
		return nil, fmt.Errorf("record date %q: %w", rec.Date, err)
	}
	batch, err := uuid.Parse(rec.BatchID)
	if err != nil {
		return nil, fmt.Errorf("record batch id %q: %w", rec.BatchID, err)
	}

	usd := pgtype.Numeric{}
	if rec.AmountUSD.Valid {
		usd = numeric(rec.AmountUSD.Decimal)
	}

	return []any{
		rec.AccountID,
		pgtype.UUID{Bytes: batch, Valid: true},
		date,
		rec.Description,
		rec.MerchantName,
		rec.CategoryID,
		numeric(rec.Amount),
		string(rec.Type),
		rec.Receipt,
		rec.InstallmentNumber,
		rec.InstallmentsTotal,
		usd,
		string(rec.Source),
	}, nil
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
