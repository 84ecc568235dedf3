package logging

// Field names shared by every component so log output stays filterable.
const (
	FieldFile      = "file_path"
	FieldParser    = "parser"
	FieldPolicy    = "amount_policy"
	FieldOrdering  = "ordering"
	FieldLine      = "line"
	FieldReason    = "reason"
	FieldRuleID    = "rule_id"
	FieldPattern   = "pattern"
	FieldMerchant  = "merchant"
	FieldBatchID   = "batch_id"
	FieldAccountID = "account_id"
	FieldPage      = "page"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
	FieldSink      = "sink"
)
