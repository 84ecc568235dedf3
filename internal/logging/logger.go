// Package logging decouples the ingestion pipeline from the concrete logging
// library. Components receive a Logger through their constructors and never
// reach for a package-level logger.
package logging

// Logger is the structured logger used across the module.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err.
	WithError(err error) Logger
	// WithField returns a child logger carrying a single field.
	WithField(key string, value interface{}) Logger
	// WithFields returns a child logger carrying fields.
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the process. Only cmd/ may call it.
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field inline.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
