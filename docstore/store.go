package docstore

import (
	"context"
	"time"
)

// Collection names used across the product. The chat core only ever reads
// these; writes happen through the dashboard import pipeline.
const (
	Customers        = "customers"
	JournalEntries   = "journal_entries"
	Payments         = "payments"
	Trades           = "trades"
	ComplianceChecks = "compliance_checks"
	AuditReports     = "audit_reports"
	SystemLogs       = "system_logs"
)

// Document is a single schemaless record as stored in a collection.
type Document map[string]any

// Filter describes a conjunctive query over a collection. Since, when
// non-zero, is an inclusive lower bound matched against any of the
// SinceFields aliases (legacy importers stored timestamps under different
// keys, so the date predicate must OR across all of them).
type Filter struct {
	Equals      map[string]string
	Since       time.Time
	SinceFields []string
}

// Empty reports whether the filter constrains nothing.
func (f Filter) Empty() bool {
	return len(f.Equals) == 0 && f.Since.IsZero()
}

// Store is the read surface of the document database. Implementations must
// be safe for concurrent use; callers treat every error as "zero results"
// and never let a store failure escape to the user.
type Store interface {
	Find(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
}

// String returns the value of a document field as a string, or "" when the
// field is absent or not a string.
func (d Document) String(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Number returns the value of a document field as a float64. JSON decoding
// produces float64 for all numeric fields.
func (d Document) Number(key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
