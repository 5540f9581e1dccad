// Package format serializes a retrieval Context into the bounded text block
// embedded in the generation prompt. Rendering is pure and deterministic:
// the same Context always produces byte-identical output.
package format

import (
	"sort"
	"strings"

	"audit-agent/docstore"
	"audit-agent/retrieval"
)

// sectionTitles maps context sections to their prompt headings.
var sectionTitles = map[string]string{
	retrieval.SectionCompliance:      "COMPLIANCE STATUS",
	retrieval.SectionCustomers:       "CUSTOMER DATA",
	retrieval.SectionTransactions:    "FINANCIAL TRANSACTIONS",
	retrieval.SectionPayments:        "PAYMENTS",
	retrieval.SectionTrades:          "TRADES",
	retrieval.SectionRiskAssessments: "RISK ASSESSMENTS",
	retrieval.SectionAuditReports:    "AUDIT REPORTS",
	retrieval.SectionSystemLogs:      "SYSTEM ACTIVITY",
}

const (
	summaryInstruction = "Use the totals below as authoritative figures. Do NOT count the sample rows; they are a truncated sample."
	syntheticNotice    = "[DEMO DATA] This section contains demonstration values, not live records."

	maxRecordsWithSummary = 3
	maxRecordsNoSummary   = 5
	maxRecordFields       = 6
)

// Render serializes the context, highest-priority sections first, keeping
// the result under maxBytes by dropping lowest-priority sections whole.
// A section is never truncated mid-summary. maxBytes <= 0 means unbounded.
func Render(c *retrieval.Context, maxBytes int) string {
	if c == nil || c.Empty() {
		return ""
	}

	var sections []string
	for _, name := range retrieval.SectionOrder {
		result := c.Get(name)
		if !result.Populated() {
			continue
		}
		sections = append(sections, renderSection(name, result))
	}

	if maxBytes > 0 {
		for len(sections) > 1 && totalLen(sections) > maxBytes {
			sections = sections[:len(sections)-1]
		}
	}

	return strings.Join(sections, "\n")
}

func totalLen(sections []string) int {
	n := 0
	for _, s := range sections {
		n += len(s) + 1
	}
	return n
}

func renderSection(name string, result *retrieval.DomainResult) string {
	var b strings.Builder

	title := sectionTitles[name]
	if title == "" {
		title = humanizeKey(name)
	}
	b.WriteString("=== " + title + " ===\n")

	if result.Provenance == retrieval.ProvenanceSynthetic {
		b.WriteString(syntheticNotice + "\n")
	}

	if len(result.Summary) > 0 {
		b.WriteString(summaryInstruction + "\n")
		for _, key := range sortedKeys(result.Summary) {
			b.WriteString(humanizeKey(key) + ": " + fieldValue(key, result.Summary[key]) + "\n")
		}
		writeRecords(&b, result.Records, maxRecordsWithSummary, "Sample rows (do not count):")
	} else {
		writeRecords(&b, result.Records, maxRecordsNoSummary, "Records:")
	}

	return b.String()
}

func writeRecords(b *strings.Builder, records []docstore.Document, limit int, label string) {
	if len(records) == 0 {
		return
	}
	if len(records) > limit {
		records = records[:limit]
	}
	b.WriteString(label + "\n")
	for _, rec := range records {
		b.WriteString("- " + renderRecord(rec) + "\n")
	}
}

func renderRecord(rec docstore.Document) string {
	keys := sortedKeys(rec)
	if len(keys) > maxRecordFields {
		keys = keys[:maxRecordFields]
	}
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+fieldValue(key, rec[key]))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
