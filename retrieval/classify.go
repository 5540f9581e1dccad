package retrieval

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Domain is one named category of data the retriever may independently
// populate from the document store.
type Domain string

const (
	DomainCustomers  Domain = "customers"
	DomainFinancial  Domain = "financial"
	DomainCompliance Domain = "compliance"
	DomainRisk       Domain = "risk"
	DomainSystemLogs Domain = "systemlogs"
)

// KeywordTableVersion identifies the trigger-term table below. Bump it when
// terms change so logged classifications stay attributable.
const KeywordTableVersion = "2024.2"

// keywordTable maps each domain to its trigger terms. Single words are
// matched against prose tokens, multi-word phrases as lowercase substrings.
// Table order fixes the order of the classifier's output.
var keywordTable = []struct {
	Domain Domain
	Terms  []string
}{
	{DomainCompliance, []string{"compliance", "regulatory", "regulation", "audit", "status", "finding", "findings"}},
	{DomainCustomers, []string{"customer", "customers", "kyc", "client", "clients", "onboarding"}},
	{DomainFinancial, []string{"transaction", "transactions", "payment", "payments", "journal", "revenue", "expense", "expenses", "trade", "trades", "ledger", "cash flow", "net income", "invoice", "invoices"}},
	{DomainRisk, []string{"risk", "risks", "assessment", "fraud", "suspicious"}},
	{DomainSystemLogs, []string{"system", "access", "log", "logs", "login", "activity"}},
}

// Classify reports which domains a query touches. It is a pure function of
// the query string; multiple domains may match and the result preserves
// table order. An empty result means no trigger term was recognized.
func Classify(query string) []Domain {
	lowered := strings.ToLower(query)
	tokens := tokenize(lowered)

	var matched []Domain
	for _, row := range keywordTable {
		if matchesAny(lowered, tokens, row.Terms) {
			matched = append(matched, row.Domain)
		}
	}
	return matched
}

func matchesAny(lowered string, tokens map[string]bool, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(term, " ") {
			if strings.Contains(lowered, term) {
				return true
			}
			continue
		}
		if tokens[term] {
			return true
		}
	}
	return false
}

// tokenize splits a lowercased query into a word set using prose. Tagging
// and entity extraction are disabled; only the tokenizer is needed here.
func tokenize(lowered string) map[string]bool {
	set := make(map[string]bool)

	doc, err := prose.NewDocument(lowered,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		for _, w := range strings.Fields(lowered) {
			set[strings.Trim(w, ".,!?;:'\"")] = true
		}
		return set
	}

	for _, tok := range doc.Tokens() {
		set[tok.Text] = true
	}
	return set
}
