package engine

import (
	"fmt"
	"strings"

	"audit-agent/format"
	"audit-agent/retrieval"
)

// fallbackRule is one (predicate, template) pair. Rules are evaluated top
// to bottom; the first one that applies renders the answer. The catch-all
// help message at the bottom keeps FallbackAnswer total.
type fallbackRule struct {
	name    string
	applies func(query string, c *retrieval.Context) bool
	render  func(query string, c *retrieval.Context) string
}

var fallbackRules = []fallbackRule{
	{
		name: "compliance",
		applies: func(_ string, c *retrieval.Context) bool {
			return c.Get(retrieval.SectionCompliance).Populated()
		},
		render: renderCompliance,
	},
	{
		name: "customers",
		applies: func(_ string, c *retrieval.Context) bool {
			return c.Get(retrieval.SectionCustomers).Populated()
		},
		render: renderCustomers,
	},
	{
		name: "financial",
		applies: func(_ string, c *retrieval.Context) bool {
			return c.Get(retrieval.SectionTransactions).Populated()
		},
		render: renderFinancial,
	},
	{
		name: "payments",
		applies: func(_ string, c *retrieval.Context) bool {
			return c.Get(retrieval.SectionPayments).Populated()
		},
		render: renderPayments,
	},
	{
		name: "no-data-guidance",
		applies: func(query string, c *retrieval.Context) bool {
			return c.Empty() && len(retrieval.Classify(query)) > 0
		},
		render: renderNoData,
	},
}

const helpMessage = "I could not find data matching your question. I can answer questions about " +
	"customers and KYC status, financial transactions and revenue, payments, trades, " +
	"compliance status and audit findings, risk assessments, and system activity logs. " +
	"Try asking, for example: \"Show customer data\" or \"What transactions occurred last month?\""

// FallbackAnswer is the deterministic, LLM-free responder used when every
// generation backend is unavailable. It is a pure, total function of the
// query and context: it never fails and always returns a non-empty answer.
func FallbackAnswer(query string, c *retrieval.Context) string {
	if c == nil {
		c = retrieval.NewContext()
	}
	for _, rule := range fallbackRules {
		if rule.applies(query, c) {
			return rule.render(query, c)
		}
	}
	return helpMessage
}

func renderCompliance(_ string, c *retrieval.Context) string {
	r := c.Get(retrieval.SectionCompliance)

	var clauses []string
	if rate, ok := summaryNumber(r, "complianceRate"); ok {
		clauses = append(clauses, "the overall compliance rate is "+format.Percent(rate))
	}
	if open, ok := summaryNumber(r, "openFindings"); ok {
		clauses = append(clauses, format.Count(int64(open))+" findings are open")
	}
	if checks, ok := summaryNumber(r, "checksRun"); ok {
		clauses = append(clauses, format.Count(int64(checks))+" checks have been run")
	}
	if high, ok := summaryNumber(r, "highSeverity"); ok && high > 0 {
		clauses = append(clauses, format.Count(int64(high))+" of the open findings are high severity")
	}

	if len(clauses) == 0 {
		return fmt.Sprintf("I found %s recent compliance check records%s",
			format.Count(int64(len(r.Records))), recordExamples(r, "category")) + demoNote(r)
	}
	return "Compliance status: " + joinClauses(clauses) + "." + demoNote(r)
}

func renderCustomers(_ string, c *retrieval.Context) string {
	r := c.Get(retrieval.SectionCustomers)

	var clauses []string
	if total, ok := summaryNumber(r, "totalActiveCustomers"); ok {
		clauses = append(clauses, "the dashboard tracks "+format.Count(int64(total))+" active customers")
	}
	if rate, ok := summaryNumber(r, "kycVerifiedRate"); ok {
		clauses = append(clauses, format.Percent(rate)+" have completed KYC verification")
	}
	if verified, ok := summaryNumber(r, "kycVerified"); ok {
		clauses = append(clauses, format.Count(int64(verified))+" are KYC verified")
	}
	if pending, ok := summaryNumber(r, "pendingReviews"); ok {
		clauses = append(clauses, format.Count(int64(pending))+" accounts are awaiting review")
	}

	if len(clauses) == 0 {
		return fmt.Sprintf("I found %s customer records%s",
			format.Count(int64(len(r.Records))), recordExamples(r, "name")) + demoNote(r)
	}
	return "Customer overview: " + joinClauses(clauses) + "." + demoNote(r)
}

func renderFinancial(_ string, c *retrieval.Context) string {
	r := c.Get(retrieval.SectionTransactions)

	var clauses []string
	if revenue, ok := summaryNumber(r, "totalRevenue"); ok {
		clauses = append(clauses, "total revenue recorded is "+format.Currency(revenue))
	}
	if expenses, ok := summaryNumber(r, "totalExpenses"); ok {
		clauses = append(clauses, "total expenses are "+format.Currency(expenses))
	}
	if net, ok := summaryNumber(r, "netIncome"); ok {
		clauses = append(clauses, "net income is "+format.Currency(net))
	}
	if entries, ok := summaryNumber(r, "entriesPosted"); ok {
		clauses = append(clauses, format.Count(int64(entries))+" journal entries are posted")
	}

	if len(clauses) == 0 {
		return fmt.Sprintf("I found %s recent journal entries%s",
			format.Count(int64(len(r.Records))), recordExamples(r, "description")) + demoNote(r)
	}
	return "Financial overview: " + joinClauses(clauses) + "." + demoNote(r)
}

func renderPayments(_ string, c *retrieval.Context) string {
	r := c.Get(retrieval.SectionPayments)

	var clauses []string
	if settled, ok := summaryNumber(r, "paymentsSettled"); ok {
		clauses = append(clauses, format.Count(int64(settled))+" payments have settled")
	}
	if flagged, ok := summaryNumber(r, "paymentsFlagged"); ok {
		clauses = append(clauses, format.Count(int64(flagged))+" are flagged for review")
	}
	if volume, ok := summaryNumber(r, "totalVolume"); ok {
		clauses = append(clauses, "total payment volume is "+format.Currency(volume))
	}

	if len(clauses) == 0 {
		return fmt.Sprintf("I found %s recent payment records%s",
			format.Count(int64(len(r.Records))), recordExamples(r, "counterparty")) + demoNote(r)
	}
	return "Payments overview: " + joinClauses(clauses) + "." + demoNote(r)
}

func renderNoData(query string, _ *retrieval.Context) string {
	domains := retrieval.Classify(query)
	names := make([]string, 0, len(domains))
	for _, d := range domains {
		names = append(names, domainLabel(d))
	}
	return fmt.Sprintf("No %s data was found in the audit database. "+
		"The relevant collections appear to be empty; import data through the dashboard "+
		"or broaden the date range and try again.", strings.Join(names, " or "))
}

func domainLabel(d retrieval.Domain) string {
	switch d {
	case retrieval.DomainCustomers:
		return "customer"
	case retrieval.DomainFinancial:
		return "financial transaction"
	case retrieval.DomainCompliance:
		return "compliance"
	case retrieval.DomainRisk:
		return "risk assessment"
	case retrieval.DomainSystemLogs:
		return "system activity"
	}
	return string(d)
}

// demoNote appends the provenance disclaimer for synthetic sections.
func demoNote(r *retrieval.DomainResult) string {
	if r != nil && r.Provenance == retrieval.ProvenanceSynthetic {
		return " Note: these figures come from demonstration data, not live records."
	}
	return ""
}

// recordExamples renders up to three values of a field for records-only
// sections, e.g. ", including Meridian Holdings Ltd and Atlas Freight GmbH."
func recordExamples(r *retrieval.DomainResult, field string) string {
	var examples []string
	for _, rec := range r.Records {
		if v := rec.String(field); v != "" {
			examples = append(examples, v)
		}
		if len(examples) == 3 {
			break
		}
	}
	if len(examples) == 0 {
		return "."
	}
	return ", including " + joinClauses(examples) + "."
}

// joinClauses joins with commas and a final "and".
func joinClauses(clauses []string) string {
	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	case 2:
		return clauses[0] + " and " + clauses[1]
	default:
		return strings.Join(clauses[:len(clauses)-1], ", ") + " and " + clauses[len(clauses)-1]
	}
}

// summaryNumber reads a numeric summary field regardless of the concrete
// numeric type the source produced.
func summaryNumber(r *retrieval.DomainResult, key string) (float64, bool) {
	if r == nil || r.Summary == nil {
		return 0, false
	}
	switch v := r.Summary[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
