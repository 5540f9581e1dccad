package retrieval

import "audit-agent/docstore"

// SampleDataVersion identifies the fallback dataset below. The figures
// mirror what the dashboard tiles show so a demo deployment reads
// consistently across surfaces.
const SampleDataVersion = "2024.2"

// sampleSection is the fixed substitute used for one context section when
// the live store returns nothing and sample fallback is enabled.
type sampleSection struct {
	Summary map[string]any
	Records []docstore.Document
}

var sampleSections = map[string]sampleSection{
	SectionCustomers: {
		Summary: map[string]any{
			"totalActiveCustomers": 1200,
			"kycVerifiedRate":      96.5,
			"pendingReviews":       42,
		},
		Records: []docstore.Document{
			{"customerId": "CUST-0001", "name": "Meridian Holdings Ltd", "kycStatus": "verified", "riskRating": "low"},
			{"customerId": "CUST-0002", "name": "Atlas Freight GmbH", "kycStatus": "verified", "riskRating": "medium"},
			{"customerId": "CUST-0003", "name": "Sunrise Capital Partners", "kycStatus": "pending", "riskRating": "high"},
		},
	},
	SectionTransactions: {
		Summary: map[string]any{
			"totalRevenue":  2450000.0,
			"totalExpenses": 1890000.0,
			"netIncome":     560000.0,
			"entriesPosted": 3184,
		},
		Records: []docstore.Document{
			{"entryId": "JE-10021", "account": "4000-Revenue", "description": "Subscription revenue", "amount": 182500.0, "currency": "USD"},
			{"entryId": "JE-10022", "account": "5100-Payroll", "description": "Monthly payroll run", "amount": -96400.5, "currency": "USD"},
			{"entryId": "JE-10023", "account": "4000-Revenue", "description": "Professional services", "amount": 45100.0, "currency": "USD"},
		},
	},
	SectionPayments: {
		Summary: map[string]any{
			"paymentsSettled": 1874,
			"paymentsFlagged": 12,
			"totalVolume":     8630000.0,
		},
		Records: []docstore.Document{
			{"paymentId": "PAY-55010", "counterparty": "Atlas Freight GmbH", "amount": 12890.0, "currency": "EUR", "status": "settled"},
			{"paymentId": "PAY-55011", "counterparty": "Meridian Holdings Ltd", "amount": 310000.0, "currency": "USD", "status": "settled"},
			{"paymentId": "PAY-55012", "counterparty": "Sunrise Capital Partners", "amount": 7800.25, "currency": "USD", "status": "flagged"},
		},
	},
	SectionTrades: {
		Summary: map[string]any{
			"openPositions":    37,
			"settledThisMonth": 112,
			"grossNotional":    46500000.0,
		},
		Records: []docstore.Document{
			{"tradeId": "TRD-9001", "instrument": "UST 10Y", "side": "buy", "notional": 5000000.0, "status": "settled"},
			{"tradeId": "TRD-9002", "instrument": "EUR/USD FWD", "side": "sell", "notional": 2500000.0, "status": "pending"},
		},
	},
	SectionCompliance: {
		Summary: map[string]any{
			"complianceRate": 94.2,
			"openFindings":   3,
			"checksRun":      156,
			"highSeverity":   1,
		},
		Records: []docstore.Document{
			{"checkId": "CMP-301", "category": "AML screening", "status": "passed", "severity": "low"},
			{"checkId": "CMP-303", "category": "Transaction monitoring", "status": "open", "severity": "high"},
		},
	},
	SectionRiskAssessments: {
		Summary: map[string]any{
			"averageRiskScore":  42.5,
			"highRiskCustomers": 18,
			"fraudAlerts":       4,
		},
		Records: []docstore.Document{
			{"checkId": "CMP-303", "category": "Transaction monitoring", "status": "open", "severity": "high"},
		},
	},
	SectionAuditReports: {
		Summary: map[string]any{
			"reportsPublished": 8,
			"openActions":      5,
		},
		Records: []docstore.Document{
			{"reportId": "AUD-2024-07", "title": "Q2 Financial Controls Review", "status": "final", "findings": 2.0},
			{"reportId": "AUD-2024-08", "title": "Payment Process Walkthrough", "status": "draft", "findings": 1.0},
		},
	},
	SectionSystemLogs: {
		Records: []docstore.Document{
			{"logId": "LOG-80001", "actor": "j.harris", "action": "export_report", "resource": "AUD-2024-07"},
			{"logId": "LOG-80002", "actor": "service-account", "action": "bulk_import", "resource": "journal_entries"},
		},
	},
}

// sampleFor returns the synthetic substitute for a section, or nil when the
// section has none.
func sampleFor(section string) *DomainResult {
	s, ok := sampleSections[section]
	if !ok {
		return nil
	}
	result := &DomainResult{Provenance: ProvenanceSynthetic}
	if len(s.Summary) > 0 {
		result.Summary = make(map[string]any, len(s.Summary))
		for k, v := range s.Summary {
			result.Summary[k] = v
		}
	}
	result.Records = append(result.Records, s.Records...)
	return result
}
