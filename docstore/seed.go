package docstore

import (
	"context"
	"fmt"
	"time"
)

// Seed loads the demo dataset the dashboard import scripts normally create.
// It is idempotent: collections that already contain documents are skipped.
func (s *PostgresStore) Seed(ctx context.Context) error {
	now := time.Now().UTC()
	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format(time.RFC3339)
	}

	demo := map[string][]Document{
		Customers: {
			{"customerId": "CUST-0001", "name": "Meridian Holdings Ltd", "kycStatus": "verified", "riskRating": "low", "country": "GB", "createdAt": day(340)},
			{"customerId": "CUST-0002", "name": "Atlas Freight GmbH", "kycStatus": "verified", "riskRating": "medium", "country": "DE", "createdAt": day(190)},
			{"customerId": "CUST-0003", "name": "Sunrise Capital Partners", "kycStatus": "pending", "riskRating": "high", "country": "US", "createdAt": day(12)},
		},
		JournalEntries: {
			{"entryId": "JE-10021", "account": "4000-Revenue", "description": "Q2 subscription revenue", "amount": 182500.00, "currency": "USD", "date": day(20)},
			{"entryId": "JE-10022", "account": "5100-Payroll", "description": "June payroll run", "amount": -96400.50, "currency": "USD", "date": day(14)},
			{"entryId": "JE-10023", "account": "4000-Revenue", "description": "Professional services", "amount": 45100.00, "currency": "USD", "transactionDate": day(6)},
		},
		Payments: {
			{"paymentId": "PAY-55010", "counterparty": "Atlas Freight GmbH", "amount": 12890.00, "currency": "EUR", "status": "settled", "timestamp": day(9)},
			{"paymentId": "PAY-55011", "counterparty": "Meridian Holdings Ltd", "amount": 310000.00, "currency": "USD", "status": "settled", "timestamp": day(3)},
			{"paymentId": "PAY-55012", "counterparty": "Sunrise Capital Partners", "amount": 7800.25, "currency": "USD", "status": "flagged", "timestamp": day(1)},
		},
		Trades: {
			{"tradeId": "TRD-9001", "instrument": "UST 10Y", "side": "buy", "notional": 5000000.00, "status": "settled", "date": day(8)},
			{"tradeId": "TRD-9002", "instrument": "EUR/USD FWD", "side": "sell", "notional": 2500000.00, "status": "pending", "date": day(2)},
		},
		ComplianceChecks: {
			{"checkId": "CMP-301", "category": "AML screening", "status": "passed", "severity": "low", "createdAt": day(15)},
			{"checkId": "CMP-302", "category": "Sanctions list", "status": "passed", "severity": "low", "createdAt": day(10)},
			{"checkId": "CMP-303", "category": "Transaction monitoring", "status": "open", "severity": "high", "createdAt": day(4)},
		},
		AuditReports: {
			{"reportId": "AUD-2024-07", "title": "Q2 Financial Controls Review", "status": "final", "findings": 2.0, "createdAt": day(30)},
			{"reportId": "AUD-2024-08", "title": "Payment Process Walkthrough", "status": "draft", "findings": 1.0, "createdAt": day(5)},
		},
		SystemLogs: {
			{"logId": "LOG-80001", "actor": "j.harris", "action": "export_report", "resource": "AUD-2024-07", "timestamp": day(2)},
			{"logId": "LOG-80002", "actor": "service-account", "action": "bulk_import", "resource": "journal_entries", "timestamp": day(1)},
		},
	}

	for collection, docs := range demo {
		n, err := s.Count(ctx, collection, Filter{})
		if err != nil {
			return fmt.Errorf("seed count %s: %w", collection, err)
		}
		if n > 0 {
			continue
		}
		for _, doc := range docs {
			if err := s.Insert(ctx, collection, doc); err != nil {
				return fmt.Errorf("seed %s: %w", collection, err)
			}
		}
	}
	return nil
}
