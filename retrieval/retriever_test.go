package retrieval

import (
	"context"
	"errors"
	"testing"

	"audit-agent/config"
	"audit-agent/docstore"

	"go.uber.org/zap"
)

type findCall struct {
	collection string
	filter     docstore.Filter
}

// fakeStore implements docstore.Store for retriever tests.
type fakeStore struct {
	docs      map[string][]docstore.Document
	failing   map[string]bool
	findCalls []findCall
}

func (f *fakeStore) Find(_ context.Context, collection string, filter docstore.Filter, limit int) ([]docstore.Document, error) {
	f.findCalls = append(f.findCalls, findCall{collection: collection, filter: filter})
	if f.failing[collection] {
		return nil, errors.New("connection refused")
	}
	docs := f.docs[collection]
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (f *fakeStore) Count(_ context.Context, collection string, _ docstore.Filter) (int64, error) {
	if f.failing[collection] {
		return 0, errors.New("connection refused")
	}
	return int64(len(f.docs[collection])), nil
}

func newTestRetriever(store docstore.Store, sampleFallback bool) *Retriever {
	cfg := &config.Config{RecordLimit: 10, SampleFallbackEnabled: sampleFallback}
	logger, _ := zap.NewDevelopment()
	return NewRetriever(store, cfg, logger)
}

func TestRetrieveSubstitutesSampleWhenStoreEmpty(t *testing.T) {
	r := newTestRetriever(&fakeStore{}, true)

	c := r.Retrieve(context.Background(), "Show customer data", 0)

	result := c.Get(SectionCustomers)
	if !result.Populated() {
		t.Fatal("expected customers section to be populated from sample fallback")
	}
	if result.Provenance != ProvenanceSynthetic {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceSynthetic)
	}
	if got := result.Summary["totalActiveCustomers"]; got != 1200 {
		t.Errorf("totalActiveCustomers = %v, want 1200", got)
	}
	if c.Provenance() != ProvenanceSynthetic {
		t.Errorf("context provenance = %q, want synthetic", c.Provenance())
	}
}

func TestRetrieveEmptyWhenFallbackDisabled(t *testing.T) {
	r := newTestRetriever(&fakeStore{}, false)

	c := r.Retrieve(context.Background(), "Show customer data", 0)

	if !c.Empty() {
		t.Error("expected empty context with empty store and fallback disabled")
	}
	if c.Provenance() != ProvenanceEmpty {
		t.Errorf("context provenance = %q, want empty", c.Provenance())
	}
}

func TestRetrieveUsesRealDataWhenPresent(t *testing.T) {
	store := &fakeStore{docs: map[string][]docstore.Document{
		docstore.Customers: {
			{"customerId": "CUST-9000", "name": "Test Corp", "kycStatus": "verified"},
		},
	}}
	r := newTestRetriever(store, true)

	c := r.Retrieve(context.Background(), "Show customer data", 0)

	result := c.Get(SectionCustomers)
	if result.Provenance != ProvenanceReal {
		t.Fatalf("provenance = %q, want real", result.Provenance)
	}
	if len(result.Records) != 1 || result.Records[0].String("name") != "Test Corp" {
		t.Errorf("unexpected records: %v", result.Records)
	}
	if got := result.Summary["totalActiveCustomers"]; got != int64(1) {
		t.Errorf("live summary totalActiveCustomers = %v, want 1", got)
	}
}

func TestRetrieveRetriesUnfilteredBeforeFallback(t *testing.T) {
	store := &fakeStore{}
	r := newTestRetriever(store, true)

	r.Retrieve(context.Background(), "What transactions occurred last month?", 0)

	var journalCalls []findCall
	for _, call := range store.findCalls {
		if call.collection == docstore.JournalEntries {
			journalCalls = append(journalCalls, call)
		}
	}
	if len(journalCalls) != 2 {
		t.Fatalf("journal_entries find calls = %d, want 2 (filtered then unfiltered)", len(journalCalls))
	}
	if journalCalls[0].filter.Since.IsZero() {
		t.Error("first find should carry the date filter")
	}
	if len(journalCalls[0].filter.SinceFields) < 2 {
		t.Error("date filter should OR across multiple field aliases")
	}
	if !journalCalls[1].filter.Empty() {
		t.Error("second find should be unfiltered")
	}
}

func TestRetrieveFinancialCarriesSampleMetadata(t *testing.T) {
	r := newTestRetriever(&fakeStore{}, true)

	c := r.Retrieve(context.Background(), "What transactions occurred last month?", 0)

	result := c.Get(SectionTransactions)
	if !result.Populated() {
		t.Fatal("expected transactions section populated")
	}
	if got := result.Summary["totalRevenue"]; got != 2450000.0 {
		t.Errorf("totalRevenue = %v, want 2450000", got)
	}
}

func TestRetrieveStoreErrorTreatedAsZeroResults(t *testing.T) {
	store := &fakeStore{failing: map[string]bool{docstore.Customers: true}}
	r := newTestRetriever(store, true)

	c := r.Retrieve(context.Background(), "Show customer data", 0)

	result := c.Get(SectionCustomers)
	if result.Provenance != ProvenanceSynthetic {
		t.Errorf("store error should trigger sample fallback, got provenance %q", result.Provenance)
	}
}

func TestRetrieveBroadPullWhenNoKeywordsMatch(t *testing.T) {
	store := &fakeStore{docs: map[string][]docstore.Document{
		docstore.Customers: {{"customerId": "CUST-1", "name": "Acme"}},
	}}
	r := newTestRetriever(store, false)

	c := r.Retrieve(context.Background(), "tell me something interesting", 0)

	if c.Get(SectionCustomers) == nil || c.Get(SectionTransactions) == nil || c.Get(SectionCompliance) == nil {
		t.Fatal("broad pull should touch the default sections")
	}
	if c.Get(SectionCustomers).Provenance != ProvenanceReal {
		t.Error("populated broad-pull section should be real")
	}
	if c.Get(SectionTransactions).Populated() {
		t.Error("empty collections stay empty with fallback disabled")
	}
}

func TestRetrieveMultiDomainIndependence(t *testing.T) {
	r := newTestRetriever(&fakeStore{}, true)

	c := r.Retrieve(context.Background(), "compare customer growth with revenue", 0)

	for _, section := range []string{SectionCustomers, SectionTransactions, SectionPayments, SectionTrades} {
		if !c.Get(section).Populated() {
			t.Errorf("section %q should be populated independently", section)
		}
	}
}

func TestRetrieveNeverPanicsOnNilStoreData(t *testing.T) {
	r := newTestRetriever(&fakeStore{}, false)
	queries := []string{"", "customers", "risk fraud audit revenue logs", "last month"}
	for _, q := range queries {
		c := r.Retrieve(context.Background(), q, 0)
		if c == nil {
			t.Fatalf("Retrieve(%q) returned nil context", q)
		}
	}
}
