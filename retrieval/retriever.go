package retrieval

import (
	"context"
	"fmt"
	"time"

	"audit-agent/config"
	"audit-agent/docstore"
	apperrors "audit-agent/errors"

	"go.uber.org/zap"
)

// sectionSpec binds one context section to its backing collection, the
// timestamp aliases legacy importers used for it, and any fixed predicate.
type sectionSpec struct {
	Section     string
	Collection  string
	DateFields  []string
	Equals      map[string]string
	WithSummary bool
}

// domainSections maps each classified domain to the sections it populates.
// Sections are retrieved independently; a multi-domain query fills several.
var domainSections = map[Domain][]sectionSpec{
	DomainCustomers: {
		{Section: SectionCustomers, Collection: docstore.Customers, DateFields: []string{"createdAt"}, WithSummary: true},
	},
	DomainFinancial: {
		{Section: SectionTransactions, Collection: docstore.JournalEntries, DateFields: []string{"date", "transactionDate", "createdAt", "timestamp"}, WithSummary: true},
		{Section: SectionPayments, Collection: docstore.Payments, DateFields: []string{"timestamp", "date", "createdAt"}},
		{Section: SectionTrades, Collection: docstore.Trades, DateFields: []string{"date", "tradeDate", "createdAt"}},
	},
	DomainCompliance: {
		{Section: SectionCompliance, Collection: docstore.ComplianceChecks, DateFields: []string{"createdAt", "date"}, WithSummary: true},
		{Section: SectionAuditReports, Collection: docstore.AuditReports, DateFields: []string{"createdAt"}},
	},
	DomainRisk: {
		{Section: SectionRiskAssessments, Collection: docstore.ComplianceChecks, DateFields: []string{"createdAt", "date"}, Equals: map[string]string{"severity": "high"}},
	},
	DomainSystemLogs: {
		{Section: SectionSystemLogs, Collection: docstore.SystemLogs, DateFields: []string{"timestamp", "createdAt"}},
	},
}

// broadSections is the default pull when no domain keyword matches.
var broadSections = []sectionSpec{
	{Section: SectionCustomers, Collection: docstore.Customers, WithSummary: true},
	{Section: SectionTransactions, Collection: docstore.JournalEntries, WithSummary: true},
	{Section: SectionCompliance, Collection: docstore.ComplianceChecks, WithSummary: true},
}

const broadPullLimit = 5

// Retriever assembles a request-scoped Context from the document store.
// Every lookup is best-effort: store errors are downgraded to zero results
// and, when sample fallback is enabled, zero results are substituted with
// the fixed demo dataset. Retrieve never returns an error.
type Retriever struct {
	store  docstore.Store
	cfg    *config.Config
	logger *zap.Logger
}

func NewRetriever(store docstore.Store, cfg *config.Config, logger *zap.Logger) *Retriever {
	return &Retriever{store: store, cfg: cfg, logger: logger}
}

// Retrieve populates a Context for the query. limit bounds records per
// section; limit <= 0 uses the configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, limit int) *Context {
	if limit <= 0 {
		limit = r.cfg.RecordLimit
	}

	domains := Classify(query)
	since, hasSince := ParseDatePhrase(query, time.Now())

	result := NewContext()

	if len(domains) == 0 {
		r.logger.Debug("No domain keywords matched, running broad pull", zap.String("query", query))
		pull := limit
		if pull > broadPullLimit {
			pull = broadPullLimit
		}
		for _, spec := range broadSections {
			result.Set(spec.Section, r.fetchSection(ctx, spec, docstore.Filter{}, pull))
		}
		return result
	}

	r.logger.Debug("Classified query",
		zap.String("query", query),
		zap.Any("domains", domains),
		zap.Bool("date_filter", hasSince))

	for _, domain := range domains {
		for _, spec := range domainSections[domain] {
			if result.Get(spec.Section) != nil {
				continue
			}
			filter := docstore.Filter{Equals: spec.Equals}
			if hasSince {
				filter.Since = since
				filter.SinceFields = spec.DateFields
			}
			result.Set(spec.Section, r.fetchSection(ctx, spec, filter, limit))
		}
	}
	return result
}

// find wraps the store lookup so every failure surfaces as a retrieval
// source error naming its collection.
func (r *Retriever) find(ctx context.Context, collection string, filter docstore.Filter, limit int) ([]docstore.Document, error) {
	docs, err := r.store.Find(ctx, collection, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrRetrievalSource, collection, err)
	}
	return docs, nil
}

// fetchSection applies the fallback policy for one section: filtered find,
// then unfiltered find, then the synthetic sample when enabled.
func (r *Retriever) fetchSection(ctx context.Context, spec sectionSpec, filter docstore.Filter, limit int) *DomainResult {
	docs, err := r.find(ctx, spec.Collection, filter, limit)
	if err != nil {
		r.logger.Warn("Document store lookup failed, treating as zero results", zap.Error(err))
	}

	if len(docs) == 0 && !filter.Empty() {
		docs, err = r.find(ctx, spec.Collection, docstore.Filter{}, limit)
		if err != nil {
			r.logger.Warn("Unfiltered retry failed, treating as zero results", zap.Error(err))
		}
	}

	if len(docs) == 0 {
		if r.cfg.SampleFallbackEnabled {
			if sample := sampleFor(spec.Section); sample != nil {
				r.logger.Debug("Substituting sample data for empty section",
					zap.String("section", spec.Section),
					zap.String("sample_version", SampleDataVersion))
				return sample
			}
		}
		return &DomainResult{Provenance: ProvenanceEmpty}
	}

	result := &DomainResult{Provenance: ProvenanceReal, Records: docs}
	if spec.WithSummary {
		result.Summary = r.liveSummary(ctx, spec.Section)
	}
	return result
}

// liveSummary computes count-based aggregates for sections that carry a
// metadata object. Each count is best-effort; a failed count just drops the
// field rather than failing the section.
func (r *Retriever) liveSummary(ctx context.Context, section string) map[string]any {
	summary := make(map[string]any)

	addCount := func(key, collection string, filter docstore.Filter) {
		n, err := r.store.Count(ctx, collection, filter)
		if err != nil {
			r.logger.Debug("Summary count failed", zap.String("collection", collection), zap.Error(err))
			return
		}
		summary[key] = n
	}

	switch section {
	case SectionCustomers:
		addCount("totalActiveCustomers", docstore.Customers, docstore.Filter{})
		addCount("kycVerified", docstore.Customers, docstore.Filter{Equals: map[string]string{"kycStatus": "verified"}})
	case SectionTransactions:
		addCount("entriesPosted", docstore.JournalEntries, docstore.Filter{})
	case SectionCompliance:
		addCount("checksRun", docstore.ComplianceChecks, docstore.Filter{})
		addCount("openFindings", docstore.ComplianceChecks, docstore.Filter{Equals: map[string]string{"status": "open"}})
	}

	if len(summary) == 0 {
		return nil
	}
	return summary
}
