package retrieval

import "audit-agent/docstore"

// Provenance tags where a section's data came from. Synthetic sections are
// demo substitutes and must stay visibly distinguishable from real results
// all the way to the API response.
type Provenance string

const (
	ProvenanceReal      Provenance = "real"
	ProvenanceEmpty     Provenance = "empty"
	ProvenanceSynthetic Provenance = "synthetic"
)

// Section names in the fixed priority order the formatter and the fallback
// responder both follow.
const (
	SectionCompliance      = "compliance"
	SectionCustomers       = "customers"
	SectionTransactions    = "transactions"
	SectionPayments        = "payments"
	SectionTrades          = "trades"
	SectionRiskAssessments = "riskAssessments"
	SectionAuditReports    = "auditReports"
	SectionSystemLogs      = "systemLogs"
)

// SectionOrder is the render/inspect priority, highest first.
var SectionOrder = []string{
	SectionCompliance,
	SectionCustomers,
	SectionTransactions,
	SectionPayments,
	SectionTrades,
	SectionRiskAssessments,
	SectionAuditReports,
	SectionSystemLogs,
}

// DomainResult is one populated section of a Context. When Summary is
// present its aggregate totals take precedence over counting Records: the
// record list is a truncated (possibly synthetic) sample and undercounts
// the true total.
type DomainResult struct {
	Provenance Provenance           `json:"provenance"`
	Summary    map[string]any       `json:"summary,omitempty"`
	Records    []docstore.Document  `json:"records,omitempty"`
}

// Populated reports whether the result carries any usable data.
func (r *DomainResult) Populated() bool {
	return r != nil && (len(r.Summary) > 0 || len(r.Records) > 0)
}

// Context is the per-request bundle of retrieved (or synthesized) data used
// to ground an answer. It is built once per request and never shared.
type Context struct {
	Sections map[string]*DomainResult `json:"sections"`
}

func NewContext() *Context {
	return &Context{Sections: make(map[string]*DomainResult)}
}

func (c *Context) Set(name string, result *DomainResult) {
	if result == nil {
		return
	}
	c.Sections[name] = result
}

func (c *Context) Get(name string) *DomainResult {
	return c.Sections[name]
}

// Empty reports whether no section carries data.
func (c *Context) Empty() bool {
	for _, r := range c.Sections {
		if r.Populated() {
			return false
		}
	}
	return true
}

// Provenance rolls section provenance up to a single response-level tag:
// synthetic if any populated section is synthetic, real if all populated
// sections are real, empty otherwise.
func (c *Context) Provenance() Provenance {
	anyReal := false
	for _, r := range c.Sections {
		if !r.Populated() {
			continue
		}
		if r.Provenance == ProvenanceSynthetic {
			return ProvenanceSynthetic
		}
		if r.Provenance == ProvenanceReal {
			anyReal = true
		}
	}
	if anyReal {
		return ProvenanceReal
	}
	return ProvenanceEmpty
}
