package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gyeh/fraud-signals/internal/signal"
)

// Version is the tool version embedded in every report.
const Version = "1.0.0"

// SignalEntry is one decorated finding inside a provider entry.
type SignalEntry struct {
	SignalType string          `json:"signal_type"`
	Severity   string          `json:"severity"`
	Evidence   signal.Evidence `json:"evidence"`
}

// ProviderMeta is the registry-derived identity block for a provider.
type ProviderMeta struct {
	Name            string
	EntityType      string // "individual", "organization", or "unknown"
	TaxonomyCode    string
	State           string
	EnumerationDate string
}

// UnknownProvider is the placeholder for flagged NPIs absent from the
// registry.
func UnknownProvider() ProviderMeta {
	return ProviderMeta{Name: "Unknown", EntityType: "unknown"}
}

// LifetimeTotals are whole-dataset billing sums for one provider.
type LifetimeTotals struct {
	Paid   float64
	Claims int64
	Benes  int64
}

// ProviderEntry is the report unit for one flagged provider.
type ProviderEntry struct {
	NPI                             string        `json:"npi"`
	ProviderName                    string        `json:"provider_name"`
	EntityType                      string        `json:"entity_type"`
	TaxonomyCode                    string        `json:"taxonomy_code"`
	State                           string        `json:"state"`
	EnumerationDate                 string        `json:"enumeration_date"`
	TotalPaidAllTime                float64       `json:"total_paid_all_time"`
	TotalClaimsAllTime              int64         `json:"total_claims_all_time"`
	TotalUniqueBeneficiariesAllTime int64         `json:"total_unique_beneficiaries_all_time"`
	Signals                         []SignalEntry `json:"signals"`
	EstimatedOverpaymentUSD         float64       `json:"estimated_overpayment_usd"`
	FCARelevance                    FCARelevance  `json:"fca_relevance"`
}

// BuildProviderEntry assembles one provider's report entry from its findings:
// per-finding severity and overpayment, summed overpayment, and the FCA
// relevance of the most severe finding (first wins on ties).
func BuildProviderEntry(npi string, meta ProviderMeta, lifetime LifetimeTotals, findings []signal.Finding) ProviderEntry {
	entries := make([]SignalEntry, 0, len(findings))
	var totalOverpayment float64

	bestRank := -1
	var bestSignal signal.ID
	for _, f := range findings {
		severity := ClassifySeverity(f)
		totalOverpayment += EstimateOverpayment(f)
		entries = append(entries, SignalEntry{
			SignalType: f.Signal.String(),
			Severity:   severity,
			Evidence:   f.Evidence,
		})
		if rank := severityRank[severity]; rank > bestRank {
			bestRank = rank
			bestSignal = f.Signal
		}
	}

	return ProviderEntry{
		NPI:                             npi,
		ProviderName:                    meta.Name,
		EntityType:                      meta.EntityType,
		TaxonomyCode:                    meta.TaxonomyCode,
		State:                           meta.State,
		EnumerationDate:                 meta.EnumerationDate,
		TotalPaidAllTime:                round2(lifetime.Paid),
		TotalClaimsAllTime:              lifetime.Claims,
		TotalUniqueBeneficiariesAllTime: lifetime.Benes,
		Signals:                         entries,
		EstimatedOverpaymentUSD:         round2(totalOverpayment),
		FCARelevance:                    relevanceFor(bestSignal),
	}
}

// SignalCounts tallies findings per category; absent categories stay zero.
type SignalCounts struct {
	ExcludedProvider         int `json:"excluded_provider"`
	BillingOutlier           int `json:"billing_outlier"`
	RapidEscalation          int `json:"rapid_escalation"`
	WorkforceImpossibility   int `json:"workforce_impossibility"`
	SharedOfficial           int `json:"shared_official"`
	GeographicImplausibility int `json:"geographic_implausibility"`
}

// Set records the tally for one signal.
func (c *SignalCounts) Set(id signal.ID, n int) {
	switch id {
	case signal.ExcludedProvider:
		c.ExcludedProvider = n
	case signal.BillingOutlier:
		c.BillingOutlier = n
	case signal.RapidEscalation:
		c.RapidEscalation = n
	case signal.WorkforceImpossibility:
		c.WorkforceImpossibility = n
	case signal.SharedOfficial:
		c.SharedOfficial = n
	case signal.GeographicImplausibility:
		c.GeographicImplausibility = n
	}
}

// Report is the complete fraud signals output.
type Report struct {
	GeneratedAt           time.Time       `json:"generated_at"`
	ToolVersion           string          `json:"tool_version"`
	TotalProvidersScanned int             `json:"total_providers_scanned"`
	TotalProvidersFlagged int             `json:"total_providers_flagged"`
	SignalCounts          SignalCounts    `json:"signal_counts"`
	FlaggedProviders      []ProviderEntry `json:"flagged_providers"`
}

// Build assembles the final report structure.
func Build(flagged []ProviderEntry, scanned int, counts SignalCounts) *Report {
	if flagged == nil {
		flagged = []ProviderEntry{}
	}
	return &Report{
		GeneratedAt:           time.Now().UTC(),
		ToolVersion:           Version,
		TotalProvidersScanned: scanned,
		TotalProvidersFlagged: len(flagged),
		SignalCounts:          counts,
		FlaggedProviders:      flagged,
	}
}

// Marshal renders the report as indented JSON. Any unserializable value is a
// programming error and fails loudly.
func (r *Report) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return data, nil
}

// Write serializes the report to the given path, or to stdout for "-".
func (r *Report) Write(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if path == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
