package engine

import (
	"strings"

	"github.com/gyeh/fraud-signals/internal/ingest"
	"github.com/gyeh/fraud-signals/internal/report"
	"github.com/gyeh/fraud-signals/internal/signal"
)

// enrich groups findings by provider, attaches registry identity and lifetime
// billing totals, and builds the per-provider report entries. Providers keep
// the order in which they were first flagged.
func (e *Engine) enrich(ds *Datasets, findings []signal.Finding) []report.ProviderEntry {
	byNPI := make(map[string][]signal.Finding)
	var order []string
	for _, f := range findings {
		if _, ok := byNPI[f.NPI]; !ok {
			order = append(order, f.NPI)
		}
		byNPI[f.NPI] = append(byNPI[f.NPI], f)
	}
	if len(order) == 0 {
		return nil
	}

	meta := registryIndex(ds.Registry)
	lifetime := lifetimeTotals(ds.Claims.Rows, byNPI)

	entries := make([]report.ProviderEntry, 0, len(order))
	for _, npi := range order {
		pm, ok := meta[npi]
		if !ok {
			pm = report.UnknownProvider()
			e.Log.Debug("flagged provider missing from registry", "npi", npi)
		}

		for _, f := range byNPI[npi] {
			if ev, ok := f.Evidence.(*signal.GeographicEvidence); ok && ev.State == "" {
				ev.State = pm.State
			}
		}

		entries = append(entries, report.BuildProviderEntry(npi, pm, lifetime[npi], byNPI[npi]))
	}
	return entries
}

// registryIndex builds an NPI -> identity map from the registry. The first
// record per NPI wins.
func registryIndex(rows []ingest.RegistryRow) map[string]report.ProviderMeta {
	out := make(map[string]report.ProviderMeta, len(rows))
	for _, r := range rows {
		if !ingest.ValidNPI(r.NPI) {
			continue
		}
		if _, ok := out[r.NPI]; ok {
			continue
		}
		out[r.NPI] = report.ProviderMeta{
			Name:            providerName(r),
			EntityType:      entityType(r.EntityTypeCode),
			TaxonomyCode:    r.TaxonomyCode,
			State:           r.State,
			EnumerationDate: r.EnumerationDate,
		}
	}
	return out
}

func providerName(r ingest.RegistryRow) string {
	if r.EntityTypeCode == "1" {
		if name := strings.TrimSpace(r.LastName + " " + r.FirstName); name != "" {
			return name
		}
	} else if r.OrgName != "" {
		return r.OrgName
	}
	return "Unknown"
}

func entityType(code string) string {
	switch code {
	case "1":
		return "individual"
	case "2":
		return "organization"
	default:
		return "unknown"
	}
}

// lifetimeTotals sums whole-dataset billing for the flagged providers only.
// Totals follow the billing NPI column; a provider flagged solely through the
// servicing column reports zero lifetime billing.
func lifetimeTotals(rows []ingest.ClaimRow, flagged map[string][]signal.Finding) map[string]report.LifetimeTotals {
	out := make(map[string]report.LifetimeTotals, len(flagged))
	for _, row := range rows {
		if _, ok := flagged[row.NPI]; !ok {
			continue
		}
		t := out[row.NPI]
		t.Paid += row.Payment
		t.Claims += row.Claims
		if row.HasBenes {
			t.Benes += row.Benes
		}
		out[row.NPI] = t
	}
	return out
}
