package signal

import (
	"time"

	"github.com/gyeh/fraud-signals/internal/ingest"
)

// ExcludedBilling flags providers billing after an active LEIE exclusion.
// Only claims strictly after the exclusion date count; billing on the
// exclusion date itself is not flagged. When the dataset carries a servicing
// provider column the check runs against it too and the two result sets are
// unioned per NPI.
func ExcludedBilling(claims *ingest.ClaimsData, exclusions []ingest.ExclusionRow) ([]Finding, error) {
	active := make(map[string][]ingest.ExclusionRow)
	for _, e := range exclusions {
		if ingest.ValidNPI(e.NPI) && e.Active() {
			active[e.NPI] = append(active[e.NPI], e)
		}
	}
	if len(active) == 0 {
		return nil, nil
	}

	billing := checkExcludedColumn(claims.Rows, active, func(r ingest.ClaimRow) string { return r.NPI })

	merged := billing
	if claims.Columns.ServicingNPI != "" {
		servicing := checkExcludedColumn(claims.Rows, active, func(r ingest.ClaimRow) string { return r.ServicingNPI })
		merged = unionExcluded(billing, servicing)
	}

	var findings []Finding
	for _, npi := range merged.order {
		agg := merged.byNPI[npi]
		findings = append(findings, Finding{
			NPI:    npi,
			Signal: ExcludedProvider,
			Evidence: &ExcludedBillingEvidence{
				ExclusionDate:        agg.exclDate.Format("2006-01-02"),
				ExclusionType:        agg.exclType,
				PostExclusionPaid:    agg.paid,
				PostExclusionClaims:  agg.claims,
				FirstPostExclBilling: agg.first.Format("2006-01-02"),
				LastPostExclBilling:  agg.last.Format("2006-01-02"),
			},
		})
	}
	return findings, nil
}

type exclAgg struct {
	paid     float64
	claims   int64
	exclDate time.Time
	exclType string
	first    time.Time
	last     time.Time
}

type exclResult struct {
	byNPI map[string]*exclAgg
	order []string
}

// checkExcludedColumn joins one NPI column of the claims data against the
// active exclusions and aggregates post-exclusion billing per NPI. Providers
// whose post-exclusion payment sum is not positive are dropped.
func checkExcludedColumn(rows []ingest.ClaimRow, active map[string][]ingest.ExclusionRow, npiOf func(ingest.ClaimRow) string) exclResult {
	res := exclResult{byNPI: make(map[string]*exclAgg)}

	for _, row := range rows {
		npi := npiOf(row)
		if !ingest.ValidNPI(npi) || !row.HasDate {
			continue
		}
		excls, ok := active[npi]
		if !ok {
			continue
		}
		for _, e := range excls {
			if !row.ServiceDate.After(e.ExclusionDate) {
				continue
			}
			agg, ok := res.byNPI[npi]
			if !ok {
				agg = &exclAgg{
					exclDate: e.ExclusionDate,
					exclType: e.ExclusionType,
					first:    row.ServiceDate,
					last:     row.ServiceDate,
				}
				res.byNPI[npi] = agg
				res.order = append(res.order, npi)
			}
			agg.paid += row.Payment
			agg.claims += row.Claims
			if row.ServiceDate.Before(agg.first) {
				agg.first = row.ServiceDate
			}
			if row.ServiceDate.After(agg.last) {
				agg.last = row.ServiceDate
			}
		}
	}

	// Keep only positive post-exclusion payment.
	filtered := exclResult{byNPI: make(map[string]*exclAgg)}
	for _, npi := range res.order {
		if agg := res.byNPI[npi]; agg.paid > 0 {
			filtered.byNPI[npi] = agg
			filtered.order = append(filtered.order, npi)
		}
	}
	return filtered
}

// unionExcluded merges billing and servicing results: sums per NPI, keeps
// the billing side's exclusion metadata when both matched, and widens the
// billing date range.
func unionExcluded(billing, servicing exclResult) exclResult {
	out := exclResult{byNPI: make(map[string]*exclAgg)}

	for _, npi := range billing.order {
		agg := *billing.byNPI[npi]
		out.byNPI[npi] = &agg
		out.order = append(out.order, npi)
	}
	for _, npi := range servicing.order {
		src := servicing.byNPI[npi]
		agg, ok := out.byNPI[npi]
		if !ok {
			cp := *src
			out.byNPI[npi] = &cp
			out.order = append(out.order, npi)
			continue
		}
		agg.paid += src.paid
		agg.claims += src.claims
		if src.first.Before(agg.first) {
			agg.first = src.first
		}
		if src.last.After(agg.last) {
			agg.last = src.last
		}
	}
	return out
}
