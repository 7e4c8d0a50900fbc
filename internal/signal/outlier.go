package signal

import "github.com/gyeh/fraud-signals/internal/ingest"

// VolumeOutlier flags providers whose total payment exceeds the 99th
// percentile of their (taxonomy, state) peer group. Peer groups smaller than
// the configured minimum are discarded to avoid tiny-cohort false positives.
func VolumeOutlier(claims *ingest.ClaimsData, registry []ingest.RegistryRow, th Thresholds) ([]Finding, error) {
	totals := paymentByNPI(claims.Rows)

	type peerKey struct{ taxonomy, state string }
	meta := make(map[string]peerKey)
	for _, r := range registry {
		if _, ok := meta[r.NPI]; !ok {
			meta[r.NPI] = peerKey{taxonomy: r.TaxonomyCode, state: r.State}
		}
	}

	// Peer group totals, for providers present in the registry.
	groups := make(map[peerKey][]float64)
	for _, npi := range totals.order {
		if key, ok := meta[npi]; ok {
			groups[key] = append(groups[key], totals.paid[npi])
		}
	}

	type peerStats struct {
		p99    float64
		median float64
	}
	stats := make(map[peerKey]peerStats)
	for key, vals := range groups {
		if len(vals) < th.PeerGroupMin {
			continue
		}
		stats[key] = peerStats{p99: quantile(vals, 0.99), median: median(vals)}
	}

	var findings []Finding
	for _, npi := range totals.order {
		key, ok := meta[npi]
		if !ok {
			continue
		}
		st, ok := stats[key]
		if !ok {
			continue
		}
		total := totals.paid[npi]
		if total <= st.p99 {
			continue
		}
		findings = append(findings, Finding{
			NPI:    npi,
			Signal: BillingOutlier,
			Evidence: &VolumeOutlierEvidence{
				TotalPaid:         total,
				PeerMedian:        st.median,
				P99Threshold:      st.p99,
				RatioToPeerMedian: round2(total / st.median),
				Taxonomy:          key.taxonomy,
				State:             key.state,
			},
		})
	}
	return findings, nil
}
