package signal

import "github.com/gyeh/fraud-signals/internal/ingest"

// GeographicImplausible flags home health providers with a month of heavy
// claim volume served by implausibly few beneficiaries. Only the whitelisted
// home health HCPCS codes are considered; each provider keeps only its
// single worst (lowest-ratio) month, earliest month on ties.
//
// The beneficiary figure is a sum across procedure codes, not a true
// distinct count -- pre-aggregated claims data cannot recover uniqueness, so
// the ratio is a conservative approximation.
func GeographicImplausible(claims *ingest.ClaimsData, th Thresholds) ([]Finding, error) {
	codes := HomeHealthCodes()

	monthly, order := monthlyByNPI(claims.Rows, func(row ingest.ClaimRow) bool {
		_, ok := codes[row.HCPCS]
		return ok
	})

	var findings []Finding
	for _, npi := range order {
		var worstMonth string
		var worst *monthlyAgg
		var worstRatio float64

		for m, agg := range monthly[npi] {
			if agg.claims <= th.HomeHealthClaimsFloor || !agg.hasBenes || agg.benes <= 0 {
				continue
			}
			ratio := float64(agg.benes) / float64(agg.claims)
			if ratio >= th.HomeHealthRatioCeiling {
				continue
			}
			if worst == nil || ratio < worstRatio || (ratio == worstRatio && m < worstMonth) {
				worstMonth, worst, worstRatio = m, agg, ratio
			}
		}
		if worst == nil {
			continue
		}

		findings = append(findings, Finding{
			NPI:    npi,
			Signal: GeographicImplausibility,
			Evidence: &GeographicEvidence{
				State:               "", // backfilled during enrichment
				FlaggedCodes:        []string{worst.hcpcs},
				Month:               worstMonth,
				Claims:              worst.claims,
				UniqueBeneficiaries: worst.benes,
				Ratio:               round4(worstRatio),
			},
		})
	}
	return findings, nil
}
