package signal

import "github.com/gyeh/fraud-signals/internal/ingest"

// orgEntityType is the NPPES entity type code for organizations.
const orgEntityType = "2"

// WorkforceImpossible flags organizations whose peak-month claim count
// implies a physically impossible claims-per-business-hour rate. Individual
// providers are out of scope; the peak month is the earliest period holding
// the maximum claim count.
func WorkforceImpossible(claims *ingest.ClaimsData, registry []ingest.RegistryRow, th Thresholds) ([]Finding, error) {
	orgs := make(map[string]struct{})
	for _, r := range registry {
		if r.EntityTypeCode == orgEntityType {
			orgs[r.NPI] = struct{}{}
		}
	}
	if len(orgs) == 0 {
		return nil, nil
	}

	monthly, order := monthlyByNPI(claims.Rows, func(row ingest.ClaimRow) bool {
		_, ok := orgs[row.NPI]
		return ok
	})

	var findings []Finding
	for _, npi := range order {
		periods := monthly[npi]

		var peakMonth string
		var peak *monthlyAgg
		for m, agg := range periods {
			if peak == nil || agg.claims > peak.claims || (agg.claims == peak.claims && m < peakMonth) {
				peakMonth, peak = m, agg
			}
		}

		perHour := float64(peak.claims) / float64(th.BusinessHours)
		if perHour <= th.ClaimsPerHour {
			continue
		}

		findings = append(findings, Finding{
			NPI:    npi,
			Signal: WorkforceImpossibility,
			Evidence: &WorkforceEvidence{
				PeakMonth:            peakMonth,
				ClaimsCount:          peak.claims,
				ImpliedClaimsPerHour: round2(perHour),
				PeakMonthRevenue:     peak.paid,
			},
		})
	}
	return findings, nil
}
