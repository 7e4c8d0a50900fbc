package signal

import (
	"strings"

	"github.com/gyeh/fraud-signals/internal/ingest"
)

// SharedOfficialBilling flags groups of NPIs that share an authorized
// official and whose combined billing exceeds the configured floor. The
// finding is attributed to the group's first member NPI; members with no
// billing are listed but excluded from the per-NPI total map.
func SharedOfficialBilling(claims *ingest.ClaimsData, registry []ingest.RegistryRow, th Thresholds) ([]Finding, error) {
	groups := make(map[string][]string)
	var officialOrder []string
	for _, r := range registry {
		if strings.TrimSpace(r.OfficialLastName) == "" {
			continue
		}
		name := OfficialName(r.OfficialLastName, r.OfficialFirstName)
		if _, ok := groups[name]; !ok {
			officialOrder = append(officialOrder, name)
		}
		groups[name] = append(groups[name], r.NPI)
	}

	totals := paymentByNPI(claims.Rows)

	var findings []Finding
	for _, name := range officialOrder {
		npis := groups[name]
		if len(npis) < th.OfficialGroupMin {
			continue
		}

		perNPI := make(map[string]float64)
		var combined float64
		for _, npi := range npis {
			if total := totals.paid[npi]; total != 0 {
				perNPI[npi] = total
				combined += total
			}
		}
		if combined <= th.OfficialCombinedFloor {
			continue
		}

		findings = append(findings, Finding{
			NPI:    npis[0],
			Signal: SharedOfficial,
			Evidence: &SharedOfficialEvidence{
				OfficialName:  name,
				NPIList:       npis,
				PerNPITotals:  perNPI,
				CombinedTotal: round2(combined),
			},
		})
	}
	return findings, nil
}

// OfficialName builds the uppercased "LAST, FIRST" grouping key. A missing
// first name still yields a usable key.
func OfficialName(last, first string) string {
	return strings.ToUpper(last) + ", " + strings.ToUpper(first)
}
