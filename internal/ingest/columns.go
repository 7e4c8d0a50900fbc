package ingest

import (
	"fmt"
	"sort"
	"strings"
)

// servicingColumn is the optional secondary provider column, matched by its
// exact upstream name.
const servicingColumn = "SERVICING_PROVIDER_NPI_NUM"

// Known raw column name patterns per role, in priority order.
var (
	npiPatterns   = []string{"npi", "rndrng_npi", "rendering_npi", "provider_npi"}
	hcpcsPatterns = []string{"hcpcs_cd", "hcpcs", "hcpcs_code", "procedure_code", "proc_cd"}
	datePatterns  = []string{"srvc_dt", "service_date", "srvc_yr_mth", "billing_date",
		"year_month", "clm_dt", "period"}
	benePatterns = []string{"bene_cnt", "tot_benes", "beneficiary_count", "bene_count",
		"unique_bene", "bene_unique_cnt"}
	claimPatterns = []string{"clm_cnt", "tot_clms", "claim_count", "claims", "tot_claims"}
	paymentPatterns = []string{"pymt_amt", "tot_pymt", "payment_amount", "avg_mdcd_pymt_amt",
		"paid_amt", "mdcd_pymt_amt", "total_payment", "mdcd_paid_amt"}
)

// DetectClaimColumns maps heterogeneous raw claims column names onto the six
// canonical roles. Matching is case-insensitive against known patterns, with
// a positional fallback for the common 7-column layout and a last-resort
// assignment of leftover columns. An error is returned only when a role
// cannot be filled at all.
func DetectClaimColumns(columns []string) (ColumnMapping, error) {
	lower := make(map[string]string, len(columns))
	for _, c := range columns {
		lower[strings.ToLower(c)] = c
	}

	match := func(patterns []string) string {
		for _, p := range patterns {
			if c, ok := lower[p]; ok {
				return c
			}
		}
		return ""
	}

	m := ColumnMapping{
		NPI:     match(npiPatterns),
		HCPCS:   match(hcpcsPatterns),
		Date:    match(datePatterns),
		Benes:   match(benePatterns),
		Claims:  match(claimPatterns),
		Payment: match(paymentPatterns),
	}

	// Positional fallback for 7-column files: npi, hcpcs, date, benes,
	// claims, <ignored>, payment.
	if missingRoles(m) != nil && len(columns) == 7 {
		positional := []*string{&m.NPI, &m.HCPCS, &m.Date, &m.Benes, &m.Claims, nil, &m.Payment}
		for i, slot := range positional {
			if slot != nil && *slot == "" {
				*slot = columns[i]
			}
		}
	}

	// Assign leftover columns to any still-missing roles, in role order.
	if missing := missingRoles(m); missing != nil {
		used := map[string]bool{
			m.NPI: true, m.HCPCS: true, m.Date: true,
			m.Benes: true, m.Claims: true, m.Payment: true,
		}
		var remaining []string
		for _, c := range columns {
			if !used[c] {
				remaining = append(remaining, c)
			}
		}
		sort.Strings(missing)
		for _, role := range missing {
			if len(remaining) == 0 {
				break
			}
			*roleSlot(&m, role) = remaining[0]
			remaining = remaining[1:]
		}
	}

	if missing := missingRoles(m); missing != nil {
		return m, fmt.Errorf("cannot detect claims columns for roles %v (available: %v)", missing, columns)
	}

	for _, c := range columns {
		if c == servicingColumn {
			m.ServicingNPI = c
		}
	}

	return m, nil
}

func missingRoles(m ColumnMapping) []string {
	var missing []string
	for role, v := range map[string]string{
		"npi": m.NPI, "hcpcs": m.HCPCS, "date": m.Date,
		"benes": m.Benes, "claims": m.Claims, "payment": m.Payment,
	} {
		if v == "" {
			missing = append(missing, role)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return missing
}

func roleSlot(m *ColumnMapping, role string) *string {
	switch role {
	case "npi":
		return &m.NPI
	case "hcpcs":
		return &m.HCPCS
	case "date":
		return &m.Date
	case "benes":
		return &m.Benes
	case "claims":
		return &m.Claims
	default:
		return &m.Payment
	}
}
