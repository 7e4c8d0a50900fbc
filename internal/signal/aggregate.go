package signal

import "github.com/gyeh/fraud-signals/internal/ingest"

// npiTotals is a per-provider payment aggregation preserving first-seen
// claims order, so downstream iteration is deterministic.
type npiTotals struct {
	paid  map[string]float64
	order []string
}

// paymentByNPI sums payment per valid NPI across all claims rows.
func paymentByNPI(rows []ingest.ClaimRow) npiTotals {
	t := npiTotals{paid: make(map[string]float64)}
	for _, row := range rows {
		if !ingest.ValidNPI(row.NPI) {
			continue
		}
		if _, ok := t.paid[row.NPI]; !ok {
			t.order = append(t.order, row.NPI)
		}
		t.paid[row.NPI] += row.Payment
	}
	return t
}

// monthlyAgg accumulates per (NPI, period) sums.
type monthlyAgg struct {
	paid     float64
	claims   int64
	benes    int64
	hasBenes bool
	hcpcs    string // first code seen for the group
}

// monthlyByNPI aggregates claims into per-provider, per-period buckets.
// keep filters rows before aggregation; nil keeps everything. Rows with an
// invalid NPI or an empty period key never contribute.
func monthlyByNPI(rows []ingest.ClaimRow, keep func(ingest.ClaimRow) bool) (map[string]map[string]*monthlyAgg, []string) {
	byNPI := make(map[string]map[string]*monthlyAgg)
	var order []string

	for _, row := range rows {
		if !ingest.ValidNPI(row.NPI) || row.PeriodKey == "" {
			continue
		}
		if keep != nil && !keep(row) {
			continue
		}
		periods, ok := byNPI[row.NPI]
		if !ok {
			periods = make(map[string]*monthlyAgg)
			byNPI[row.NPI] = periods
			order = append(order, row.NPI)
		}
		agg, ok := periods[row.PeriodKey]
		if !ok {
			agg = &monthlyAgg{hcpcs: row.HCPCS}
			periods[row.PeriodKey] = agg
		}
		agg.paid += row.Payment
		agg.claims += row.Claims
		if row.HasBenes {
			agg.benes += row.Benes
			agg.hasBenes = true
		}
	}
	return byNPI, order
}
