package signal

import (
	"time"

	"github.com/gyeh/fraud-signals/internal/ingest"
)

// dateRow builds a claims row with a day-level service date.
func dateRow(npi, date string, claims int64, paid float64) ingest.ClaimRow {
	d, ok := ingest.ParseDate(date)
	if !ok {
		panic("bad test date: " + date)
	}
	return ingest.ClaimRow{
		NPI:         npi,
		HCPCS:       "99213",
		ServiceDate: d,
		HasDate:     true,
		PeriodKey:   d.Format("2006-01"),
		Claims:      claims,
		Payment:     paid,
	}
}

// monthRow builds a claims row for a "YYYY-MM" billing period. A negative
// benes marks the beneficiary count as absent.
func monthRow(npi, hcpcs, month string, benes, claims int64, paid float64) ingest.ClaimRow {
	d, ok := ingest.ParseDate(month)
	if !ok {
		panic("bad test month: " + month)
	}
	r := ingest.ClaimRow{
		NPI:         npi,
		HCPCS:       hcpcs,
		ServiceDate: d,
		HasDate:     true,
		PeriodKey:   d.Format("2006-01"),
		Claims:      claims,
		Payment:     paid,
	}
	if benes >= 0 {
		r.Benes = benes
		r.HasBenes = true
	}
	return r
}

func claimsData(rows ...ingest.ClaimRow) *ingest.ClaimsData {
	return &ingest.ClaimsData{Rows: rows}
}

func mustDate(s string) time.Time {
	d, ok := ingest.ParseDate(s)
	if !ok {
		panic("bad test date: " + s)
	}
	return d
}
