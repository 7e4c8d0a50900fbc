package report

import (
	"math"

	"github.com/gyeh/fraud-signals/internal/signal"
)

// Severity levels, ranked for most-severe selection.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

var severityRank = map[string]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// ClassifySeverity assigns a severity level from the finding's evidence.
// Excluded-provider billing is per se false claiming, so it is always
// critical; the rest split high/medium on signal-specific thresholds.
func ClassifySeverity(f signal.Finding) string {
	switch ev := f.Evidence.(type) {
	case *signal.ExcludedBillingEvidence:
		return SeverityCritical
	case *signal.VolumeOutlierEvidence:
		if ev.RatioToPeerMedian > 5 {
			return SeverityHigh
		}
		return SeverityMedium
	case *signal.RapidEscalationEvidence:
		if ev.PeakGrowthRate > 500 {
			return SeverityHigh
		}
		return SeverityMedium
	case *signal.WorkforceEvidence:
		return SeverityHigh
	case *signal.SharedOfficialEvidence:
		if ev.CombinedTotal > 5_000_000 {
			return SeverityHigh
		}
		return SeverityMedium
	case *signal.GeographicEvidence:
		if ev.Ratio < 0.05 {
			return SeverityHigh
		}
		return SeverityMedium
	default:
		return SeverityMedium
	}
}

// EstimateOverpayment computes the estimated overpayment in USD for a
// finding. Signals without a defensible estimate return 0; the result is
// never negative.
func EstimateOverpayment(f signal.Finding) float64 {
	switch ev := f.Evidence.(type) {
	case *signal.ExcludedBillingEvidence:
		return ev.PostExclusionPaid
	case *signal.VolumeOutlierEvidence:
		return math.Max(0, ev.TotalPaid-ev.P99Threshold)
	case *signal.RapidEscalationEvidence:
		return ev.PaymentsDuringGrowth
	case *signal.WorkforceEvidence:
		// Excess claims beyond capacity, priced at the peak month's
		// average per-claim payment.
		if ev.ClaimsCount <= 0 {
			return 0
		}
		excess := float64(ev.ClaimsCount) - 6*8*22
		if excess <= 0 {
			return 0
		}
		return excess * (ev.PeakMonthRevenue / float64(ev.ClaimsCount))
	case *signal.SharedOfficialEvidence:
		return math.Max(0, ev.CombinedTotal-1_000_000)
	case *signal.GeographicEvidence:
		// No reliable per-claim cost in the evidence; not estimable.
		return 0
	default:
		return 0
	}
}
