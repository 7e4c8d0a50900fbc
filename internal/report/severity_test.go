package report

import (
	"math"
	"testing"

	"github.com/gyeh/fraud-signals/internal/signal"
)

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name     string
		evidence signal.Evidence
		want     string
	}{
		{"excluded always critical", &signal.ExcludedBillingEvidence{PostExclusionPaid: 1}, SeverityCritical},
		{"outlier above 5x", &signal.VolumeOutlierEvidence{RatioToPeerMedian: 5.01}, SeverityHigh},
		{"outlier at 5x", &signal.VolumeOutlierEvidence{RatioToPeerMedian: 5}, SeverityMedium},
		{"escalation above 500", &signal.RapidEscalationEvidence{PeakGrowthRate: 501}, SeverityHigh},
		{"escalation at 500", &signal.RapidEscalationEvidence{PeakGrowthRate: 500}, SeverityMedium},
		{"workforce always high", &signal.WorkforceEvidence{}, SeverityHigh},
		{"official above 5M", &signal.SharedOfficialEvidence{CombinedTotal: 5_000_001}, SeverityHigh},
		{"official at 5M", &signal.SharedOfficialEvidence{CombinedTotal: 5_000_000}, SeverityMedium},
		{"geographic below 0.05", &signal.GeographicEvidence{Ratio: 0.049}, SeverityHigh},
		{"geographic at 0.05", &signal.GeographicEvidence{Ratio: 0.05}, SeverityMedium},
	}
	for _, tt := range tests {
		f := signal.Finding{Evidence: tt.evidence}
		if got := ClassifySeverity(f); got != tt.want {
			t.Errorf("%s: severity = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestEstimateOverpayment(t *testing.T) {
	tests := []struct {
		name     string
		evidence signal.Evidence
		want     float64
	}{
		{"excluded uses post-exclusion paid", &signal.ExcludedBillingEvidence{PostExclusionPaid: 12345.67}, 12345.67},
		{"outlier is excess over p99", &signal.VolumeOutlierEvidence{TotalPaid: 10000, P99Threshold: 9505}, 495},
		{"outlier never negative", &signal.VolumeOutlierEvidence{TotalPaid: 9000, P99Threshold: 9505}, 0},
		{"escalation uses growth payments", &signal.RapidEscalationEvidence{PaymentsDuringGrowth: 6400}, 6400},
		{"official is excess over 1M", &signal.SharedOfficialEvidence{CombinedTotal: 1_500_000}, 500_000},
		{"official never negative", &signal.SharedOfficialEvidence{CombinedTotal: 900_000}, 0},
		{"geographic not estimable", &signal.GeographicEvidence{Ratio: 0.02}, 0},
		{"workforce within capacity", &signal.WorkforceEvidence{ClaimsCount: 1000, PeakMonthRevenue: 50000}, 0},
	}
	for _, tt := range tests {
		f := signal.Finding{Evidence: tt.evidence}
		if got := EstimateOverpayment(f); got != tt.want {
			t.Errorf("%s: overpayment = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEstimateOverpayment_WorkforceExcessClaims(t *testing.T) {
	// 1057 claims against a 1056 capacity: one excess claim priced at the
	// month's average payment per claim.
	ev := &signal.WorkforceEvidence{ClaimsCount: 1057, PeakMonthRevenue: 50000}
	got := EstimateOverpayment(signal.Finding{Evidence: ev})
	want := 1 * (50000.0 / 1057.0)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("workforce overpayment = %v, want %v", got, want)
	}
}

func TestEstimateOverpayment_NeverNegative(t *testing.T) {
	evs := []signal.Evidence{
		&signal.VolumeOutlierEvidence{TotalPaid: 0, P99Threshold: 100},
		&signal.SharedOfficialEvidence{CombinedTotal: 0},
		&signal.WorkforceEvidence{ClaimsCount: 0, PeakMonthRevenue: 100},
		&signal.GeographicEvidence{},
	}
	for _, ev := range evs {
		if got := EstimateOverpayment(signal.Finding{Evidence: ev}); got < 0 {
			t.Errorf("%T: negative overpayment %v", ev, got)
		}
	}
}
