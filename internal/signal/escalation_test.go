package signal

import (
	"testing"

	"github.com/gyeh/fraud-signals/internal/ingest"
)

func enumRegistry(npi, enumDate string) []ingest.RegistryRow {
	return []ingest.RegistryRow{{NPI: npi, EnumerationDate: enumDate}}
}

func TestRapidEscalation_FlagsExplosiveGrowth(t *testing.T) {
	const npi = "1234567890"
	claims := claimsData(
		monthRow(npi, "99213", "2023-02", -1, 1, 100),
		monthRow(npi, "99213", "2023-03", -1, 4, 400),
		monthRow(npi, "99213", "2023-04", -1, 16, 1600),
		monthRow(npi, "99213", "2023-05", -1, 64, 6400),
	)

	findings, err := RapidEscalationBilling(claims, enumRegistry(npi, "01/15/2023"), DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	ev := findings[0].Evidence.(*RapidEscalationEvidence)
	if ev.EnumerationDate != "2023-01-15" || ev.FirstBillingMonth != "2023-02" {
		t.Errorf("evidence = %+v", ev)
	}
	// 300% month-over-month throughout, so the rolling mean peaks at 300.
	if ev.PeakGrowthRate != 300 {
		t.Errorf("peak growth = %v, want 300", ev.PeakGrowthRate)
	}
	// Only 2023-05 has a defined rolling mean above the threshold.
	if ev.PaymentsDuringGrowth != 6400 {
		t.Errorf("payments during growth = %v, want 6400", ev.PaymentsDuringGrowth)
	}
	if len(ev.TwelveMonthProgression) != 4 || ev.TwelveMonthProgression[0].Month != "2023-02" {
		t.Errorf("progression = %+v", ev.TwelveMonthProgression)
	}
}

func TestRapidEscalation_GrowthMustExceedThreshold(t *testing.T) {
	const npi = "1234567890"
	// Exactly 200% growth every month: at the threshold, not above it.
	claims := claimsData(
		monthRow(npi, "99213", "2023-02", -1, 1, 100),
		monthRow(npi, "99213", "2023-03", -1, 3, 300),
		monthRow(npi, "99213", "2023-04", -1, 9, 900),
		monthRow(npi, "99213", "2023-05", -1, 27, 2700),
	)

	findings, err := RapidEscalationBilling(claims, enumRegistry(npi, "01/15/2023"), DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("threshold growth produced %d findings", len(findings))
	}
}

func TestRapidEscalation_EstablishedProviderSkipped(t *testing.T) {
	const npi = "1234567890"
	claims := claimsData(
		monthRow(npi, "99213", "2023-02", -1, 1, 100),
		monthRow(npi, "99213", "2023-03", -1, 10, 1000),
		monthRow(npi, "99213", "2023-04", -1, 100, 10000),
		monthRow(npi, "99213", "2023-05", -1, 1000, 100000),
	)

	// Enumerated four years before first billing: outside the window.
	findings, err := RapidEscalationBilling(claims, enumRegistry(npi, "01/15/2019"), DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("established provider produced %d findings", len(findings))
	}
}

func TestRapidEscalation_UnregisteredProviderSkipped(t *testing.T) {
	claims := claimsData(
		monthRow("1234567890", "99213", "2023-02", -1, 1, 100),
		monthRow("1234567890", "99213", "2023-03", -1, 100, 10000),
	)
	findings, err := RapidEscalationBilling(claims, nil, DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("unregistered provider produced %d findings", len(findings))
	}
}

func TestMomGrowth_UndefinedAfterZeroMonth(t *testing.T) {
	growth, defined := momGrowth([]float64{0, 100, 200})
	if defined[0] || defined[1] {
		t.Errorf("growth should be undefined at 0 and 1: %v", defined)
	}
	if !defined[2] || growth[2] != 100 {
		t.Errorf("growth[2] = %v (%v), want 100", growth[2], defined[2])
	}
}

func TestRollingMean_RequiresFullWindow(t *testing.T) {
	vals := []float64{0, 10, 20, 30}
	defined := []bool{false, true, true, true}

	out, ok := rollingMean(vals, defined, 3)
	if ok[0] || ok[1] || ok[2] {
		t.Errorf("window touching undefined entries must be undefined: %v", ok)
	}
	if !ok[3] || out[3] != 20 {
		t.Errorf("rolling[3] = %v (%v), want 20", out[3], ok[3])
	}
}
