package signal

import (
	"testing"

	"github.com/gyeh/fraud-signals/internal/ingest"
)

func orgRegistry(npis ...string) []ingest.RegistryRow {
	rows := make([]ingest.RegistryRow, len(npis))
	for i, n := range npis {
		rows[i] = ingest.RegistryRow{NPI: n, EntityTypeCode: "2"}
	}
	return rows
}

func TestWorkforceImpossible_FlagsAboveRate(t *testing.T) {
	const npi = "1234567890"
	// 1057 claims over 176 business hours is just above 6 claims/hour.
	claims := claimsData(monthRow(npi, "99213", "2023-03", -1, 1057, 52850))

	findings, err := WorkforceImpossible(claims, orgRegistry(npi), DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	ev := findings[0].Evidence.(*WorkforceEvidence)
	if ev.PeakMonth != "2023-03" || ev.ClaimsCount != 1057 {
		t.Errorf("evidence = %+v", ev)
	}
	if ev.ImpliedClaimsPerHour != 6.01 {
		t.Errorf("claims/hour = %v, want 6.01", ev.ImpliedClaimsPerHour)
	}
	if ev.PeakMonthRevenue != 52850 {
		t.Errorf("revenue = %v", ev.PeakMonthRevenue)
	}
}

func TestWorkforceImpossible_ExactRateNotFlagged(t *testing.T) {
	const npi = "1234567890"
	// 1056 claims is exactly 6/hour, which does not exceed the threshold.
	claims := claimsData(monthRow(npi, "99213", "2023-03", -1, 1056, 52800))

	findings, err := WorkforceImpossible(claims, orgRegistry(npi), DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("exact-rate month produced %d findings", len(findings))
	}
}

func TestWorkforceImpossible_IndividualsOutOfScope(t *testing.T) {
	const npi = "1234567890"
	claims := claimsData(monthRow(npi, "99213", "2023-03", -1, 100000, 1e6))
	registry := []ingest.RegistryRow{{NPI: npi, EntityTypeCode: "1"}}

	findings, err := WorkforceImpossible(claims, registry, DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("individual provider produced %d findings", len(findings))
	}
}

func TestWorkforceImpossible_PeakTieBreaksToEarliestMonth(t *testing.T) {
	const npi = "1234567890"
	claims := claimsData(
		monthRow(npi, "99213", "2023-06", -1, 2000, 100),
		monthRow(npi, "99213", "2023-02", -1, 2000, 200),
	)

	findings, err := WorkforceImpossible(claims, orgRegistry(npi), DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	ev := findings[0].Evidence.(*WorkforceEvidence)
	if ev.PeakMonth != "2023-02" {
		t.Errorf("peak month = %s, want 2023-02", ev.PeakMonth)
	}
}
