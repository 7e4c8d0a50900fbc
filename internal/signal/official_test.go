package signal

import (
	"testing"

	"github.com/gyeh/fraud-signals/internal/ingest"
)

func officialRegistry(last, first string, npis ...string) []ingest.RegistryRow {
	rows := make([]ingest.RegistryRow, len(npis))
	for i, n := range npis {
		rows[i] = ingest.RegistryRow{NPI: n, OfficialLastName: last, OfficialFirstName: first}
	}
	return rows
}

func TestSharedOfficialBilling_FlagsLargeGroup(t *testing.T) {
	npis := []string{"2000000001", "2000000002", "2000000003", "2000000004", "2000000005"}
	registry := officialRegistry("Doe", "John", npis...)

	var rows []ingest.ClaimRow
	for _, n := range npis[:4] {
		rows = append(rows, monthRow(n, "99213", "2023-01", -1, 10, 250_000))
	}
	rows = append(rows, monthRow(npis[4], "99213", "2023-01", -1, 1, 1))

	findings, err := SharedOfficialBilling(claimsData(rows...), registry, DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}

	f := findings[0]
	if f.NPI != npis[0] {
		t.Errorf("finding attributed to %s, want first group member %s", f.NPI, npis[0])
	}
	ev := f.Evidence.(*SharedOfficialEvidence)
	if ev.OfficialName != "DOE, JOHN" {
		t.Errorf("official name = %q", ev.OfficialName)
	}
	if len(ev.NPIList) != 5 {
		t.Errorf("npi list = %v", ev.NPIList)
	}
	if ev.CombinedTotal != 1_000_001 {
		t.Errorf("combined = %v, want 1000001", ev.CombinedTotal)
	}
	if len(ev.PerNPITotals) != 5 {
		t.Errorf("per-npi totals = %v", ev.PerNPITotals)
	}
}

func TestSharedOfficialBilling_CombinedAtFloorNotFlagged(t *testing.T) {
	npis := []string{"2000000001", "2000000002", "2000000003", "2000000004", "2000000005"}
	registry := officialRegistry("Doe", "John", npis...)

	var rows []ingest.ClaimRow
	for _, n := range npis {
		rows = append(rows, monthRow(n, "99213", "2023-01", -1, 10, 200_000))
	}

	findings, err := SharedOfficialBilling(claimsData(rows...), registry, DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("combined exactly at floor produced %d findings", len(findings))
	}
}

func TestSharedOfficialBilling_SmallGroupNotFlagged(t *testing.T) {
	npis := []string{"2000000001", "2000000002", "2000000003", "2000000004"}
	registry := officialRegistry("Doe", "John", npis...)

	var rows []ingest.ClaimRow
	for _, n := range npis {
		rows = append(rows, monthRow(n, "99213", "2023-01", -1, 10, 5_000_000))
	}

	findings, err := SharedOfficialBilling(claimsData(rows...), registry, DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("four-member group produced %d findings", len(findings))
	}
}

func TestSharedOfficialBilling_BlankOfficialIgnored(t *testing.T) {
	var registry []ingest.RegistryRow
	var rows []ingest.ClaimRow
	for _, n := range []string{"2000000001", "2000000002", "2000000003", "2000000004", "2000000005"} {
		registry = append(registry, ingest.RegistryRow{NPI: n, OfficialLastName: "  "})
		rows = append(rows, monthRow(n, "99213", "2023-01", -1, 10, 5_000_000))
	}

	findings, err := SharedOfficialBilling(claimsData(rows...), registry, DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 0 {
		t.Fatalf("blank officials produced %d findings", len(findings))
	}
}

func TestSharedOfficialBilling_ZeroBillingMembersListedButNotTotaled(t *testing.T) {
	npis := []string{"2000000001", "2000000002", "2000000003", "2000000004", "2000000005"}
	registry := officialRegistry("Doe", "John", npis...)

	var rows []ingest.ClaimRow
	for _, n := range npis[:3] {
		rows = append(rows, monthRow(n, "99213", "2023-01", -1, 10, 400_000))
	}
	// npis[3] and npis[4] never bill.

	findings, err := SharedOfficialBilling(claimsData(rows...), registry, DefaultThresholds())
	if err != nil {
		t.Fatal(err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	ev := findings[0].Evidence.(*SharedOfficialEvidence)
	if len(ev.NPIList) != 5 {
		t.Errorf("npi list should include non-billing members: %v", ev.NPIList)
	}
	if len(ev.PerNPITotals) != 3 {
		t.Errorf("per-npi totals should omit zero-billing members: %v", ev.PerNPITotals)
	}
	if ev.CombinedTotal != 1_200_000 {
		t.Errorf("combined = %v, want 1200000", ev.CombinedTotal)
	}
}
