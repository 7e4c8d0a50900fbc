package ingest

import "testing"

func TestDetectClaimColumns_KnownNames(t *testing.T) {
	cols := []string{"RNDRNG_NPI", "HCPCS_CD", "SRVC_DT", "BENE_CNT", "CLM_CNT", "PYMT_AMT"}
	m, err := DetectClaimColumns(cols)
	if err != nil {
		t.Fatal(err)
	}
	if m.NPI != "RNDRNG_NPI" || m.HCPCS != "HCPCS_CD" || m.Date != "SRVC_DT" {
		t.Errorf("unexpected mapping: %+v", m)
	}
	if m.Benes != "BENE_CNT" || m.Claims != "CLM_CNT" || m.Payment != "PYMT_AMT" {
		t.Errorf("unexpected mapping: %+v", m)
	}
	if m.ServicingNPI != "" {
		t.Errorf("no servicing column expected, got %q", m.ServicingNPI)
	}
}

func TestDetectClaimColumns_CaseInsensitive(t *testing.T) {
	m, err := DetectClaimColumns([]string{"Npi", "Hcpcs", "Service_Date", "Tot_Benes", "Tot_Clms", "Paid_Amt"})
	if err != nil {
		t.Fatal(err)
	}
	if m.NPI != "Npi" || m.Payment != "Paid_Amt" {
		t.Errorf("unexpected mapping: %+v", m)
	}
}

func TestDetectClaimColumns_PositionalFallback(t *testing.T) {
	cols := []string{"a", "b", "c", "d", "e", "f", "g"}
	m, err := DetectClaimColumns(cols)
	if err != nil {
		t.Fatal(err)
	}
	want := ColumnMapping{NPI: "a", HCPCS: "b", Date: "c", Benes: "d", Claims: "e", Payment: "g"}
	if m != want {
		t.Errorf("positional mapping = %+v, want %+v", m, want)
	}
}

func TestDetectClaimColumns_ServicingColumn(t *testing.T) {
	cols := []string{"NPI", "HCPCS", "SRVC_DT", "BENE_CNT", "CLM_CNT", "PYMT_AMT", "SERVICING_PROVIDER_NPI_NUM"}
	m, err := DetectClaimColumns(cols)
	if err != nil {
		t.Fatal(err)
	}
	if m.ServicingNPI != "SERVICING_PROVIDER_NPI_NUM" {
		t.Errorf("servicing column not detected: %+v", m)
	}
}

func TestDetectClaimColumns_Undetectable(t *testing.T) {
	_, err := DetectClaimColumns([]string{"x", "y"})
	if err == nil {
		t.Fatal("expected error for undetectable columns")
	}
}
