package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

type testClaim struct {
	NPI     string  `parquet:"RNDRNG_NPI"`
	HCPCS   string  `parquet:"HCPCS_CD"`
	Date    string  `parquet:"SRVC_DT"`
	Benes   int64   `parquet:"BENE_CNT"`
	Claims  int64   `parquet:"CLM_CNT"`
	Payment float64 `parquet:"PYMT_AMT"`
}

func writeClaimsParquet(t *testing.T, rows []testClaim) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := parquet.NewGenericWriter[testClaim](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadClaims(t *testing.T) {
	path := writeClaimsParquet(t, []testClaim{
		{NPI: "1234567890", HCPCS: "99213", Date: "2023-04-15", Benes: 10, Claims: 25, Payment: 1250.50},
		{NPI: "987654321", HCPCS: "G0151", Date: "2023-04", Benes: 5, Claims: 110, Payment: 8000},
		{NPI: "1234567890", HCPCS: "99213", Date: "garbage", Benes: 1, Claims: 2, Payment: 99},
	})

	data, err := LoadClaims(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(data.Rows))
	}

	if data.Columns.NPI != "RNDRNG_NPI" || data.Columns.Payment != "PYMT_AMT" {
		t.Errorf("column mapping = %+v", data.Columns)
	}

	r0 := data.Rows[0]
	if r0.NPI != "1234567890" || r0.HCPCS != "99213" {
		t.Errorf("row 0 = %+v", r0)
	}
	if !r0.HasDate || r0.PeriodKey != "2023-04" {
		t.Errorf("row 0 date = %+v", r0)
	}
	if r0.Payment != 1250.50 || r0.Claims != 25 || !r0.HasBenes || r0.Benes != 10 {
		t.Errorf("row 0 amounts = %+v", r0)
	}

	// Short NPIs are zero-padded, year-month dates get the first of month.
	r1 := data.Rows[1]
	if r1.NPI != "0987654321" {
		t.Errorf("row 1 NPI = %q", r1.NPI)
	}
	if !r1.HasDate || r1.ServiceDate.Format("2006-01-02") != "2023-04-01" {
		t.Errorf("row 1 date = %+v", r1)
	}

	// Unparseable dates keep the row with a raw-prefix period key.
	r2 := data.Rows[2]
	if r2.HasDate {
		t.Error("row 2 should not have a typed date")
	}
	if r2.PeriodKey != "garbage" {
		t.Errorf("row 2 period key = %q", r2.PeriodKey)
	}

	// Two distinct raw NPI values across three rows.
	if data.DistinctNPIs != 2 {
		t.Errorf("DistinctNPIs = %d, want 2", data.DistinctNPIs)
	}
}

func TestLoadClaims_MissingFile(t *testing.T) {
	if _, err := LoadClaims(filepath.Join(t.TempDir(), "nope.parquet"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}
