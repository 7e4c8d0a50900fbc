package ingest

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/gyeh/fraud-signals/internal/progress"
)

const claimsReadBatch = 4096

// LoadClaims reads the claims Parquet file, detects column roles from the
// file schema, and materializes typed rows. Dates are coerced during the
// scan; rows with unparseable dates are kept (period keys fall back to the
// raw string) so date-independent signals still see them.
func LoadClaims(path string, tracker progress.Tracker) (*ClaimsData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening claims file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("opening claims parquet: %w", err)
	}

	schema := pf.Schema()
	var names []string
	logical := make(map[string]*format.LogicalType)
	for _, field := range schema.Fields() {
		names = append(names, field.Name())
		logical[field.Name()] = field.Type().LogicalType()
	}

	mapping, err := DetectClaimColumns(names)
	if err != nil {
		return nil, err
	}

	// Leaf column index per raw name; claims files are flat so the leaf
	// path is just the field name.
	leafIdx := make(map[string]int, len(names))
	for i, colPath := range schema.Columns() {
		leafIdx[colPath[len(colPath)-1]] = i
	}

	cols := claimColumns{
		npi:     leafIdx[mapping.NPI],
		hcpcs:   leafIdx[mapping.HCPCS],
		date:    leafIdx[mapping.Date],
		benes:   leafIdx[mapping.Benes],
		claims:  leafIdx[mapping.Claims],
		payment: leafIdx[mapping.Payment],
	}
	if lt := logical[mapping.Date]; lt != nil && lt.Date != nil {
		cols.dateIsTyped = true
	}
	cols.servicing = -1
	if mapping.ServicingNPI != "" {
		cols.servicing = leafIdx[mapping.ServicingNPI]
	}

	data := &ClaimsData{Columns: mapping}
	rawNPIs := make(map[string]struct{})

	buf := make([]parquet.Row, claimsReadBatch)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				raw, claim := decodeClaimRow(row, cols)
				rawNPIs[raw] = struct{}{}
				data.Rows = append(data.Rows, claim)
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				rows.Close()
				return nil, fmt.Errorf("reading claims rows: %w", readErr)
			}
			if n == 0 {
				break
			}
			if tracker != nil {
				tracker.SetCounter("rows", int64(len(data.Rows)))
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("closing claims row reader: %w", err)
		}
	}

	data.DistinctNPIs = len(rawNPIs)
	return data, nil
}

type claimColumns struct {
	npi, hcpcs, date, benes, claims, payment int
	servicing                                int // -1 when absent
	dateIsTyped                              bool
}

func decodeClaimRow(row parquet.Row, cols claimColumns) (rawNPI string, c ClaimRow) {
	byCol := make(map[int]parquet.Value, len(row))
	for _, v := range row {
		byCol[v.Column()] = v
	}

	rawNPI = valueString(byCol[cols.npi])
	c.NPI = NormalizeNPI(rawNPI)
	if cols.servicing >= 0 {
		c.ServicingNPI = NormalizeNPI(valueString(byCol[cols.servicing]))
	}
	c.HCPCS = valueString(byCol[cols.hcpcs])

	dateVal := byCol[cols.date]
	if cols.dateIsTyped && !dateVal.IsNull() {
		c.ServiceDate = time.Unix(0, 0).UTC().AddDate(0, 0, int(dateVal.Int32()))
		c.HasDate = true
		c.PeriodKey = c.ServiceDate.Format("2006-01")
	} else {
		rawDate := valueString(dateVal)
		c.ServiceDate, c.HasDate = ParseDate(rawDate)
		c.PeriodKey = PeriodKey(c.ServiceDate, c.HasDate, rawDate)
	}

	c.Benes, c.HasBenes = valueInt(byCol[cols.benes])
	c.Claims, _ = valueInt(byCol[cols.claims])
	c.Payment = valueFloat(byCol[cols.payment])
	return rawNPI, c
}

func valueString(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return strings.TrimSpace(v.String())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	default:
		return v.String()
	}
}

func valueFloat(v parquet.Value) float64 {
	if v.IsNull() {
		return 0
	}
	switch v.Kind() {
	case parquet.Double:
		return v.Double()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	default:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f
	}
}

func valueInt(v parquet.Value) (int64, bool) {
	if v.IsNull() {
		return 0, false
	}
	switch v.Kind() {
	case parquet.Int32:
		return int64(v.Int32()), true
	case parquet.Int64:
		return v.Int64(), true
	case parquet.Double:
		return int64(v.Double()), true
	case parquet.Float:
		return int64(v.Float()), true
	default:
		n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		return n, err == nil
	}
}
