package ingest

import (
	"fmt"
	"io"

	"github.com/gyeh/fraud-signals/internal/progress"
)

// The eleven NPPES columns the pipeline uses, by their exact published names.
var registryColumns = []string{
	"NPI",
	"Entity Type Code",
	"Provider Organization Name (Legal Business Name)",
	"Provider Last Name (Legal Name)",
	"Provider First Name",
	"Provider Business Practice Location Address State Name",
	"Healthcare Provider Taxonomy Code_1",
	"Provider Enumeration Date",
	"Authorized Official Last Name",
	"Authorized Official First Name",
	"Authorized Official Telephone Number",
}

// LoadRegistry streams the NPPES registry CSV (plain or .gz), keeping only
// the columns the signals and enrichment need. The full extract runs to
// millions of rows, so everything else is discarded as it is read.
func LoadRegistry(path string, tracker progress.Tracker) ([]RegistryRow, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, fmt.Errorf("opening registry file: %w", err)
	}
	defer closeFn()

	cr := newCSVReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading registry header: %w", err)
	}
	idx := headerIndex(header)

	col := make([]int, len(registryColumns))
	for i, name := range registryColumns {
		if j, ok := idx[name]; ok {
			col[i] = j
		} else {
			col[i] = -1
		}
	}
	if col[0] < 0 {
		return nil, fmt.Errorf("registry file has no NPI column (columns: %d)", len(header))
	}

	var rows []RegistryRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading registry row: %w", err)
		}

		rows = append(rows, RegistryRow{
			NPI:               NormalizeNPI(field(rec, col[0])),
			EntityTypeCode:    field(rec, col[1]),
			OrgName:           field(rec, col[2]),
			LastName:          field(rec, col[3]),
			FirstName:         field(rec, col[4]),
			State:             field(rec, col[5]),
			TaxonomyCode:      field(rec, col[6]),
			EnumerationDate:   field(rec, col[7]),
			OfficialLastName:  field(rec, col[8]),
			OfficialFirstName: field(rec, col[9]),
			OfficialPhone:     field(rec, col[10]),
		})

		if tracker != nil && len(rows)%250000 == 0 {
			tracker.SetCounter("records", int64(len(rows)))
		}
	}

	return rows, nil
}
