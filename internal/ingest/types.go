// Package ingest loads the three source datasets (Medicaid claims, OIG LEIE
// exclusions, NPPES registry) into typed row slices the signal detectors
// consume. Column-role detection, NPI normalization, and date coercion all
// happen here, once, at load time.
package ingest

import "time"

// ColumnMapping holds the resolved raw column name for each role in the
// claims dataset. Resolved once during loading; the detectors never see raw
// column names.
type ColumnMapping struct {
	NPI     string
	HCPCS   string
	Date    string
	Benes   string
	Claims  string
	Payment string

	// ServicingNPI is the optional secondary provider column; empty when
	// the dataset does not carry one.
	ServicingNPI string
}

// ClaimRow is one claims record: a provider billing a procedure over a
// service period.
type ClaimRow struct {
	NPI          string // normalized, may still be invalid (empty / all-zero)
	ServicingNPI string // normalized, "" when the column is absent
	HCPCS        string

	// ServiceDate is the coerced service date; HasDate reports whether
	// coercion succeeded. PeriodKey is always populated from the date when
	// typed, else from the first 7 characters of the raw value.
	ServiceDate time.Time
	HasDate     bool
	PeriodKey   string

	Benes    int64
	HasBenes bool
	Claims   int64
	Payment  float64
}

// ClaimsData is the loaded claims dataset plus metadata the report needs.
type ClaimsData struct {
	Rows    []ClaimRow
	Columns ColumnMapping

	// DistinctNPIs counts distinct raw identifier values across the whole
	// dataset, before normalization or validity filtering. This feeds the
	// report's total_providers_scanned.
	DistinctNPIs int
}

// ExclusionRow is one LEIE exclusion record.
type ExclusionRow struct {
	NPI              string
	ExclusionDate    time.Time
	HasExclusionDate bool
	ReinstateDate    time.Time
	HasReinstateDate bool
	ExclusionType    string
}

// Active reports whether the exclusion is in force: an exclusion date exists
// and no reinstatement has been recorded.
func (e ExclusionRow) Active() bool {
	return e.HasExclusionDate && !e.HasReinstateDate
}

// RegistryRow is one NPPES registry record, restricted to the eleven columns
// the pipeline uses.
type RegistryRow struct {
	NPI               string
	EntityTypeCode    string // "1" individual, "2" organization
	OrgName           string
	LastName          string
	FirstName         string
	State             string
	TaxonomyCode      string
	EnumerationDate   string // raw MM/DD/YYYY string as it appears in the file
	OfficialLastName  string
	OfficialFirstName string
	OfficialPhone     string
}
