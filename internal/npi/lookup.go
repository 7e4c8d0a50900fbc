// Package npi queries the live NPPES NPI Registry API. Scans run entirely
// against the local registry extract; this client exists for follow-up
// investigation of flagged providers, where current enrollment status and
// practice location matter.
package npi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const registryURL = "https://npiregistry.cms.hhs.gov/api/?version=2.1"

var client = &http.Client{Timeout: 10 * time.Second}

// Provider holds the registry details relevant to a fraud investigation.
type Provider struct {
	NPI             string
	Name            string // "LAST, FIRST" for individuals, org name otherwise
	EntityType      string // "Individual" or "Organization"
	Taxonomy        string // primary taxonomy description
	TaxonomyCode    string
	PracticeAddress string // city, state zip
	PracticePhone   string
	EnumerationDate string
	Status          string // "A" = active
}

type apiResponse struct {
	ResultCount int         `json:"result_count"`
	Results     []apiResult `json:"results"`
}

type apiResult struct {
	Number          string        `json:"number"`
	EnumerationType string        `json:"enumeration_type"`
	Basic           apiBasic      `json:"basic"`
	Addresses       []apiAddress  `json:"addresses"`
	Taxonomies      []apiTaxonomy `json:"taxonomies"`
}

type apiBasic struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
	EnumerationDate  string `json:"enumeration_date"`
	Status           string `json:"status"`
}

type apiAddress struct {
	City           string `json:"city"`
	State          string `json:"state"`
	PostalCode     string `json:"postal_code"`
	AddressPurpose string `json:"address_purpose"` // "LOCATION" or "MAILING"
	Phone          string `json:"telephone_number"`
}

type apiTaxonomy struct {
	Code    string `json:"code"`
	Desc    string `json:"desc"`
	Primary bool   `json:"primary"`
}

// Lookup queries the registry for a single 10-digit NPI. Returns nil when
// the NPI is not found.
func Lookup(ctx context.Context, npi string) (*Provider, error) {
	u := fmt.Sprintf("%s&number=%s", registryURL, npi)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying NPI registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NPI registry returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing NPI registry response: %w", err)
	}

	if apiResp.ResultCount == 0 || len(apiResp.Results) == 0 {
		return nil, nil
	}
	return toProvider(apiResp.Results[0]), nil
}

// LookupAll queries the registry for multiple NPIs concurrently. Results keep
// input order; missing NPIs have nil entries.
func LookupAll(ctx context.Context, npis []string) ([]*Provider, []error) {
	results := make([]*Provider, len(npis))
	errs := make([]error, len(npis))

	type indexed struct {
		idx  int
		info *Provider
		err  error
	}

	ch := make(chan indexed, len(npis))
	for i, n := range npis {
		go func(idx int, npi string) {
			info, err := Lookup(ctx, npi)
			ch <- indexed{idx, info, err}
		}(i, n)
	}

	for range npis {
		r := <-ch
		results[r.idx] = r.info
		errs[r.idx] = r.err
	}
	return results, errs
}

func toProvider(r apiResult) *Provider {
	p := &Provider{
		NPI:             r.Number,
		EnumerationDate: r.Basic.EnumerationDate,
		Status:          r.Basic.Status,
	}

	if r.EnumerationType == "NPI-1" {
		p.EntityType = "Individual"
		p.Name = individualName(r.Basic)
	} else {
		p.EntityType = "Organization"
		p.Name = r.Basic.OrganizationName
	}

	for _, t := range r.Taxonomies {
		if t.Primary {
			p.Taxonomy = t.Desc
			p.TaxonomyCode = t.Code
			break
		}
	}
	if p.Taxonomy == "" && len(r.Taxonomies) > 0 {
		p.Taxonomy = r.Taxonomies[0].Desc
		p.TaxonomyCode = r.Taxonomies[0].Code
	}

	for _, addr := range r.Addresses {
		if addr.AddressPurpose == "LOCATION" {
			p.PracticeAddress = formatAddress(addr)
			p.PracticePhone = formatPhone(addr.Phone)
			break
		}
	}
	if p.PracticeAddress == "" && len(r.Addresses) > 0 {
		p.PracticeAddress = formatAddress(r.Addresses[0])
		p.PracticePhone = formatPhone(r.Addresses[0].Phone)
	}

	return p
}

func individualName(b apiBasic) string {
	last := strings.TrimSpace(b.LastName)
	first := strings.TrimSpace(b.FirstName)
	if last == "" {
		return first
	}
	if first == "" {
		return last
	}
	return last + ", " + first
}

func formatAddress(a apiAddress) string {
	var parts []string
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	loc := strings.Join(parts, ", ")
	if a.PostalCode != "" {
		zip := a.PostalCode
		if len(zip) > 5 {
			zip = zip[:5]
		}
		loc += " " + zip
	}
	return loc
}

func formatPhone(phone string) string {
	p := strings.TrimSpace(strings.ReplaceAll(phone, "-", ""))
	if len(p) == 10 {
		return fmt.Sprintf("(%s) %s-%s", p[:3], p[3:6], p[6:])
	}
	return phone
}
