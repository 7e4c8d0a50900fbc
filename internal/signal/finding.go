package signal

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID identifies one of the six detection signals.
type ID int

const (
	ExcludedProvider ID = iota + 1
	BillingOutlier
	RapidEscalation
	WorkforceImpossibility
	SharedOfficial
	GeographicImplausibility
)

// IDs lists all signals in their fixed evaluation order.
var IDs = []ID{
	ExcludedProvider,
	BillingOutlier,
	RapidEscalation,
	WorkforceImpossibility,
	SharedOfficial,
	GeographicImplausibility,
}

// String returns the report category label for the signal.
func (id ID) String() string {
	switch id {
	case ExcludedProvider:
		return "excluded_provider"
	case BillingOutlier:
		return "billing_outlier"
	case RapidEscalation:
		return "rapid_escalation"
	case WorkforceImpossibility:
		return "workforce_impossibility"
	case SharedOfficial:
		return "shared_official"
	case GeographicImplausibility:
		return "geographic_implausibility"
	default:
		return "signal_" + strconv.Itoa(int(id))
	}
}

// Finding is one detector hit for one provider. Evidence holds the
// signal-specific detail struct.
type Finding struct {
	NPI      string
	Signal   ID
	Evidence Evidence
}

// Evidence is the tagged union of per-signal detail structs. Each signal has
// exactly one concrete evidence type.
type Evidence interface {
	isEvidence()
}

// ExcludedBillingEvidence details billing activity after an active exclusion.
type ExcludedBillingEvidence struct {
	ExclusionDate        string  `json:"exclusion_date"`
	ExclusionType        string  `json:"exclusion_type"`
	PostExclusionPaid    float64 `json:"post_exclusion_paid"`
	PostExclusionClaims  int64   `json:"post_exclusion_claims"`
	FirstPostExclBilling string  `json:"first_post_excl_billing"`
	LastPostExclBilling  string  `json:"last_post_excl_billing"`
}

// VolumeOutlierEvidence details a provider exceeding its peer group's 99th
// percentile of total payment.
type VolumeOutlierEvidence struct {
	TotalPaid         float64 `json:"total_paid"`
	PeerMedian        float64 `json:"peer_median"`
	P99Threshold      float64 `json:"p99_threshold"`
	RatioToPeerMedian float64 `json:"ratio_to_peer_median"`
	Taxonomy          string  `json:"taxonomy"`
	State             string  `json:"state"`
}

// RapidEscalationEvidence details a newly enumerated provider's billing
// growth over its first billing periods.
type RapidEscalationEvidence struct {
	EnumerationDate        string        `json:"enumeration_date"`
	FirstBillingMonth      string        `json:"first_billing_month"`
	TwelveMonthProgression MonthlySeries `json:"twelve_month_progression"`
	PeakGrowthRate         float64       `json:"peak_growth_rate"`
	PaymentsDuringGrowth   float64       `json:"payments_during_growth"`
}

// WorkforceEvidence details an organization's physically impossible peak
// month claim volume.
type WorkforceEvidence struct {
	PeakMonth            string  `json:"peak_month"`
	ClaimsCount          int64   `json:"claims_count"`
	ImpliedClaimsPerHour float64 `json:"implied_claims_per_hour"`
	PeakMonthRevenue     float64 `json:"peak_month_revenue"`
}

// SharedOfficialEvidence details a group of NPIs under one authorized
// official with large combined billing.
type SharedOfficialEvidence struct {
	OfficialName  string             `json:"official_name"`
	NPIList       []string           `json:"npi_list"`
	PerNPITotals  map[string]float64 `json:"per_npi_totals"`
	CombinedTotal float64            `json:"combined_total"`
}

// GeographicEvidence details a home health provider-month with an
// implausibly low beneficiary-to-claim ratio. State is backfilled during
// enrichment from the registry.
type GeographicEvidence struct {
	State               string   `json:"state"`
	FlaggedCodes        []string `json:"flagged_codes"`
	Month               string   `json:"month"`
	Claims              int64    `json:"claims"`
	UniqueBeneficiaries int64    `json:"unique_beneficiaries"`
	Ratio               float64  `json:"ratio"`
}

func (*ExcludedBillingEvidence) isEvidence() {}
func (*VolumeOutlierEvidence) isEvidence()   {}
func (*RapidEscalationEvidence) isEvidence() {}
func (*WorkforceEvidence) isEvidence()       {}
func (*SharedOfficialEvidence) isEvidence()  {}
func (*GeographicEvidence) isEvidence()      {}

// MonthAmount is one entry of a chronological month -> payment series.
type MonthAmount struct {
	Month string
	Paid  float64
}

// MonthlySeries serializes as a JSON object whose keys keep chronological
// order, matching the progression format downstream consumers expect.
type MonthlySeries []MonthAmount

// MarshalJSON emits the series as an ordered JSON object.
func (s MonthlySeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Month)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Paid)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the object form but does not recover ordering beyond
// what the decoder reports; it exists for report round-trip tooling.
func (s *MonthlySeries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}
	var out MonthlySeries
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var paid float64
		if err := dec.Decode(&paid); err != nil {
			return err
		}
		out = append(out, MonthAmount{Month: keyTok.(string), Paid: paid})
	}
	*s = out
	return nil
}
