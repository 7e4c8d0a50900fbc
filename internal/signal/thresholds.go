// Package signal implements the six fraud signal detectors. Each detector is
// a pure function over the loaded datasets returning findings, so detectors
// can run in any order or concurrently without coordination.
package signal

// Thresholds collects every tunable detection parameter. Zero-configuration
// runs use DefaultThresholds; a YAML override file can replace individual
// values.
type Thresholds struct {
	// PeerGroupMin is the minimum (taxonomy, state) peer group size for
	// volume outlier detection. Smaller cohorts are discarded.
	PeerGroupMin int `yaml:"peer_group_min"`

	// GrowthThreshold is the rolling-average month-over-month growth rate
	// (percent) above which escalation is flagged.
	GrowthThreshold float64 `yaml:"growth_threshold"`
	// GrowthWindow is the rolling window length, in billing periods.
	GrowthWindow int `yaml:"growth_window"`
	// GrowthMaxPeriods caps how many initial billing periods are examined.
	GrowthMaxPeriods int `yaml:"growth_max_periods"`
	// EnumWindowMonths limits escalation analysis to providers enumerated
	// at most this many months before their first billing period.
	EnumWindowMonths int `yaml:"enum_window_months"`

	// ClaimsPerHour is the implied claims-per-business-hour rate above
	// which an organization's peak month is considered impossible.
	ClaimsPerHour float64 `yaml:"claims_per_hour"`
	// BusinessHours is the assumed working hours per month (22 days x 8h).
	BusinessHours int `yaml:"business_hours"`

	// OfficialGroupMin is the minimum number of NPIs under one authorized
	// official before the group is examined.
	OfficialGroupMin int `yaml:"official_group_min"`
	// OfficialCombinedFloor is the combined billing (USD) a group must
	// exceed to be flagged.
	OfficialCombinedFloor float64 `yaml:"official_combined_floor"`

	// HomeHealthClaimsFloor is the per-month claim count a provider must
	// exceed before the beneficiary ratio is evaluated.
	HomeHealthClaimsFloor int64 `yaml:"home_health_claims_floor"`
	// HomeHealthRatioCeiling is the beneficiary/claims ratio below which a
	// provider-month is implausible.
	HomeHealthRatioCeiling float64 `yaml:"home_health_ratio_ceiling"`
}

// DefaultThresholds returns the documented defaults for every parameter.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PeerGroupMin:           5,
		GrowthThreshold:        200,
		GrowthWindow:           3,
		GrowthMaxPeriods:       12,
		EnumWindowMonths:       24,
		ClaimsPerHour:          6,
		BusinessHours:          22 * 8,
		OfficialGroupMin:       5,
		OfficialCombinedFloor:  1_000_000,
		HomeHealthClaimsFloor:  100,
		HomeHealthRatioCeiling: 0.1,
	}
}
