package signal

import (
	"sort"
	"time"

	"github.com/gyeh/fraud-signals/internal/ingest"
)

// enumDateLayout is how NPPES publishes enumeration dates.
const enumDateLayout = "01/02/2006"

// RapidEscalationBilling flags newly enumerated providers whose early billing
// grows explosively. Only providers enumerated within the configured window
// before their first billing period qualify; growth is the rolling mean of
// month-over-month payment change over their first billing periods.
func RapidEscalationBilling(claims *ingest.ClaimsData, registry []ingest.RegistryRow, th Thresholds) ([]Finding, error) {
	monthly, order := monthlyByNPI(claims.Rows, nil)

	enumDates := make(map[string]time.Time)
	for _, r := range registry {
		if _, ok := enumDates[r.NPI]; ok {
			continue
		}
		if d, err := time.Parse(enumDateLayout, r.EnumerationDate); err == nil {
			enumDates[r.NPI] = d
		}
	}

	var findings []Finding
	for _, npi := range order {
		enumDate, ok := enumDates[npi]
		if !ok {
			continue
		}

		periods := monthly[npi]
		months := make([]string, 0, len(periods))
		for m := range periods {
			months = append(months, m)
		}
		sort.Strings(months)

		firstBilling, err := time.Parse("2006-01", months[0])
		if err != nil {
			continue
		}
		diff := ingest.MonthsBetween(enumDate, firstBilling)
		if diff < 0 || diff > th.EnumWindowMonths {
			continue
		}

		if len(months) > th.GrowthMaxPeriods {
			months = months[:th.GrowthMaxPeriods]
		}

		paid := make([]float64, len(months))
		for i, m := range months {
			paid[i] = periods[m].paid
		}

		growth, defined := momGrowth(paid)
		rolling, rollingOK := rollingMean(growth, defined, th.GrowthWindow)

		peak, peakOK := 0.0, false
		var duringGrowth float64
		for i := range rolling {
			if !rollingOK[i] {
				continue
			}
			if !peakOK || rolling[i] > peak {
				peak, peakOK = rolling[i], true
			}
			if rolling[i] > th.GrowthThreshold {
				duringGrowth += paid[i]
			}
		}
		if !peakOK || peak <= th.GrowthThreshold {
			continue
		}

		progression := make(MonthlySeries, len(months))
		for i, m := range months {
			progression[i] = MonthAmount{Month: m, Paid: paid[i]}
		}

		findings = append(findings, Finding{
			NPI:    npi,
			Signal: RapidEscalation,
			Evidence: &RapidEscalationEvidence{
				EnumerationDate:        enumDate.Format("2006-01-02"),
				FirstBillingMonth:      months[0],
				TwelveMonthProgression: progression,
				PeakGrowthRate:         round1(peak),
				PaymentsDuringGrowth:   round2(duringGrowth),
			},
		})
	}
	return findings, nil
}

// momGrowth computes month-over-month percent growth. An entry is defined
// only where the previous period's payment is positive.
func momGrowth(paid []float64) (growth []float64, defined []bool) {
	growth = make([]float64, len(paid))
	defined = make([]bool, len(paid))
	for i := 1; i < len(paid); i++ {
		if paid[i-1] > 0 {
			growth[i] = (paid[i] - paid[i-1]) / paid[i-1] * 100
			defined[i] = true
		}
	}
	return growth, defined
}

// rollingMean computes a trailing mean over window consecutive values. The
// result is defined at position i only when all window inputs ending at i
// are defined.
func rollingMean(vals []float64, defined []bool, window int) ([]float64, []bool) {
	out := make([]float64, len(vals))
	ok := make([]bool, len(vals))
	for i := window - 1; i < len(vals); i++ {
		sum, all := 0.0, true
		for j := i - window + 1; j <= i; j++ {
			if !defined[j] {
				all = false
				break
			}
			sum += vals[j]
		}
		if all {
			out[i] = sum / float64(window)
			ok[i] = true
		}
	}
	return out, ok
}
