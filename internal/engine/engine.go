// Package engine orchestrates a scan: loading the three datasets, running the
// six signal detectors concurrently, enriching findings with registry data,
// and assembling the final report.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/gyeh/fraud-signals/internal/config"
	"github.com/gyeh/fraud-signals/internal/ingest"
	"github.com/gyeh/fraud-signals/internal/progress"
	"github.com/gyeh/fraud-signals/internal/report"
	"github.com/gyeh/fraud-signals/internal/signal"
)

// Engine runs fraud signal scans.
type Engine struct {
	Log        hclog.Logger
	Progress   progress.Manager
	Workers    int
	Thresholds signal.Thresholds
}

// Datasets holds the three loaded source datasets.
type Datasets struct {
	Claims     *ingest.ClaimsData
	Exclusions []ingest.ExclusionRow
	Registry   []ingest.RegistryRow
}

// LoadDatasets loads all three datasets from the data directory concurrently.
// Any load failure aborts the scan; detectors cannot run on partial inputs.
func (e *Engine) LoadDatasets(dataDir string, files config.Files) (*Datasets, error) {
	ds := &Datasets{}
	errs := make([]error, 3)

	loads := []struct {
		name string
		path string
		run  func(path string, t progress.Tracker) error
	}{
		{"claims", filepath.Join(dataDir, files.Claims), func(path string, t progress.Tracker) error {
			claims, err := ingest.LoadClaims(path, t)
			ds.Claims = claims
			return err
		}},
		{"exclusions", filepath.Join(dataDir, files.Exclusions), func(path string, t progress.Tracker) error {
			rows, err := ingest.LoadExclusions(path, t)
			ds.Exclusions = rows
			return err
		}},
		{"registry", filepath.Join(dataDir, files.Registry), func(path string, t progress.Tracker) error {
			rows, err := ingest.LoadRegistry(path, t)
			ds.Registry = rows
			return err
		}},
	}

	var wg sync.WaitGroup
	for i, ld := range loads {
		wg.Add(1)
		go func(idx int, name, path string, run func(string, progress.Tracker) error) {
			defer wg.Done()
			tracker := e.Progress.NewTracker(idx, len(loads), name)
			defer tracker.Done()
			if err := run(path, tracker); err != nil {
				errs[idx] = fmt.Errorf("loading %s: %w", name, err)
			}
		}(i, ld.name, ld.path, ld.run)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	e.Log.Info("datasets loaded",
		"claim_rows", len(ds.Claims.Rows),
		"exclusion_rows", len(ds.Exclusions),
		"registry_rows", len(ds.Registry),
		"distinct_npis", ds.Claims.DistinctNPIs)
	return ds, nil
}

type evaluator struct {
	id  signal.ID
	run func(ds *Datasets, th signal.Thresholds) ([]signal.Finding, error)
}

func evaluators() []evaluator {
	return []evaluator{
		{signal.ExcludedProvider, func(ds *Datasets, th signal.Thresholds) ([]signal.Finding, error) {
			return signal.ExcludedBilling(ds.Claims, ds.Exclusions)
		}},
		{signal.BillingOutlier, func(ds *Datasets, th signal.Thresholds) ([]signal.Finding, error) {
			return signal.VolumeOutlier(ds.Claims, ds.Registry, th)
		}},
		{signal.RapidEscalation, func(ds *Datasets, th signal.Thresholds) ([]signal.Finding, error) {
			return signal.RapidEscalationBilling(ds.Claims, ds.Registry, th)
		}},
		{signal.WorkforceImpossibility, func(ds *Datasets, th signal.Thresholds) ([]signal.Finding, error) {
			return signal.WorkforceImpossible(ds.Claims, ds.Registry, th)
		}},
		{signal.SharedOfficial, func(ds *Datasets, th signal.Thresholds) ([]signal.Finding, error) {
			return signal.SharedOfficialBilling(ds.Claims, ds.Registry, th)
		}},
		{signal.GeographicImplausibility, func(ds *Datasets, th signal.Thresholds) ([]signal.Finding, error) {
			return signal.GeographicImplausible(ds.Claims, th)
		}},
	}
}

// Scan runs every detector over the loaded datasets and assembles the report.
// Detector failures are isolated: a failing signal contributes zero findings
// and the scan continues.
func (e *Engine) Scan(ctx context.Context, ds *Datasets) (*report.Report, error) {
	evals := evaluators()
	results := make([][]signal.Finding, len(evals))

	workers := e.Workers
	if workers < 1 {
		workers = len(evals)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, ev := range evals {
		wg.Add(1)
		go func(idx int, ev evaluator) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				e.Log.Warn("signal canceled", "signal", ev.id.String())
				return
			}
			defer func() { <-sem }()

			tracker := e.Progress.NewTracker(idx, len(evals), ev.id.String())
			defer tracker.Done()
			tracker.SetStage("evaluating")

			findings, err := e.runEvaluator(ev, ds)
			if err != nil {
				e.Log.Error("signal failed", "signal", ev.id.String(), "error", err)
				return
			}
			e.Log.Info("signal complete", "signal", ev.id.String(), "findings", len(findings))
			results[idx] = findings
		}(i, ev)
	}
	wg.Wait()
	e.Progress.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var counts report.SignalCounts
	var all []signal.Finding
	for i, ev := range evals {
		counts.Set(ev.id, len(results[i]))
		all = append(all, results[i]...)
	}

	flagged := e.enrich(ds, all)
	return report.Build(flagged, ds.Claims.DistinctNPIs, counts), nil
}

// runEvaluator invokes one detector, converting a panic into an error so a
// buggy detector cannot take down the whole scan.
func (e *Engine) runEvaluator(ev evaluator, ds *Datasets) (findings []signal.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	return ev.run(ds, e.Thresholds)
}
