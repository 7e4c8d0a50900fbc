// Package progress renders pipeline progress: one tracker per dataset load
// or signal evaluation, with an mpb bar per tracker on TTYs and throttled
// log lines elsewhere.
package progress

import (
	"fmt"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Tracker tracks one unit of pipeline work (a dataset load or a signal run).
type Tracker interface {
	SetStage(stage string)
	SetCounter(name string, value int64)
	Done()
}

// Manager creates trackers for pipeline stages.
type Manager interface {
	NewTracker(index, total int, name string) Tracker
	Wait()
}

// MPBManager implements Manager using the mpb multi-progress-bar library.
type MPBManager struct {
	container *mpb.Progress
}

// NewMPBManager creates a new mpb-based progress manager.
func NewMPBManager() *MPBManager {
	return &MPBManager{container: mpb.New(mpb.WithWidth(60))}
}

// NewTracker creates a new progress bar for a pipeline stage.
func (m *MPBManager) NewTracker(index, total int, name string) Tracker {
	status := &atomic.Value{}
	status.Store("")
	bar := m.container.AddBar(100,
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("[%d/%d] %s ", index+1, total, name), decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Any(func(s decor.Statistics) string {
				return status.Load().(string)
			}),
		),
	)

	return &mpbTracker{bar: bar, status: status}
}

// Wait waits for all progress bars to finish.
func (m *MPBManager) Wait() {
	m.container.Wait()
}

type mpbTracker struct {
	bar    *mpb.Bar
	status *atomic.Value
	stage  string
}

func (t *mpbTracker) SetStage(stage string) {
	t.stage = stage
	t.status.Store(stage)
	t.bar.SetCurrent(0) // reset progress for new stage
}

func (t *mpbTracker) SetCounter(name string, value int64) {
	t.status.Store(fmt.Sprintf("%s  %s: %s", t.stage, name, humanCount(value)))
	t.bar.IncrBy(1)
}

func (t *mpbTracker) Done() {
	t.bar.SetTotal(100, false)
	t.bar.SetCurrent(100)
	t.bar.Abort(false) // complete without removing
}

// NoopManager is a no-op progress manager for tests and quiet runs.
type NoopManager struct{}

func (m *NoopManager) NewTracker(index, total int, name string) Tracker {
	return &noopTracker{}
}

func (m *NoopManager) Wait() {}

type noopTracker struct{}

func (t *noopTracker) SetStage(stage string)               {}
func (t *noopTracker) SetCounter(name string, value int64) {}
func (t *noopTracker) Done()                               {}
