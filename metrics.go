package x12claims

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks parse performance metrics using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// Parse counts
	parsesTotal atomic.Uint64
	parsesValid atomic.Uint64

	// Timing (stored as nanoseconds)
	parseTimeTotal atomic.Uint64
	parseTimeMin   atomic.Uint64
	parseTimeMax   atomic.Uint64

	// Pool metrics
	poolAcquires atomic.Uint64
	poolReleases atomic.Uint64

	// Finding counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	// Per-stage timing (map access protected by sync.Map)
	stageTiming sync.Map // map[string]*stageMetrics
}

// stageMetrics tracks metrics for a single parse stage.
type stageMetrics struct {
	invocations   atomic.Uint64
	totalTime     atomic.Uint64 // nanoseconds
	findingsFound atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.parseTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordParse records a completed parse.
func (m *Metrics) RecordParse(duration time.Duration, valid bool) {
	m.parsesTotal.Add(1)
	if valid {
		m.parsesValid.Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.parseTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.parseTimeMin.Load()
		if ns >= old {
			break
		}
		if m.parseTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.parseTimeMax.Load()
		if ns <= old {
			break
		}
		if m.parseTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordPoolAcquire records a pool acquire operation.
func (m *Metrics) RecordPoolAcquire() {
	m.poolAcquires.Add(1)
}

// RecordPoolRelease records a pool release operation.
func (m *Metrics) RecordPoolRelease() {
	m.poolReleases.Add(1)
}

// RecordFinding records a finding based on severity.
func (m *Metrics) RecordFinding(severity Severity) {
	switch severity {
	case SeverityError, SeverityFatal:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInformation:
		m.infosTotal.Add(1)
	}
}

// RecordStage records metrics for a parse stage.
func (m *Metrics) RecordStage(stageName string, duration time.Duration, findingsFound int) {
	sm := m.getOrCreateStageMetrics(stageName)
	sm.invocations.Add(1)
	sm.totalTime.Add(uint64(duration.Nanoseconds())) //nolint:gosec // Safe: nanoseconds are always positive
	sm.findingsFound.Add(uint64(findingsFound))      //nolint:gosec // Safe: findingsFound is a small positive integer
}

func (m *Metrics) getOrCreateStageMetrics(name string) *stageMetrics {
	if v, ok := m.stageTiming.Load(name); ok {
		return v.(*stageMetrics)
	}
	sm := &stageMetrics{}
	actual, _ := m.stageTiming.LoadOrStore(name, sm)
	return actual.(*stageMetrics)
}

// --- Query Methods ---

// ParsesTotal returns the total number of parses performed.
func (m *Metrics) ParsesTotal() uint64 {
	return m.parsesTotal.Load()
}

// ParsesValid returns the number of parses with no error findings.
func (m *Metrics) ParsesValid() uint64 {
	return m.parsesValid.Load()
}

// ParseRate returns the fraction of valid parses (0.0 to 1.0).
func (m *Metrics) ParseRate() float64 {
	total := m.parsesTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.parsesValid.Load()) / float64(total)
}

// AverageParseTime returns the average parse duration.
func (m *Metrics) AverageParseTime() time.Duration {
	total := m.parsesTotal.Load()
	if total == 0 {
		return 0
	}
	avgNs := m.parseTimeTotal.Load() / total
	return time.Duration(avgNs) //nolint:gosec // Safe: avgNs represents nanoseconds within int64 range
}

// MinParseTime returns the minimum parse duration.
func (m *Metrics) MinParseTime() time.Duration {
	minVal := m.parseTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: minVal represents nanoseconds within int64 range
}

// MaxParseTime returns the maximum parse duration.
func (m *Metrics) MaxParseTime() time.Duration {
	return time.Duration(m.parseTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// PoolAcquires returns the total pool acquire operations.
func (m *Metrics) PoolAcquires() uint64 {
	return m.poolAcquires.Load()
}

// PoolReleases returns the total pool release operations.
func (m *Metrics) PoolReleases() uint64 {
	return m.poolReleases.Load()
}

// PoolLeaks returns potential pool leaks (acquires - releases).
func (m *Metrics) PoolLeaks() int64 {
	return int64(m.poolAcquires.Load()) - int64(m.poolReleases.Load()) //nolint:gosec // Safe: counters won't overflow int64
}

// ErrorsTotal returns the total error findings recorded.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning findings recorded.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// InfosTotal returns the total informational findings recorded.
func (m *Metrics) InfosTotal() uint64 {
	return m.infosTotal.Load()
}

// StageStats contains statistics for a single parse stage.
type StageStats struct {
	Name          string
	Invocations   uint64
	TotalTime     time.Duration
	AvgTime       time.Duration
	FindingsFound uint64
}

// StageStats returns statistics for a specific stage.
func (m *Metrics) StageStats(stageName string) (StageStats, bool) {
	v, ok := m.stageTiming.Load(stageName)
	if !ok {
		return StageStats{Name: stageName}, false
	}
	sm := v.(*stageMetrics)
	invocations := sm.invocations.Load()
	totalTime := sm.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
	}

	return StageStats{
		Name:          stageName,
		Invocations:   invocations,
		TotalTime:     time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
		AvgTime:       avgTime,
		FindingsFound: sm.findingsFound.Load(),
	}, true
}

// AllStageStats returns statistics for all stages.
func (m *Metrics) AllStageStats() []StageStats {
	var stats []StageStats
	m.stageTiming.Range(func(key, value any) bool {
		sm := value.(*stageMetrics)
		name := key.(string)
		invocations := sm.invocations.Load()
		totalTime := sm.totalTime.Load()

		var avgTime time.Duration
		if invocations > 0 {
			avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
		}

		stats = append(stats, StageStats{
			Name:          name,
			Invocations:   invocations,
			TotalTime:     time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
			AvgTime:       avgTime,
			FindingsFound: sm.findingsFound.Load(),
		})
		return true
	})
	return stats
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	// Timestamp when the snapshot was taken
	Timestamp time.Time `json:"timestamp"`

	// Parse metrics
	ParsesTotal uint64  `json:"parses_total"`
	ParsesValid uint64  `json:"parses_valid"`
	ParseRate   float64 `json:"parse_rate"`

	// Timing metrics (in nanoseconds for precision)
	AvgParseTimeNs uint64 `json:"avg_parse_time_ns"`
	MinParseTimeNs uint64 `json:"min_parse_time_ns"`
	MaxParseTimeNs uint64 `json:"max_parse_time_ns"`

	// Pool metrics
	PoolAcquires uint64 `json:"pool_acquires"`
	PoolReleases uint64 `json:"pool_releases"`
	PoolLeaks    int64  `json:"pool_leaks"`

	// Finding metrics
	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	// Stage metrics
	Stages []StageStats `json:"stages,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.parsesTotal.Load()

	var avgTime, parseRate float64
	if total > 0 {
		avgTime = float64(m.parseTimeTotal.Load()) / float64(total)
		parseRate = float64(m.parsesValid.Load()) / float64(total)
	}

	minTime := m.parseTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:      time.Now(),
		ParsesTotal:    total,
		ParsesValid:    m.parsesValid.Load(),
		ParseRate:      parseRate,
		AvgParseTimeNs: uint64(avgTime),
		MinParseTimeNs: minTime,
		MaxParseTimeNs: m.parseTimeMax.Load(),
		PoolAcquires:   m.poolAcquires.Load(),
		PoolReleases:   m.poolReleases.Load(),
		PoolLeaks:      m.PoolLeaks(),
		ErrorsTotal:    m.errorsTotal.Load(),
		WarningsTotal:  m.warningsTotal.Load(),
		InfosTotal:     m.infosTotal.Load(),
		Stages:         m.AllStageStats(),
	}
}

// Export returns metrics as a map suitable for external systems.
func (m *Metrics) Export() map[string]interface{} {
	s := m.Snapshot()
	return map[string]interface{}{
		"parses_total":      s.ParsesTotal,
		"parses_valid":      s.ParsesValid,
		"parse_rate":        s.ParseRate,
		"avg_parse_time_ns": s.AvgParseTimeNs,
		"min_parse_time_ns": s.MinParseTimeNs,
		"max_parse_time_ns": s.MaxParseTimeNs,
		"pool_acquires":     s.PoolAcquires,
		"pool_releases":     s.PoolReleases,
		"pool_leaks":        s.PoolLeaks,
		"errors_total":      s.ErrorsTotal,
		"warnings_total":    s.WarningsTotal,
		"infos_total":       s.InfosTotal,
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.parsesTotal.Store(0)
	m.parsesValid.Store(0)
	m.parseTimeTotal.Store(0)
	m.parseTimeMin.Store(^uint64(0))
	m.parseTimeMax.Store(0)
	m.poolAcquires.Store(0)
	m.poolReleases.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	// Clear stage timing
	m.stageTiming.Range(func(key, _ any) bool {
		m.stageTiming.Delete(key)
		return true
	})
}
