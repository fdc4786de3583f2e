// Package telemetry provides metrics collection and reporting
// for monitoring the mcp-browser-use service.
package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MetricsCollector provides a thread-safe interface for collecting
// application metrics for monitoring and troubleshooting.
type MetricsCollector struct {
	counters   map[string]int64
	gauges     map[string]float64
	timers     map[string][]time.Duration
	latestTime map[string]time.Time
	mu         sync.RWMutex
}

// Metric names for browser and tool activity
const (
	// Tool invocation counts
	MetricToolCalls        = "server.tool_calls"
	MetricToolCallsSuccess = "server.tool_calls.success"
	MetricToolCallsFailure = "server.tool_calls.failure"

	// Browser lifecycle
	MetricBrowserLaunches = "browser.launches"
	MetricBrowserCloses   = "browser.closes"
	MetricTabsOpened      = "browser.tabs_opened"

	// Page interaction counts
	MetricNavigations = "browser.navigations"
	MetricClicks      = "browser.clicks"
	MetricInputs      = "browser.inputs"
	MetricDownloads   = "browser.downloads"

	// Response times
	MetricToolDuration       = "server.tool_duration"
	MetricNavigationDuration = "browser.navigation_duration"
	MetricSnapshotDuration   = "browser.snapshot_duration"

	// Timestamps
	MetricLastToolCall = "server.last_tool_call"
	MetricLastLaunch   = "browser.last_launch"
)

// ToolCallMetric returns the per-tool counter name for the given tool.
func ToolCallMetric(tool string) string {
	return MetricToolCalls + "." + tool
}

// NewMetricsCollector creates a new MetricsCollector instance
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		timers:     make(map[string][]time.Duration),
		latestTime: make(map[string]time.Time),
	}
}

// IncrementCounter increments a named counter by the specified amount
func (m *MetricsCollector) IncrementCounter(name string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name] += amount
}

// SetGauge sets a named gauge to the specified value
func (m *MetricsCollector) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gauges[name] = value
}

// RecordTimer records a duration for the specified timer
func (m *MetricsCollector) RecordTimer(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timers[name] = append(m.timers[name], duration)

	// Limit the number of stored durations to avoid unbounded growth
	if len(m.timers[name]) > 100 {
		m.timers[name] = m.timers[name][1:]
	}
}

// RecordTimestamp records the current time for the specified event
func (m *MetricsCollector) RecordTimestamp(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latestTime[name] = time.Now()
}

// GetCounter retrieves the current value of a counter
func (m *MetricsCollector) GetCounter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.counters[name]
}

// GetGauge retrieves the current value of a gauge
func (m *MetricsCollector) GetGauge(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.gauges[name]
}

// GetTimerAverage calculates the average duration for a timer
func (m *MetricsCollector) GetTimerAverage(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return timerAverage(m.timers[name])
}

// GetTimerP95 calculates the 95th percentile duration for a timer
func (m *MetricsCollector) GetTimerP95(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return timerP95(m.timers[name])
}

// GetTimeSince calculates the time elapsed since a recorded timestamp
func (m *MetricsCollector) GetTimeSince(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	timestamp, exists := m.latestTime[name]
	if !exists {
		return 0
	}

	return time.Since(timestamp)
}

// TimerStats summarizes a timer for snapshot export.
type TimerStats struct {
	Count   int           `json:"count"`
	Average time.Duration `json:"average"`
	P95     time.Duration `json:"p95"`
}

// Snapshot returns a point-in-time copy of all metrics, suitable for
// serving from the debug endpoint.
func (m *MetricsCollector) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for name, value := range m.counters {
		counters[name] = value
	}

	gauges := make(map[string]float64, len(m.gauges))
	for name, value := range m.gauges {
		gauges[name] = value
	}

	timers := make(map[string]TimerStats, len(m.timers))
	for name, durations := range m.timers {
		timers[name] = TimerStats{
			Count:   len(durations),
			Average: timerAverage(durations),
			P95:     timerP95(durations),
		}
	}

	timestamps := make(map[string]time.Time, len(m.latestTime))
	for name, ts := range m.latestTime {
		timestamps[name] = ts
	}

	return map[string]interface{}{
		"counters":   counters,
		"gauges":     gauges,
		"timers":     timers,
		"timestamps": timestamps,
	}
}

// GetReport generates a human-readable report of all collected metrics
func (m *MetricsCollector) GetReport() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := "Metrics Report:\n"
	report += "==============\n\n"

	report += "Counters:\n"
	for name, value := range m.counters {
		report += fmt.Sprintf("  %s: %d\n", name, value)
	}

	report += "\nGauges:\n"
	for name, value := range m.gauges {
		report += fmt.Sprintf("  %s: %.2f\n", name, value)
	}

	report += "\nTimers:\n"
	for name, durations := range m.timers {
		report += fmt.Sprintf("  %s: avg=%v p95=%v count=%d\n",
			name, timerAverage(durations), timerP95(durations), len(durations))
	}

	report += "\nTime Since:\n"
	for name, timestamp := range m.latestTime {
		report += fmt.Sprintf("  %s: %v ago (%s)\n",
			name, time.Since(timestamp), timestamp.Format(time.RFC3339))
	}

	return report
}

func timerAverage(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}

func timerP95(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)) * 0.95)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
