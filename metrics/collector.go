// Package metrics provides MetricsCollector implementations for the
// interception engine: a basic in-memory collector and a Prometheus
// exporter.
package metrics

import (
	"sync"
	"time"

	"github.com/glimte/intercept-go/interception"
)

// DurationStats tracks timing statistics for one operation
type DurationStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

var _ interception.MetricsCollector = (*Collector)(nil)

// Collector is a basic in-memory implementation of
// interception.MetricsCollector. Safe for concurrent use.
type Collector struct {
	mu          sync.RWMutex
	callCounts  map[string]int64
	errorCounts map[string]map[string]int64
	durations   map[string]*DurationStats
}

// NewCollector creates an empty in-memory collector
func NewCollector() *Collector {
	return &Collector{
		callCounts:  make(map[string]int64),
		errorCounts: make(map[string]map[string]int64),
		durations:   make(map[string]*DurationStats),
	}
}

// IncrementCallCount implements interception.MetricsCollector
func (c *Collector) IncrementCallCount(operation string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callCounts[operation]++
}

// RecordDuration implements interception.MetricsCollector
func (c *Collector) RecordDuration(operation string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, exists := c.durations[operation]
	if !exists {
		stats = &DurationStats{Min: duration, Max: duration}
		c.durations[operation] = stats
	}
	stats.Count++
	stats.Total += duration
	if duration < stats.Min {
		stats.Min = duration
	}
	if duration > stats.Max {
		stats.Max = duration
	}
}

// IncrementErrorCount implements interception.MetricsCollector
func (c *Collector) IncrementErrorCount(operation string, errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.errorCounts[operation] == nil {
		c.errorCounts[operation] = make(map[string]int64)
	}
	c.errorCounts[operation][errorType]++
}

// CallCount returns how many times the operation was invoked
func (c *Collector) CallCount(operation string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.callCounts[operation]
}

// ErrorCount returns how many errors of the given type the operation produced
func (c *Collector) ErrorCount(operation string, errorType string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errorCounts[operation][errorType]
}

// Durations returns a copy of the operation's timing statistics
func (c *Collector) Durations(operation string) (DurationStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats, exists := c.durations[operation]
	if !exists {
		return DurationStats{}, false
	}
	return *stats, true
}
