// Package metrics provides a small Prometheus-compatible counter
// collector. It renders text/plain in Prometheus exposition format
// without pulling in the heavy prometheus/client_golang dependency.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Collector is the global metrics collector.
var Collector = NewCollector()

// MetricsCollector aggregates named counters.
type MetricsCollector struct {
	mu        sync.Mutex
	counters  map[string]*Counter
	order     []string
	startTime time.Time
}

// NewCollector creates a new collector.
func NewCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:  make(map[string]*Counter),
		startTime: time.Now(),
	}
}

// Uptime returns how long the collector has been running.
func (c *MetricsCollector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Counter is a monotonically increasing counter.
type Counter struct {
	name  string
	help  string
	value atomic.Int64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { c.value.Add(1) }

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.value.Load() }

// Counter returns or creates a counter with the given name.
func (c *MetricsCollector) Counter(name, help string) *Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctr, ok := c.counters[name]; ok {
		return ctr
	}
	ctr := &Counter{name: name, help: help}
	c.counters[name] = ctr
	c.order = append(c.order, name)
	sort.Strings(c.order)
	return ctr
}

// Handler returns an http.HandlerFunc that renders metrics in Prometheus
// text format.
func (c *MetricsCollector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		fmt.Fprintf(w, "# HELP relaybot_uptime_seconds Time since start in seconds\n")
		fmt.Fprintf(w, "# TYPE relaybot_uptime_seconds gauge\n")
		fmt.Fprintf(w, "relaybot_uptime_seconds %d\n\n", int64(c.Uptime().Seconds()))

		c.mu.Lock()
		defer c.mu.Unlock()
		for _, name := range c.order {
			ctr := c.counters[name]
			fmt.Fprintf(w, "# HELP %s %s\n", ctr.name, ctr.help)
			fmt.Fprintf(w, "# TYPE %s counter\n", ctr.name)
			fmt.Fprintf(w, "%s %d\n", ctr.name, ctr.Value())
		}
	}
}

// Pre-defined metrics used across the relay.
var (
	UpdatesTotal     = Collector.Counter("relaybot_updates_total", "Total inbound Telegram updates")
	PostsDelivered   = Collector.Counter("relaybot_posts_delivered_total", "Channel posts delivered to Discord")
	PostsDropped     = Collector.Counter("relaybot_posts_dropped_total", "Channel posts suppressed or unroutable")
	FetchFailures    = Collector.Counter("relaybot_photo_fetch_failures_total", "Telegram photo fetch failures")
	DeliveryFailures = Collector.Counter("relaybot_delivery_failures_total", "Discord webhook delivery failures")
	ReportFailures   = Collector.Counter("relaybot_owner_report_failures_total", "Owner notification failures")
)
