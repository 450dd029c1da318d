package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counter and gauge names used around the service
const (
	OrdersCreated    = "orders_created"
	OrdersDelivered  = "orders_delivered"
	OrdersCancelled  = "orders_cancelled"
	OrdersIndexed    = "orders_indexed"
	WebsocketClients = "websocket_clients"
)

// Metrics is a lightweight in-process metrics collector
type Metrics struct {
	mu           sync.RWMutex
	counters     map[string]*int64
	gauges       map[string]*int64
	healthChecks map[string]*int64
	startTime    time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		counters:     make(map[string]*int64),
		gauges:       make(map[string]*int64),
		healthChecks: make(map[string]*int64),
		startTime:    time.Now(),
	}
}

// IncrementCounter increments a counter by 1
func (m *Metrics) IncrementCounter(name string) {
	m.IncrementCounterBy(name, 1)
}

// IncrementCounterBy increments a counter by the specified value
func (m *Metrics) IncrementCounterBy(name string, value int64) {
	atomic.AddInt64(m.counter(name), value)
}

// SetGauge sets a gauge to a specific value
func (m *Metrics) SetGauge(name string, value int64) {
	atomic.StoreInt64(m.gauge(name), value)
}

// SetHealthStatus records a component health check result
func (m *Metrics) SetHealthStatus(name string, healthy bool) {
	var v int64
	if healthy {
		v = 1
	}
	m.mu.Lock()
	check, exists := m.healthChecks[name]
	if !exists {
		check = new(int64)
		m.healthChecks[name] = check
	}
	m.mu.Unlock()
	atomic.StoreInt64(check, v)
}

// UptimeSeconds reports how long the process has been running
func (m *Metrics) UptimeSeconds() int64 {
	return int64(time.Since(m.startTime).Seconds())
}

// Snapshot returns the current values of all metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for name, v := range m.counters {
		counters[name] = atomic.LoadInt64(v)
	}
	gauges := make(map[string]int64, len(m.gauges))
	for name, v := range m.gauges {
		gauges[name] = atomic.LoadInt64(v)
	}
	health := make(map[string]bool, len(m.healthChecks))
	for name, v := range m.healthChecks {
		health[name] = atomic.LoadInt64(v) == 1
	}

	return map[string]interface{}{
		"uptime_seconds": m.UptimeSeconds(),
		"counters":       counters,
		"gauges":         gauges,
		"health":         health,
	}
}

func (m *Metrics) counter(name string) *int64 {
	m.mu.RLock()
	c, exists := m.counters[name]
	m.mu.RUnlock()
	if exists {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, exists = m.counters[name]; !exists {
		c = new(int64)
		m.counters[name] = c
	}
	return c
}

func (m *Metrics) gauge(name string) *int64 {
	m.mu.RLock()
	g, exists := m.gauges[name]
	m.mu.RUnlock()
	if exists {
		return g
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, exists = m.gauges[name]; !exists {
		g = new(int64)
		m.gauges[name] = g
	}
	return g
}
