package rt

import (
	"sync"
	"sync/atomic"
	"time"
)

// ---------------------------------------------------------------------------
// Monitor: periodic live-instance accounting
// ---------------------------------------------------------------------------

// ClassStats is a point-in-time view of one class's instance counters.
type ClassStats struct {
	ID           RuntimeID
	Name         string
	Capabilities []string
	Created      uint64
	Destroyed    uint64
	Live         int64
}

// Stats returns counters for every registered class, in id order.
func (ct *ClassTable) Stats() []ClassStats {
	classes := ct.Classes()
	stats := make([]ClassStats, len(classes))
	for i, c := range classes {
		created := c.Created()
		destroyed := c.Destroyed()
		stats[i] = ClassStats{
			ID:           c.ID(),
			Name:         c.Name,
			Capabilities: c.Capabilities(),
			Created:      created,
			Destroyed:    destroyed,
			Live:         int64(created) - int64(destroyed),
		}
	}
	return stats
}

// MonitorStats holds the result of a single report.
type MonitorStats struct {
	Classes             []ClassStats
	Live                int64
	PendingAutoreleases int64
	ActivePools         int64
	Grown               []string // classes whose live count rose since the previous report
	ReportDuration      time.Duration
	Timestamp           time.Time
}

// Monitor periodically reports live instance counts per class so that
// leaks (instances never released, pools never popped) show up in the logs
// of long-running programs.
type Monitor struct {
	table    *ClassTable
	interval time.Duration
	enabled  atomic.Bool
	stop     chan struct{}
	stopped  chan struct{}
	mu       sync.Mutex // protects start/stop lifecycle

	reportMu sync.Mutex
	previous map[RuntimeID]int64

	reportCount atomic.Uint64
	lastStats   atomic.Value // *MonitorStats
}

// DefaultMonitorInterval is the default report interval.
const DefaultMonitorInterval = 30 * time.Second

// NewMonitor creates a Monitor over table. A nil table means the default
// table; a non-positive interval means DefaultMonitorInterval.
func NewMonitor(table *ClassTable, interval time.Duration) *Monitor {
	if table == nil {
		table = defaultTable
	}
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	m := &Monitor{
		table:    table,
		interval: interval,
		previous: make(map[RuntimeID]int64),
	}
	m.enabled.Store(true)
	return m
}

// Start begins the periodic report goroutine. Calling it again while
// running does nothing.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stop != nil {
		return
	}

	m.stop = make(chan struct{})
	m.stopped = make(chan struct{})

	stopCh := m.stop
	stoppedCh := m.stopped
	go m.loop(stopCh, stoppedCh)
}

// Stop halts the report goroutine and waits for it to finish. It is safe
// to call on a monitor that was never started.
func (m *Monitor) Stop() {
	m.mu.Lock()
	stopCh := m.stop
	stoppedCh := m.stopped
	m.stop = nil
	m.stopped = nil
	m.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-stoppedCh
	}
}

// SetEnabled enables or disables reporting without stopping the goroutine.
func (m *Monitor) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether reporting is enabled.
func (m *Monitor) IsEnabled() bool {
	return m.enabled.Load()
}

// Interval returns the report interval.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// ReportCount returns the number of reports taken.
func (m *Monitor) ReportCount() uint64 {
	return m.reportCount.Load()
}

// LastStats returns the most recent report, or nil.
func (m *Monitor) LastStats() *MonitorStats {
	v := m.lastStats.Load()
	if v == nil {
		return nil
	}
	return v.(*MonitorStats)
}

// ReportNow takes a report immediately.
func (m *Monitor) ReportNow() *MonitorStats {
	return m.report()
}

func (m *Monitor) loop(stopCh <-chan struct{}, stoppedCh chan struct{}) {
	defer close(stoppedCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if m.enabled.Load() {
				m.report()
			}
		}
	}
}

func (m *Monitor) report() *MonitorStats {
	start := time.Now()
	stats := &MonitorStats{
		Classes:             m.table.Stats(),
		PendingAutoreleases: PendingAutoreleases(),
		ActivePools:         ActivePools(),
		Timestamp:           start,
	}

	m.reportMu.Lock()
	for _, cs := range stats.Classes {
		stats.Live += cs.Live
		if prev, ok := m.previous[cs.ID]; ok && cs.Live > prev {
			stats.Grown = append(stats.Grown, cs.Name)
			log.Infof("class %s: live instances grew from %d to %d", cs.Name, prev, cs.Live)
		}
		m.previous[cs.ID] = cs.Live
	}
	m.reportMu.Unlock()

	stats.ReportDuration = time.Since(start)
	m.reportCount.Add(1)
	m.lastStats.Store(stats)

	log.Debugf("monitor: %d live instances, %d pending autoreleases in %d pools",
		stats.Live, stats.PendingAutoreleases, stats.ActivePools)
	return stats
}
