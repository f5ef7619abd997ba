// Package metered counts the calls, failures and latency of a store.
package metered

import (
	"time"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/yegor256/tojos/database/record"
	"github.com/yegor256/tojos/database/storage"
	"github.com/yegor256/tojos/metrics"
)

// Metered passes every call to its origin and records it.
type Metered struct {
	origin storage.Interface
	name   string

	reads       *vm.Counter
	readErrors  *vm.Counter
	readTime    *vm.Histogram
	writes      *vm.Counter
	writeErrors *vm.Counter
	writeTime   *vm.Histogram
	rowsWritten *vm.Counter
}

// New wraps origin. The name labels the metrics; if empty, the name of the
// origin is used. Stores with the same name share their metrics.
func New(origin storage.Interface, name string) *Metered {
	if name == "" {
		name = storage.NameOf(origin)
	}
	labels := map[string]string{"store": name}
	return &Metered{
		origin:      origin,
		name:        name,
		reads:       metrics.NewCounter("store/reads/total", labels),
		readErrors:  metrics.NewCounter("store/reads/errors/total", labels),
		readTime:    metrics.NewHistogram("store/reads/duration/seconds", labels),
		writes:      metrics.NewCounter("store/writes/total", labels),
		writeErrors: metrics.NewCounter("store/writes/errors/total", labels),
		writeTime:   metrics.NewHistogram("store/writes/duration/seconds", labels),
		rowsWritten: metrics.NewCounter("store/rows/written/total", labels),
	}
}

// Name returns the metric label of the store.
func (m *Metered) Name() string {
	return m.name
}

// Read reads from the origin.
func (m *Metered) Read() (record.RowSet, error) {
	start := time.Now()
	rows, err := m.origin.Read()
	m.readTime.UpdateDuration(start)
	m.reads.Inc()
	if err != nil {
		m.readErrors.Inc()
	}
	return rows, err
}

// Write writes to the origin.
func (m *Metered) Write(rows record.RowSet) error {
	start := time.Now()
	err := m.origin.Write(rows)
	m.writeTime.UpdateDuration(start)
	m.writes.Inc()
	if err != nil {
		m.writeErrors.Inc()
	} else {
		m.rowsWritten.Add(len(rows))
	}
	return err
}

// Close closes the origin.
func (m *Metered) Close() error {
	return m.origin.Close()
}
