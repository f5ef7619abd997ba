// Package metrics keeps the process-wide metric set and exports it in
// the Prometheus text format.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/tevino/abool"
)

// Prefix is prepended to all metric names.
const Prefix = "tojos_"

var (
	set = vm.NewSet()

	runtimeMetrics = abool.NewBool(false)

	namesLock sync.Mutex
	names     = make(map[string]struct{})
)

// EnableRuntimeMetrics adds the Go runtime and process metrics to the
// export.
func EnableRuntimeMetrics(enabled bool) {
	runtimeMetrics.SetTo(enabled)
}

// NewCounter returns the counter with the given ID and labels, creating it
// if necessary. IDs are slash separated, eg. "store/reads/total".
func NewCounter(id string, labels map[string]string) *vm.Counter {
	name := buildName(id, labels)
	remember(name)
	return set.GetOrCreateCounter(name)
}

// NewHistogram returns the histogram with the given ID and labels,
// creating it if necessary.
func NewHistogram(id string, labels map[string]string) *vm.Histogram {
	name := buildName(id, labels)
	remember(name)
	return set.GetOrCreateHistogram(name)
}

// Names returns the full names of all metrics created so far, sorted.
func Names() []string {
	namesLock.Lock()
	defer namesLock.Unlock()

	list := make([]string, 0, len(names))
	for name := range names {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// WritePrometheus writes all metrics to w.
func WritePrometheus(w io.Writer) {
	set.WritePrometheus(w)
	if runtimeMetrics.IsSet() {
		vm.WriteProcessMetrics(w)
	}
}

func remember(name string) {
	namesLock.Lock()
	defer namesLock.Unlock()
	names[name] = struct{}{}
}

var labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func buildName(id string, labels map[string]string) string {
	name := Prefix + strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(id)
	if len(labels) == 0 {
		return name
	}

	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `%s="%s"`, key, labelValueEscaper.Replace(labels[key]))
	}
	b.WriteByte('}')
	return b.String()
}
