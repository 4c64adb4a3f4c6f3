package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry is the central metrics facade
// Effects cache pointers at mount; ticks write directly to the atomics
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}

// DeletePrefix unregisters every metric under prefix
func (r *Registry) DeletePrefix(prefix string) int {
	return r.Ints.DeletePrefix(prefix) + r.Floats.DeletePrefix(prefix)
}

// Summary renders metrics under prefix as "key=value" pairs in key order, with the prefix trimmed
func (r *Registry) Summary(prefix string) string {
	var b strings.Builder
	sep := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}
	r.Ints.Range(func(key string, v *atomic.Int64) {
		if strings.HasPrefix(key, prefix) {
			sep()
			fmt.Fprintf(&b, "%s=%d", strings.TrimPrefix(key, prefix), v.Load())
		}
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		if strings.HasPrefix(key, prefix) {
			sep()
			fmt.Fprintf(&b, "%s=%.1f", strings.TrimPrefix(key, prefix), v.Get())
		}
	})
	return b.String()
}
