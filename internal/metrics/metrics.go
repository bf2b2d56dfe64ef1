// Package metrics defines the Prometheus collectors talond exposes over
// /metrics, following the counter/histogram naming style
// vince's internal metrics packages use for their storage engines.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry groups every collector talond registers, so a single value can
// be threaded through shard, timeline, and server construction instead of
// relying on the global default registerer.
type Registry struct {
	PutTotal     *prometheus.CounterVec
	GetTotal     prometheus.Counter
	DiffTotal    prometheus.Counter
	SummaryTotal prometheus.Counter
	SeriesTotal  prometheus.Counter

	RepropagationLength prometheus.Histogram
	MappedFileGrowths   *prometheus.CounterVec
}

// NewRegistry creates and registers talond's collectors against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		PutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talon",
			Name:      "put_total",
			Help:      "Total number of Put calls, labeled by acceptance.",
		}, []string{"result"}),
		GetTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "talon",
			Name:      "get_total",
			Help:      "Total number of Get calls across all timelines.",
		}),
		DiffTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "talon",
			Name:      "diff_total",
			Help:      "Total number of Diff calls across all timelines.",
		}),
		SummaryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "talon",
			Name:      "summary_total",
			Help:      "Total number of Summary calls across all timelines.",
		}),
		SeriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "talon",
			Name:      "series_total",
			Help:      "Total number of Series calls across all timelines.",
		}),
		RepropagationLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "talon",
			Name:      "repropagation_length",
			Help:      "Number of buckets repropagated by a single in-range Put.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 7), // 1..64
		}),
		MappedFileGrowths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talon",
			Name:      "mapped_file_growths_total",
			Help:      "Total number of doubling-growth remaps of a mapped array.",
		}, []string{"file"}),
	}

	reg.MustRegister(m.PutTotal, m.GetTotal, m.DiffTotal, m.SummaryTotal, m.SeriesTotal, m.RepropagationLength, m.MappedFileGrowths)

	return m
}
