// Package metrics defines the Prometheus counters for the tape-book's
// silent-drop and cold-path events: spill eviction, promote, recenter,
// and arena exhaustion.
//
// These are not registered at init() against the default registry — a
// library linked into many independent test binaries and a bench
// harness needs each caller able to use its own registry, so Recorder
// wraps one explicitly and New registers into it.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder owns the tape-book counters registered against one registry.
type Recorder struct {
	spillEvictions *prometheus.CounterVec
	promotes       *prometheus.CounterVec
	recenters      *prometheus.CounterVec
	arenaAllocFail prometheus.Counter
}

// New constructs a Recorder and registers its counters against reg. reg
// may be prometheus.NewRegistry() for an isolated registry (tests, the
// bench harness) or prometheus.DefaultRegisterer for a process-wide one.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		spillEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapebook_spill_evictions_total",
			Help: "Spill entries silently dropped to admit a better price at max capacity.",
		}, []string{"side"}),
		promotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapebook_promotes_total",
			Help: "Out-of-window updates that were strictly better than the current best and triggered a recenter.",
		}, []string{"side"}),
		recenters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapebook_recenters_total",
			Help: "Tape anchor shifts, whether promote-triggered or forced.",
		}, []string{"side"}),
		arenaAllocFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tapebook_arena_alloc_failures_total",
			Help: "Arena allocation requests that could not be satisfied.",
		}),
	}
	reg.MustRegister(r.spillEvictions, r.promotes, r.recenters, r.arenaAllocFail)
	return r
}

func sideLabel(isBid bool) string {
	if isBid {
		return "bid"
	}
	return "ask"
}

// SpillEvictions returns the counter for one side's eviction events.
func (r *Recorder) SpillEvictions(isBid bool) prometheus.Counter {
	return r.spillEvictions.WithLabelValues(sideLabel(isBid))
}

// Promotes returns the counter for one side's promote events.
func (r *Recorder) Promotes(isBid bool) prometheus.Counter {
	return r.promotes.WithLabelValues(sideLabel(isBid))
}

// Recenters returns the counter for one side's recenter events.
func (r *Recorder) Recenters(isBid bool) prometheus.Counter {
	return r.recenters.WithLabelValues(sideLabel(isBid))
}

// ArenaAllocFailures returns the counter for arena exhaustion events.
func (r *Recorder) ArenaAllocFailures() prometheus.Counter {
	return r.arenaAllocFail
}
