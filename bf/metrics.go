package bf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus-compatible instrumentation for a Driver run,
// namespaced "asyncbf_". Attach with WithMetrics; a nil *Metrics (the
// Driver default) disables instrumentation entirely.
//
//  1. inflight_actors (gauge): actors that have not yet reached Exited.
//  2. current_round (gauge): the round number the Driver is executing.
//  3. rounds_to_termination (histogram): total rounds a run took, observed
//     once when every actor has exited; runs ended by cancellation or by
//     the WithMaxRounds cap are not observed.
//  4. relaxations_total (counter): Explore-triggered distance improvements.
//  5. acks_total (counter): Parent/NonParent acknowledgements sent, labeled
//     by kind.
//  6. terminate_broadcasts_total (counter): Terminate broadcasts down the
//     spanning tree, counted once per actor that broadcasts or forwards
//     Terminate (leaves with no children included), not per message sent.
type Metrics struct {
	inflightActors prometheus.Gauge
	currentRound   prometheus.Gauge
	roundsToTerm   prometheus.Histogram
	relaxations    prometheus.Counter
	acks           *prometheus.CounterVec
	terminates     prometheus.Counter
}

// NewMetrics registers every asyncbf_ metric with registry (typically
// prometheus.DefaultRegisterer) and returns the collector.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		inflightActors: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "asyncbf",
			Name:      "inflight_actors",
			Help:      "Number of process actors that have not yet reached Exited.",
		}),
		currentRound: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "asyncbf",
			Name:      "current_round",
			Help:      "The round number the driver is currently executing.",
		}),
		roundsToTerm: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "asyncbf",
			Name:      "rounds_to_termination",
			Help:      "Total rounds a simulation took to reach full termination.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		}),
		relaxations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "asyncbf",
			Name:      "relaxations_total",
			Help:      "Cumulative count of strict distance relaxations across all actors.",
		}),
		acks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asyncbf",
			Name:      "acks_total",
			Help:      "Cumulative count of Parent/NonParent acknowledgements sent.",
		}, []string{"kind"}),
		terminates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "asyncbf",
			Name:      "terminate_broadcasts_total",
			Help:      "Cumulative count of actors that broadcast or forwarded Terminate down the spanning tree.",
		}),
	}
}

func (m *Metrics) observeRound(n int) {
	if m == nil {
		return
	}
	m.currentRound.Set(float64(n))
}

func (m *Metrics) setInflight(n int) {
	if m == nil {
		return
	}
	m.inflightActors.Set(float64(n))
}

func (m *Metrics) observeTermination(rounds int) {
	if m == nil {
		return
	}
	m.roundsToTerm.Observe(float64(rounds))
}

func (m *Metrics) incRelaxation() {
	if m == nil {
		return
	}
	m.relaxations.Inc()
}

func (m *Metrics) incAck(kind string) {
	if m == nil {
		return
	}
	m.acks.WithLabelValues(kind).Inc()
}

func (m *Metrics) incTerminate() {
	if m == nil {
		return
	}
	m.terminates.Inc()
}
