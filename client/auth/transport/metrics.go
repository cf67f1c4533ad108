package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the refresh coordination. A nil *Metrics records nothing.
type Metrics struct {
	refreshes   *prometheus.CounterVec
	replays     prometheus.Counter
	waiters     prometheus.Counter
	passThrough prometheus.Counter
	queue       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	const namespace, subsystem = "storefront", "auth_transport"
	ret := &Metrics{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "refreshes_total",
			Help: "Session refresh calls by outcome.",
		}, []string{"outcome"}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "replays_total",
			Help: "Requests replayed after a session refresh.",
		}),
		waiters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "waiters_total",
			Help: "Requests queued behind a session refresh.",
		}),
		passThrough: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "pass_through_total",
			Help: "Responses delivered without consulting the refresh mechanism.",
		}),
		queue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "queue_depth",
			Help: "Requests currently waiting for a session refresh.",
		}),
	}
	for _, c := range []prometheus.Collector{ret.refreshes, ret.replays, ret.waiters, ret.passThrough, ret.queue} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (m *Metrics) enqueued() {
	if m == nil {
		return
	}
	m.waiters.Inc()
	m.queue.Inc()
}

func (m *Metrics) settled(success bool, waiters int) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.refreshes.WithLabelValues(outcome).Inc()
	m.queue.Sub(float64(waiters))
}

func (m *Metrics) replayed() {
	if m == nil {
		return
	}
	m.replays.Inc()
}

func (m *Metrics) passedThrough() {
	if m == nil {
		return
	}
	m.passThrough.Inc()
}
