package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront holds the collectors of the storefront service. A nil
// *Storefront is valid and records nothing.
type Storefront struct {
	catalogFetches     *prometheus.CounterVec
	submissions        *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	activeSessions     prometheus.Gauge
	signIns            *prometheus.CounterVec
}

// New registers the collectors on registerer, or on the default registry
// when registerer is nil.
func New(registerer prometheus.Registerer) *Storefront {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Storefront{
		catalogFetches: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_catalog_fetches_total",
			Help: "Catalog fetches by location and outcome",
		}, []string{"location", "outcome"}),
		submissions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_order_submissions_total",
			Help: "Order submissions by outcome",
		}, []string{"outcome"}),
		submissionDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_order_submission_duration_seconds",
			Help:    "Time spent waiting for the backend to accept an order",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		activeSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Browser sessions currently held in memory",
		}),
		signIns: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_sign_ins_total",
			Help: "Sign-in attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Storefront) CatalogFetch(location, outcome string) {
	if m == nil {
		return
	}
	m.catalogFetches.WithLabelValues(location, outcome).Inc()
}

// Submission counts an outcome. Only attempts that reached the backend
// carry a duration.
func (m *Storefront) Submission(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		m.submissionDuration.Observe(elapsed.Seconds())
	}
}

func (m *Storefront) SignIn(outcome string) {
	if m == nil {
		return
	}
	m.signIns.WithLabelValues(outcome).Inc()
}

func (m *Storefront) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Storefront) SessionsClosed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.activeSessions.Sub(float64(n))
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}
