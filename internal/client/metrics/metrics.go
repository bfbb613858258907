package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the client module.
type Metrics struct {
	ClientsRegistered    prometheus.Counter
	ClientsDeleted       prometheus.Counter
	RegistrationFailures *prometheus.CounterVec
	RegisterDuration     prometheus.Histogram
}

// New registers the client module metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ClientsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "clientreg_clients_registered_total",
			Help: "Total number of clients registered",
		}),
		ClientsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "clientreg_clients_deleted_total",
			Help: "Total number of clients deleted",
		}),
		RegistrationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clientreg_registration_failures_total",
			Help: "Failed registrations by error code",
		}, []string{"code"}),
		RegisterDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clientreg_register_duration_seconds",
			Help:    "Duration of Register operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) IncrementRegistered() {
	m.ClientsRegistered.Inc()
}

func (m *Metrics) IncrementDeleted() {
	m.ClientsDeleted.Inc()
}

func (m *Metrics) RecordFailure(code string) {
	m.RegistrationFailures.WithLabelValues(code).Inc()
}

// ObserveRegister records the duration of a Register call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
