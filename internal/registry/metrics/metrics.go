package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the registry's Prometheus metrics.
type Metrics struct {
	DonationsRegistered prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	PointsMinted        prometheus.Counter
	BloodUnitsUsed      prometheus.Counter
}

// New creates and registers all registry metrics.
func New() *Metrics {
	return &Metrics{
		DonationsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hemotrace_donations_registered_total",
			Help: "Total number of donations registered",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hemotrace_status_transitions_total",
			Help: "Total number of blood unit status transitions",
		}, []string{"from", "to"}),
		PointsMinted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hemotrace_points_minted_total",
			Help: "Total credit points awarded to donors",
		}),
		BloodUnitsUsed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hemotrace_blood_units_used_total",
			Help: "Total blood units recorded as clinically used",
		}),
	}
}

// IncrementDonationsRegistered increments the donation counter by 1.
func (m *Metrics) IncrementDonationsRegistered() {
	m.DonationsRegistered.Inc()
}

// ObserveStatusTransition counts one from→to move.
func (m *Metrics) ObserveStatusTransition(from, to string) {
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// AddPointsMinted accrues awarded points onto the counter.
func (m *Metrics) AddPointsMinted(points int64) {
	if points > 0 {
		m.PointsMinted.Add(float64(points))
	}
}

// IncrementBloodUnitsUsed increments the usage counter by 1.
func (m *Metrics) IncrementBloodUnitsUsed() {
	m.BloodUnitsUsed.Inc()
}
