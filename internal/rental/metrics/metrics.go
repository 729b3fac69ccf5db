// Package metrics holds the Prometheus metrics for the rental lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts lifecycle outcomes. A nil *Metrics is valid and records
// nothing, so tests can skip wiring it.
type Metrics struct {
	PropertiesRegistered  prometheus.Counter
	PropertiesRemoved     prometheus.Counter
	ApplicationsSubmitted prometheus.Counter
	ApplicantsSelected    prometheus.Counter
	RentsStarted          prometheus.Counter
	InsufficientPayments  prometheus.Counter
	GuardRejections       *prometheus.CounterVec
}

// New creates and registers all rental metrics on the default registerer.
func New() *Metrics {
	return &Metrics{
		PropertiesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasebook_properties_registered_total",
			Help: "Total number of properties registered",
		}),
		PropertiesRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasebook_properties_removed_total",
			Help: "Total number of properties removed from the registry",
		}),
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasebook_applications_submitted_total",
			Help: "Total number of rental applications submitted",
		}),
		ApplicantsSelected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasebook_applicants_selected_total",
			Help: "Total number of applicant selections",
		}),
		RentsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasebook_rents_started_total",
			Help: "Total number of leases activated by a first payment",
		}),
		InsufficientPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasebook_insufficient_payments_total",
			Help: "Total number of rent-start attempts rejected for insufficient payment",
		}),
		GuardRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leasebook_guard_rejections_total",
			Help: "Lifecycle operations rejected by a guard, by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncPropertiesRegistered() {
	if m != nil {
		m.PropertiesRegistered.Inc()
	}
}

func (m *Metrics) IncPropertiesRemoved() {
	if m != nil {
		m.PropertiesRemoved.Inc()
	}
}

func (m *Metrics) IncApplicationsSubmitted() {
	if m != nil {
		m.ApplicationsSubmitted.Inc()
	}
}

func (m *Metrics) IncApplicantsSelected() {
	if m != nil {
		m.ApplicantsSelected.Inc()
	}
}

func (m *Metrics) IncRentsStarted() {
	if m != nil {
		m.RentsStarted.Inc()
	}
}

func (m *Metrics) IncInsufficientPayments() {
	if m != nil {
		m.InsufficientPayments.Inc()
	}
}

func (m *Metrics) IncGuardRejection(code string) {
	if m != nil {
		m.GuardRejections.WithLabelValues(code).Inc()
	}
}
