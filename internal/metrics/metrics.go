package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	contactSubmissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alora_contact_submissions_total",
		Help: "Total number of contact form submissions received",
	})
	contactRateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alora_contact_rate_limited_total",
		Help: "Total number of contact submissions rejected by the rate limiter",
	})
	contactHoneypotTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alora_contact_honeypot_total",
		Help: "Total number of contact submissions caught by the honeypot field",
	})
	contactDeliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alora_contact_delivered_total",
		Help: "Total number of contact notification emails delivered",
	})
	gateRedirectsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alora_gate_redirects_total",
		Help: "Total number of requests redirected to the password challenge page",
	})
	gateVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alora_gate_verifications_total",
		Help: "Total number of password verification attempts by result",
	}, []string{"result"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		contactSubmissionsTotal,
		contactRateLimitedTotal,
		contactHoneypotTotal,
		contactDeliveredTotal,
		gateRedirectsTotal,
		gateVerificationsTotal,
	)
}

// IncContactSubmission increments the received submissions counter.
func IncContactSubmission() { contactSubmissionsTotal.Inc() }

// IncContactRateLimited increments the rate-limited submissions counter.
func IncContactRateLimited() { contactRateLimitedTotal.Inc() }

// IncContactHoneypot increments the honeypot detections counter.
func IncContactHoneypot() { contactHoneypotTotal.Inc() }

// IncContactDelivered increments the delivered notifications counter.
func IncContactDelivered() { contactDeliveredTotal.Inc() }

// IncGateRedirect increments the challenge redirects counter.
func IncGateRedirect() { gateRedirectsTotal.Inc() }

// IncGateVerification increments the verification attempts counter.
func IncGateVerification(result string) {
	gateVerificationsTotal.WithLabelValues(result).Inc()
}
