package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(authLoginsTotal, authRateLimitTriggeredTotal)
}

var (
	authLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Admin login attempts by result (success/failure).",
		},
		[]string{"result"},
	)

	authRateLimitTriggeredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_rate_limit_triggered_total",
			Help: "Total number of login attempts rejected by the rate limiter.",
		},
	)
)

func IncLogin(result string) {
	authLoginsTotal.WithLabelValues(norm(result)).Inc()
}

func IncRateLimitTriggered() {
	authRateLimitTriggeredTotal.Inc()
}
