package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(postgresPoolConnections, postgresPoolConnected) }

var (
	postgresPoolConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "postgres_pool_connections",
			Help: "Connections held by the message store pool, by state.",
		},
		[]string{"state"}, // total | idle | in_use
	)
	// 0 until the lazily created pool has connected once.
	postgresPoolConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "postgres_pool_connected",
		Help: "1 when the message store pool exists, 0 otherwise.",
	})
)

func SetDBPoolStats(total, idle, inUse int32) {
	postgresPoolConnected.Set(1)
	postgresPoolConnections.WithLabelValues("total").Set(float64(total))
	postgresPoolConnections.WithLabelValues("idle").Set(float64(idle))
	postgresPoolConnections.WithLabelValues("in_use").Set(float64(inUse))
}

// SetDBPoolDisconnected marks the pool as absent and zeroes its gauges.
func SetDBPoolDisconnected() {
	postgresPoolConnected.Set(0)
	postgresPoolConnections.Reset()
}
