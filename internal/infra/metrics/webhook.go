package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookUpdatesTotal,
		messagesPersistedTotal,
		adminNotificationsTotal,
	)
}

var (
	webhookUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_webhook_updates_total",
			Help: "Inbound webhook updates by handling result (ok/ignored/error).",
		},
		[]string{"result"},
	)

	messagesPersistedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_persisted_total",
			Help: "Persistence outcome per inbound message (yes/no/error).",
		},
		[]string{"outcome"},
	)

	adminNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_notifications_total",
			Help: "Admin notification outcome per inbound message (yes/no/error).",
		},
		[]string{"outcome"},
	)
)

func IncWebhookUpdate(result string) {
	webhookUpdatesTotal.WithLabelValues(norm(result)).Inc()
}

func ObserveIngestion(persisted, notified string) {
	messagesPersistedTotal.WithLabelValues(norm(persisted)).Inc()
	adminNotificationsTotal.WithLabelValues(norm(notified)).Inc()
}
