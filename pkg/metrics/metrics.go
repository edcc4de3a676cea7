// Package metrics expone los contadores Prometheus del ciclo de vida de ventas y notificaciones.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SaleTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ventas_transitions_total",
			Help: "Transiciones de estado aplicadas a ventas",
		},
		[]string{"from", "to"},
	)

	SaleTransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ventas_transitions_rejected_total",
			Help: "Transiciones rechazadas por rol o por estado",
		},
		[]string{"operation", "reason"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ventas_notifications_created_total",
			Help: "Notificaciones internas creadas por el dispatcher",
		},
		[]string{"event"},
	)

	NotificationChannelFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ventas_notification_channel_failures_total",
			Help: "Fallos de canales de notificación (inbox, cache, email)",
		},
		[]string{"channel"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ventas_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
