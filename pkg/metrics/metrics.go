package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics prometheus-коллекторы сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
	DBConnsOpen     prometheus.Gauge
	DBConnsInUse    prometheus.Gauge
	DBConnsIdle     prometheus.Gauge

	// Сага оплаты
	HoldsCreated          prometheus.Counter
	HoldsExpired          prometheus.Counter
	SettlementsCommitted  prometheus.Counter
	SettlementsRolledBack prometheus.Counter
}

// New регистрирует и возвращает коллекторы метрик
func New(service string) *Metrics {
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		DBConnsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: labels,
		}),

		DBConnsInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections currently in use",
			ConstLabels: labels,
		}),

		DBConnsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: labels,
		}),

		HoldsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "payment_holds_created_total",
			Help:        "Total number of temporary slot holds created",
			ConstLabels: labels,
		}),

		HoldsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "payment_holds_expired_total",
			Help:        "Total number of temporary slot holds reclaimed by expiry",
			ConstLabels: labels,
		}),

		SettlementsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "payment_settlements_committed_total",
			Help:        "Total number of payment settlements committed into bookings",
			ConstLabels: labels,
		}),

		SettlementsRolledBack: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "payment_settlements_rolled_back_total",
			Help:        "Total number of payment settlements voided or rolled back",
			ConstLabels: labels,
		}),
	}
}
