// Package metrics prometheus-метрики сервиса
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса бронирования
type Metrics struct {
	serviceName string

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Доменные метрики
	ReservationOutcomes *prometheus.CounterVec
	PaymentEventResults *prometheus.CounterVec

	// Connection pool
	DBOpenConnections  prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
}

// New создает и регистрирует метрики в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ReservationOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_outcomes_total",
			Help:        "Reservation attempts by outcome (committed, slot_taken, piece_claimed, serialization_retry)",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		PaymentEventResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_events_total",
			Help:        "Processed payment provider events by result (applied, duplicate, stale, unknown_type)",
			ConstLabels: constLabels,
		}, []string{"result"}),
		DBOpenConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest записывает метрики завершенного HTTP-запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncReservationOutcome инкрементирует счетчик исходов резервирования
func (m *Metrics) IncReservationOutcome(outcome string) {
	m.ReservationOutcomes.WithLabelValues(outcome).Inc()
}

// IncPaymentEventResult инкрементирует счетчик результатов платежных событий
func (m *Metrics) IncPaymentEventResult(result string) {
	m.PaymentEventResults.WithLabelValues(result).Inc()
}

// StartDBPoolCollector запускает периодический сбор метрик connection pool
// Останавливается закрытием stopCh
func (m *Metrics) StartDBPoolCollector(db *sql.DB, interval time.Duration, stopCh <-chan struct{}) {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				m.DBOpenConnections.Set(float64(stats.OpenConnections))
				m.DBIdleConnections.Set(float64(stats.Idle))
				m.DBInUseConnections.Set(float64(stats.InUse))
			case <-stopCh:
				return
			}
		}
	}()
}
