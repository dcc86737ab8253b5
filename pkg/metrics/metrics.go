package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса.
// Все методы безопасны для nil-получателя, поэтому метрики можно не передавать.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCountTotal *prometheus.GaugeVec

	ValidationsTotal       *prometheus.CounterVec
	StatusTransitionsTotal *prometheus.CounterVec
	NotificationsTotal     *prometheus.CounterVec
	AlternativesCacheTotal *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCountTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count_total",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),

		ValidationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_validations_total",
			Help:        "Reservation validations by resulting availability status",
			ConstLabels: constLabels,
		}, []string{"availability", "valid"}),
		StatusTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_status_transitions_total",
			Help:        "Persisted reservation status transitions",
			ConstLabels: constLabels,
		}, []string{"to"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notification deliveries by kind and result",
			ConstLabels: constLabels,
		}, []string{"kind", "result"}),
		AlternativesCacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "alternative_dates_cache_total",
			Help:        "Alternative dates cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.DBQueryDuration,
			m.DBQueryErrors,
			m.DBOpenConns,
			m.DBInUseConns,
			m.DBIdleConns,
			m.DBWaitCountTotal,
			m.ValidationsTotal,
			m.StatusTransitionsTotal,
			m.NotificationsTotal,
			m.AlternativesCacheTotal,
		)
	}

	return m
}

// ObserveHTTP фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTP(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// ObserveValidation фиксирует результат валидации заявки
func (m *Metrics) ObserveValidation(availability string, valid bool) {
	if m == nil {
		return
	}
	validLabel := "false"
	if valid {
		validLabel = "true"
	}
	m.ValidationsTotal.WithLabelValues(availability, validLabel).Inc()
}

// ObserveTransition фиксирует сохраненный переход статуса
func (m *Metrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.StatusTransitionsTotal.WithLabelValues(to).Inc()
}

// ObserveNotification фиксирует результат отправки уведомления
func (m *Metrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.NotificationsTotal.WithLabelValues(kind, result).Inc()
}

// ObserveCache фиксирует попадание или промах кэша альтернативных дат
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.AlternativesCacheTotal.WithLabelValues(result).Inc()
}
