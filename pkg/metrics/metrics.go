package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solarforyou_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solarforyou_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	sequenceReservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solarforyou_sequence_reservations_total",
		Help: "Numbers reserved by the sequence generator",
	}, []string{"kind"})

	sequenceAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solarforyou_sequence_legacy_anomalies_total",
		Help: "Legacy numbers that could not be parsed while seeding a counter",
	})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solarforyou_notifications_total",
		Help: "Requisition notification emails by result",
	}, []string{"kind", "result"})
)

func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveSequenceReservation(kind string) {
	sequenceReservations.WithLabelValues(kind).Inc()
}

func ObserveSequenceAnomalies(n int) {
	sequenceAnomalies.Add(float64(n))
}

func ObserveNotification(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	notificationsSent.WithLabelValues(kind, result).Inc()
}

// Middleware пишет метрики по шаблону маршрута, а не по сырому URI.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			ObserveHTTPRequest(c.Request().Method, path, strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
