package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduos_http_requests_total",
		Help: "HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eduos_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	attendanceMarksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduos_attendance_marks_total",
		Help: "Daily attendance marks created, by role and status.",
	}, []string{"role", "status"})
)

func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			requestsTotal.WithLabelValues(
				ctx.Request().Method, route, strconv.Itoa(ctx.Response().Status),
			).Inc()
			requestDuration.WithLabelValues(ctx.Request().Method, route).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func metricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
