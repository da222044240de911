package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_http_requests_total",
			Help: "Total number of HTTP requests processed by the friend service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "friend_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_relationship_transitions_total",
			Help: "Relationship state machine transitions by operation and result.",
		},
		[]string{"op", "result"},
	)
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_notifications_total",
			Help: "Notification intents handed to delivery by type and result.",
		},
		[]string{"type", "result"},
	)
	feedTicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_changefeed_ticks_total",
			Help: "Change feed ticks received by table and operation.",
		},
		[]string{"table", "op"},
	)
	feedDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_changefeed_dropped_total",
			Help: "Change feed ticks dropped because a subscriber was full.",
		},
		[]string{"table"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "friend_ws_active_connections",
			Help: "Number of active change feed websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "friend_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		transitionsTotal,
		notificationsTotal,
		feedTicksTotal,
		feedDroppedTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func ObserveTransition(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	transitionsTotal.WithLabelValues(op, result).Inc()
}

func ObserveNotification(kind string, result string) {
	notificationsTotal.WithLabelValues(kind, result).Inc()
}

func IncFeedTick(table, op string) {
	feedTicksTotal.WithLabelValues(table, op).Inc()
}

func IncFeedDropped(table string) {
	feedDroppedTotal.WithLabelValues(table).Inc()
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
