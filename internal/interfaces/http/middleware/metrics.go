package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediaassoc/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// health checks are excluded from request metrics
var metricsSkipPaths = map[string]bool{"/health": true, "/ready": true}

// Body sizes in bytes. Uploads dominate the upper buckets.
var bodySizeBuckets = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 5242880}

type httpMetrics struct {
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
	latency  metric.Float64Histogram
	reqSize  metric.Float64Histogram
	respSize metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	in := telemetry.NewInstruments(meter)
	m := &httpMetrics{
		requests: in.Counter("http_server_request_total", "Requests by route, controller and status", "{request}"),
		inFlight: in.UpDownCounter("http_server_active_requests", "Requests being served", "{request}"),
		latency:  in.Histogram("http_server_request_duration_seconds", "Request latency", "s", telemetry.HTTPDurationBuckets...),
		reqSize:  in.Histogram("http_server_request_size_bytes", "Request body size", "By", bodySizeBuckets...),
		respSize: in.Histogram("http_server_response_size_bytes", "Response body size", "By", bodySizeBuckets...),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetricsWithMeter counts and times every routed request on meter.
// Requests are labelled with the route template and the controller that
// serves it, never the raw path. It is a pass-through when disabled or
// when the instruments cannot be created.
func HTTPMetricsWithMeter(meter metric.Meter, enabled bool) gin.HandlerFunc {
	if !enabled {
		return passThrough
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		if metricsSkipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		start := time.Now()

		m.inFlight.Add(ctx, 1)
		c.Next()
		m.inFlight.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		base := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}

		m.requests.Add(ctx, 1, telemetry.Attrs(append(base,
			telemetry.AttrController.String(controllerFromRoute(route)),
			telemetry.AttrHTTPStatusCode.Int(status),
			telemetry.AttrHTTPStatusClass.String(StatusClass(status)),
		)...))
		m.latency.Record(ctx, time.Since(start).Seconds(), telemetry.Attrs(base...))
		if n := c.Request.ContentLength; n > 0 {
			m.reqSize.Record(ctx, float64(n), telemetry.Attrs(base...))
		}
		if n := c.Writer.Size(); n > 0 {
			m.respSize.Record(ctx, float64(n), telemetry.Attrs(base...))
		}
	}
}

// StatusClass buckets an HTTP status as "2xx" through "5xx"
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}

func passThrough(c *gin.Context) {
	c.Next()
}
