package middleware

import (
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
)

// SolvedSourceKey is the context key for the solved-set source of an analysis response
const SolvedSourceKey = "solvedSource"

const analysisRoutePrefix = "/v1/user/"

// SetSolvedSource records which solved set an analysis response was built from
func SetSolvedSource(c *gin.Context, source domain.SolvedSource) {
	if source != "" {
		c.Set(SolvedSourceKey, source)
	}
}

// MetricsMiddleware records request duration and count per route. Requests
// on the per-user analysis routes are also labeled with the operation, the
// coach and seed options, the credential source and the solved-set source.
func MetricsMiddleware(metrics *infrastructure.TelemetryMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		}
		if strings.HasPrefix(route, analysisRoutePrefix) {
			attrs = append(attrs, analysisAttributes(c, route)...)
		}

		ctx := c.Request.Context()
		opt := metric.WithAttributes(attrs...)
		metrics.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), opt)
		metrics.HTTPRequestCount.Add(ctx, 1, opt)
	}
}

func analysisAttributes(c *gin.Context, route string) []attribute.KeyValue {
	coach, _ := strconv.ParseBool(c.Query("coach"))
	_, seeded := c.GetQuery("seed")

	credential := string(GetAuthContext(c).Source)
	if credential == "" {
		credential = "none"
	}

	attrs := []attribute.KeyValue{
		attribute.String("analysis.operation", path.Base(route)),
		attribute.Bool("analysis.coach", coach),
		attribute.Bool("analysis.seeded", seeded),
		attribute.String("leetcode.credential_source", credential),
	}
	if v, ok := c.Get(SolvedSourceKey); ok {
		if source, ok := v.(domain.SolvedSource); ok {
			attrs = append(attrs, attribute.String("analysis.solved_source", string(source)))
		}
	}
	return attrs
}
