package metrics

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics records request metrics as Sentry breadcrumbs and tags
type SentryMetrics struct{}

// NewSentryMetrics creates a Sentry-backed metrics recorder
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

// RecordAPIRequest records an API request as a breadcrumb on the current scope
func (s *SentryMetrics) RecordAPIRequest(endpoint string, statusCode int, duration time.Duration) {
	level := sentry.LevelInfo
	if statusCode >= 500 {
		level = sentry.LevelError
	}

	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category: "api.request",
		Message:  fmt.Sprintf("%s -> %d", endpoint, statusCode),
		Level:    level,
		Data: map[string]interface{}{
			"endpoint":    endpoint,
			"status_code": statusCode,
			"duration_ms": duration.Milliseconds(),
		},
	})
}

// RecordOracleFailure captures an exhausted oracle call
func (s *SentryMetrics) RecordOracleFailure(model string, attempts int, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("model", model)
		scope.SetExtra("attempts", attempts)
		sentry.CaptureException(err)
	})
}
