package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/foldcraft/foldcraft-api/internal/api"
	"github.com/foldcraft/foldcraft-api/internal/config"
	"github.com/foldcraft/foldcraft-api/internal/llm"
	"github.com/foldcraft/foldcraft-api/internal/metrics"
	"github.com/foldcraft/foldcraft-api/internal/observability"
	"github.com/foldcraft/foldcraft-api/internal/structure"
	"github.com/foldcraft/foldcraft-api/internal/studio"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "foldcraft-api@" + releaseVersion,          // Use embedded release version
			EnableTracing:    true,                                       // Enable tracing for spans
			TracesSampleRate: 1.0,                                        // 100% sampling for now, adjust based on volume
			Debug:            cfg.Environment != environmentProduction,   // Enable debug in non-prod
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	ctx := context.Background()

	// Initialize Langfuse tracing
	observability.InitializeLangfuse(ctx, cfg)

	// Initialize CloudWatch metrics (no-op outside production)
	cloudwatchMetrics, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics unavailable: %v", err)
	}

	// Build the oracle client for the configured model
	factory := llm.NewProviderFactory(cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	provider, err := factory.GetProvider(ctx, cfg.OracleModel, "")
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to initialize oracle provider: ", err)
	}
	oracle := llm.NewClient(provider, cfg.OracleModel)

	// Structure fetcher with mirror fallback
	fetcher := structure.NewFetcher(cfg.RCSBFilesURL, cfg.PDBeFilesURL)

	// Design session controller
	controller := studio.NewController(oracle, fetcher).
		WithMetrics(cloudwatchMetrics, metrics.NewSentryMetrics())

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(controller, fetcher, cfg, GetVersion())

	log.Printf("🚀 Starting server on port %s (oracle: %s)", cfg.Port, cfg.OracleModel)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server: ", err)
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
