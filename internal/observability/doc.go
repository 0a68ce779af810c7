// Package observability provides logging and metrics support for the
// review service.
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("project_id", projectID).Msg("search started")
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("review_service")
//
// Record metrics:
//
//	metrics.RecordSearchCompleted("pubmed", 42, 1.3)
//	metrics.RecordDuplicatesDetected(3)
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	reqID := observability.RequestIDFromContext(ctx)
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
