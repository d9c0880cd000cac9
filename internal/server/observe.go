package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/HendryAvila/board-mcp/internal/server"

// observe wraps every tool call in a span and a structured log entry.
// Successful calls log at debug, failed ones at warn.
func observe(logger *log.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name := req.Params.Name
			// Looked up per call so a provider installed later still applies.
			ctx, span := otel.Tracer(tracerName).Start(ctx, "tool."+name,
				trace.WithAttributes(attribute.String("tool.name", name)))
			defer span.End()

			start := time.Now()
			result, err := next(ctx, req)

			failure := failureText(result, err)
			isError := err != nil || (result != nil && result.IsError)
			span.SetAttributes(attribute.Bool("tool.is_error", isError))
			if isError {
				span.SetStatus(codes.Error, failure)
			}

			fields := log.Fields{
				"tool":        name,
				"duration_ms": durationToMillis(time.Since(start)),
				"is_error":    isError,
			}
			if failure != "" {
				fields["error"] = failure
			}
			entry := logger.WithFields(fields)
			if isError {
				entry.Warn("tool.call")
			} else {
				entry.Debug("tool.call")
			}
			return result, err
		}
	}
}

// failureText is the Go error, or the text of an error result.
func failureText(result *mcp.CallToolResult, err error) string {
	if err != nil {
		return err.Error()
	}
	if result == nil || !result.IsError {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
