package server

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/HendryAvila/board-mcp/internal/config"
	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func newTestServer(t *testing.T, cfg *config.Config) (*server.MCPServer, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	s, cleanup, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return s, hook
}

// roundTrip sends a JSON-RPC request and decodes the response generically.
func roundTrip(t *testing.T, s *server.MCPServer, msg string) map[string]any {
	t.Helper()
	resp := s.HandleMessage(context.Background(), []byte(msg))
	require.NotNil(t, resp)
	raw, err := sonic.ConfigStd.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.ConfigStd.Unmarshal(raw, &out))
	return out
}

func TestNew_RegistersTools(t *testing.T) {
	s, hook := newTestServer(t, &config.Config{DatabasePath: "/nonexistent/dev.db"})

	out := roundTrip(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "unexpected response: %v", out)

	var names []string
	for _, tool := range result["tools"].([]any) {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{
		"get_board_tasks", "get_card_details",
		"move_card", "add_comment", "update_card", "create_card",
	}, names)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "board MCP server started — SQLite (/nonexistent/dev.db)", entry.Message)
}

func TestNew_RegistersPromptsAndResources(t *testing.T) {
	s, _ := newTestServer(t, &config.Config{DatabasePath: "/nonexistent/dev.db", BoardID: "b1"})

	prompts := roundTrip(t, s, `{"jsonrpc":"2.0","id":2,"method":"prompts/list"}`)
	assert.Contains(t, mustJSON(t, prompts), `"board-plan"`)
	assert.Contains(t, mustJSON(t, prompts), `"board-status"`)

	templates := roundTrip(t, s, `{"jsonrpc":"2.0","id":3,"method":"resources/templates/list"}`)
	assert.Contains(t, mustJSON(t, templates), `board://{boardId}`)

	resources := roundTrip(t, s, `{"jsonrpc":"2.0","id":4,"method":"resources/list"}`)
	assert.Contains(t, mustJSON(t, resources), `board://current`)
}

func TestNew_WriteToolInStoreMode(t *testing.T) {
	s, _ := newTestServer(t, &config.Config{DatabasePath: "/nonexistent/dev.db"})

	out := roundTrip(t, s, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"move_card","arguments":{"cardId":"c1","targetColumnId":"done"}}}`)
	body := mustJSON(t, out)
	assert.Contains(t, body, "Write operations require REST API.")
	assert.NotContains(t, body, `"isError":true`)
}

func TestNew_InvalidTimeout(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s, cleanup, err := New(&config.Config{APIURL: "https://x", APIKey: "k", HTTPTimeout: "soon"}, logger)
	assert.Error(t, err)
	assert.Nil(t, s)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestModeLabel(t *testing.T) {
	assert.Equal(t, "REST API (https://board.example.com)",
		ModeLabel(&config.Config{APIURL: "https://board.example.com", APIKey: "k"}))
	path := filepath.Join("prisma", "dev.db")
	assert.Equal(t, "SQLite ("+path+")", ModeLabel(&config.Config{DatabasePath: path}))
}

func TestObserve_Success(t *testing.T) {
	exporter := setupTestTracer(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	handler := observe(logger)(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	req := mcp.CallToolRequest{}
	req.Params.Name = "get_board_tasks"

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.DebugLevel, entry.Level)
	assert.Equal(t, "tool.call", entry.Message)
	assert.Equal(t, "get_board_tasks", entry.Data["tool"])
	assert.Equal(t, false, entry.Data["is_error"])
	assert.Contains(t, entry.Data, "duration_ms")
	assert.NotContains(t, entry.Data, "error")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tool.get_board_tasks", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("tool.name", "get_board_tasks"))
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
}

func TestObserve_ErrorResult(t *testing.T) {
	exporter := setupTestTracer(t)
	logger, hook := test.NewNullLogger()

	handler := observe(logger)(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("Error fetching card: boom"), nil
	})
	req := mcp.CallToolRequest{}
	req.Params.Name = "get_card_details"

	_, err := handler(context.Background(), req)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, true, entry.Data["is_error"])
	assert.Equal(t, "Error fetching card: boom", entry.Data["error"])

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "Error fetching card: boom", spans[0].Status.Description)
}

func TestObserve_GoError(t *testing.T) {
	setupTestTracer(t)
	logger, hook := test.NewNullLogger()

	handler := observe(logger)(func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("panic recovered")
	})
	_, err := handler(context.Background(), mcp.CallToolRequest{})
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "panic recovered", entry.Data["error"])
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", &nopWriter{})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger, err = NewLogger("", &nopWriter{})
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())

	_, err = NewLogger("chatty", &nopWriter{})
	assert.Error(t, err)
}

func TestDurationToMillis(t *testing.T) {
	assert.Equal(t, 0.0, durationToMillis(-1))
	assert.Equal(t, 1.5, durationToMillis(1500000))
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	s, err := sonic.ConfigStd.MarshalToString(v)
	require.NoError(t, err)
	return s
}
