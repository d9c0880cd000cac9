package tools

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/HendryAvila/board-mcp/internal/format"
	"github.com/HendryAvila/board-mcp/internal/gateway"
	"github.com/HendryAvila/board-mcp/internal/remote"
	"github.com/HendryAvila/board-mcp/internal/remote/remotetest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// makeReq builds a CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// fakeSource is an in-memory board.Source.
type fakeSource struct {
	boards map[string]*board.Board
	cards  map[string]*board.Card
	err    error
	calls  int
}

func (f *fakeSource) FetchBoard(_ context.Context, id string) (*board.Board, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.boards[id]; ok {
		return b, nil
	}
	return nil, board.NotFound("Board", id)
}

func (f *fakeSource) FetchCard(_ context.Context, id string) (*board.Card, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.cards[id]; ok {
		return c, nil
	}
	return nil, board.NotFound("Card", id)
}

func (f *fakeSource) Describe() string { return "fake" }
func (f *fakeSource) Close() error     { return nil }

// remoteGateway returns a gateway wired to a fresh fake REST API.
func remoteGateway(t *testing.T) (*gateway.Gateway, *remotetest.FakeAPI) {
	t.Helper()
	api := remotetest.New(t)
	c := remote.New(api.URL, remotetest.APIKey)
	t.Cleanup(func() { _ = c.Close() })
	return gateway.New(c), api
}

func pinned() *format.Renderer {
	return &format.Renderer{Now: func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }}
}

// ─── Definitions ─────────────────────────────────────────────────────────────

func TestDefinitions(t *testing.T) {
	gw := gateway.New(nil)
	src := &fakeSource{}
	tests := []struct {
		def      mcp.Tool
		name     string
		readOnly bool
		required []string
	}{
		{NewBoardTasksTool(src, "").Definition(), "get_board_tasks", true, nil},
		{NewCardDetailsTool(src).Definition(), "get_card_details", true, []string{"cardId"}},
		{NewMoveCardTool(gw).Definition(), "move_card", false, []string{"cardId", "targetColumnId"}},
		{NewAddCommentTool(gw).Definition(), "add_comment", false, []string{"cardId", "content"}},
		{NewUpdateCardTool(gw).Definition(), "update_card", false, []string{"cardId"}},
		{NewCreateCardTool(gw).Definition(), "create_card", false, []string{"columnId", "title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.def.Name)
			assert.NotEmpty(t, tt.def.Description)
			require.NotNil(t, tt.def.Annotations.ReadOnlyHint)
			assert.Equal(t, tt.readOnly, *tt.def.Annotations.ReadOnlyHint)
			if !tt.readOnly {
				require.NotNil(t, tt.def.Annotations.DestructiveHint)
				assert.False(t, *tt.def.Annotations.DestructiveHint)
			}
			assert.ElementsMatch(t, tt.required, tt.def.InputSchema.Required)
		})
	}
}

func TestDefinitions_PriorityEnum(t *testing.T) {
	for _, def := range []mcp.Tool{
		NewUpdateCardTool(nil).Definition(),
		NewCreateCardTool(nil).Definition(),
	} {
		prop, ok := def.InputSchema.Properties["priority"].(map[string]any)
		require.True(t, ok, def.Name)
		assert.Equal(t, board.Priorities, prop["enum"], def.Name)
	}
}

// ─── get_board_tasks ─────────────────────────────────────────────────────────

func TestBoardTasks_NoBoardID(t *testing.T) {
	src := &fakeSource{}
	tool := NewBoardTasksTool(src, "")

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, MsgNoBoardID, resultText(result))
	assert.Zero(t, src.calls, "no fetch without a board id")
}

func TestBoardTasks_DefaultBoard(t *testing.T) {
	src := &fakeSource{boards: map[string]*board.Board{
		"b-default": {ID: "b-default", Name: "Default board"},
	}}
	tool := NewBoardTasksTool(src, "b-default")
	tool.SetRenderer(pinned())

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	text := resultText(result)
	assert.True(t, strings.HasPrefix(text, "# Default board"))
	assert.Contains(t, text, "Summary: 0 active cards across 0 columns. | Source: fake")
}

func TestBoardTasks_ExplicitBoardWins(t *testing.T) {
	src := &fakeSource{boards: map[string]*board.Board{
		"b-default": {Name: "Default"},
		"b-other":   {Name: "Other"},
	}}
	tool := NewBoardTasksTool(src, "b-default")

	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{"boardId": "b-other"}))
	assert.True(t, strings.HasPrefix(resultText(result), "# Other"))
}

func TestBoardTasks_NotFound(t *testing.T) {
	tool := NewBoardTasksTool(&fakeSource{}, "")

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"boardId": "ghost"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "Board not found: ghost", resultText(result))
}

func TestBoardTasks_SourceError(t *testing.T) {
	tool := NewBoardTasksTool(&fakeSource{err: errors.New("disk on fire")}, "b1")

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Error fetching board: disk on fire", resultText(result))
}

// ─── get_card_details ────────────────────────────────────────────────────────

func TestCardDetails_Success(t *testing.T) {
	src := &fakeSource{cards: map[string]*board.Card{
		"c1": {ID: "c1", Title: "Fix login", Priority: board.PriorityHigh},
	}}
	tool := NewCardDetailsTool(src)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"cardId": "c1"}))
	require.NoError(t, err)
	text := resultText(result)
	assert.Contains(t, text, "# Fix login")
	assert.Contains(t, text, "**Priority:** HIGH")
}

func TestBoardTasks_RemoteMissingRoute(t *testing.T) {
	api := remotetest.New(t)
	api.FailWith(http.StatusNotFound, "Cannot GET /api/v1/boards/b1 (proxy route missing)")
	c := remote.New(api.URL, remotetest.APIKey)
	t.Cleanup(func() { _ = c.Close() })

	result, err := NewBoardTasksTool(c, "b1").Handle(context.Background(), makeReq(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t,
		"Error fetching board: REST API error 404: Cannot GET /api/v1/boards/b1 (proxy route missing)",
		resultText(result))
}

func TestCardDetails_NotFound(t *testing.T) {
	tool := NewCardDetailsTool(&fakeSource{})

	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{"cardId": "nope"}))
	assert.False(t, result.IsError)
	assert.Equal(t, "Card not found: nope", resultText(result))
}

func TestCardDetails_MissingCardID(t *testing.T) {
	src := &fakeSource{}
	tool := NewCardDetailsTool(src)

	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "cardId is required")
	assert.Zero(t, src.calls)
}

// ─── Writes with remote mode off ─────────────────────────────────────────────

func TestWrites_RemoteRequired(t *testing.T) {
	gw := gateway.New(nil)
	ctx := context.Background()
	calls := []struct {
		name   string
		handle func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args   map[string]interface{}
	}{
		{"move_card", NewMoveCardTool(gw).Handle, map[string]interface{}{"cardId": "c1", "targetColumnId": "col"}},
		{"add_comment", NewAddCommentTool(gw).Handle, map[string]interface{}{"cardId": "c1", "content": "hi"}},
		{"update_card", NewUpdateCardTool(gw).Handle, map[string]interface{}{"cardId": "c1", "title": "x"}},
		{"update_card empty", NewUpdateCardTool(gw).Handle, map[string]interface{}{"cardId": "c1"}},
		{"create_card", NewCreateCardTool(gw).Handle, map[string]interface{}{"columnId": "col", "title": "x"}},
		{"create_card missing args", NewCreateCardTool(gw).Handle, map[string]interface{}{}},
	}
	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			result, err := c.handle(ctx, makeReq(c.args))
			require.NoError(t, err)
			assert.False(t, result.IsError)
			assert.Equal(t, MsgRemoteRequired, resultText(result))
		})
	}
}

// ─── move_card ───────────────────────────────────────────────────────────────

func TestMoveCard_Success(t *testing.T) {
	gw, api := remoteGateway(t)
	api.AddCard(&board.Card{ID: "c1", Title: "Ship"})
	api.AddColumn("col-done", "Done")

	result, err := NewMoveCardTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "c1", "targetColumnId": "col-done"}))
	require.NoError(t, err)
	assert.Equal(t, `Card "Ship" moved to column "Done"`, resultText(result))
}

func TestMoveCard_APIError(t *testing.T) {
	gw, api := remoteGateway(t)
	api.AddCard(&board.Card{ID: "c1", Title: "Ship"})

	result, _ := NewMoveCardTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "c1", "targetColumnId": "nowhere"}))
	assert.True(t, result.IsError)
	assert.Equal(t, "Error moving card: REST API error 400: Unknown column", resultText(result))
}

func TestMoveCard_UnknownCard(t *testing.T) {
	gw, _ := remoteGateway(t)

	result, _ := NewMoveCardTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "ghost", "targetColumnId": "col"}))
	assert.True(t, result.IsError)
	assert.Equal(t, "Error moving card: REST API error 404: Card not found", resultText(result))
}

// ─── add_comment ─────────────────────────────────────────────────────────────

func TestAddComment_Success(t *testing.T) {
	gw, api := remoteGateway(t)
	api.AddCard(&board.Card{ID: "c1", Title: "Ship"})

	result, err := NewAddCommentTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "c1", "content": "<p>done</p>"}))
	require.NoError(t, err)
	assert.Equal(t, `Comment added to card "Ship"`, resultText(result))
	assert.Equal(t, map[string]any{"content": "<p>done</p>"}, api.Requests()[0].Body)
}

func TestAddComment_BlankContentIsSent(t *testing.T) {
	gw, api := remoteGateway(t)
	api.AddCard(&board.Card{ID: "c1", Title: "Ship"})

	result, err := NewAddCommentTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "c1", "content": "   "}))
	require.NoError(t, err)
	assert.Equal(t, `Comment added to card "Ship"`, resultText(result))
	require.Len(t, api.Requests(), 1)
	assert.Equal(t, map[string]any{"content": "   "}, api.Requests()[0].Body)
}

func TestAddComment_MissingContent(t *testing.T) {
	gw, api := remoteGateway(t)

	result, err := NewAddCommentTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "c1"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "content is required")
	assert.Empty(t, api.Requests())
}

// ─── update_card ─────────────────────────────────────────────────────────────

func TestUpdateCard_PriorityOnly(t *testing.T) {
	gw, api := remoteGateway(t)
	api.AddCard(&board.Card{ID: "c1", Title: "Ship"})

	result, err := NewUpdateCardTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "c1", "priority": "HIGH"}))
	require.NoError(t, err)
	assert.Equal(t, `Card "Ship" updated: priority`, resultText(result))

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, `{"priority":"HIGH"}`, reqs[0].RawBody)
}

func TestUpdateCard_NoFields(t *testing.T) {
	gw, api := remoteGateway(t)

	result, err := NewUpdateCardTool(gw).Handle(context.Background(),
		makeReq(map[string]interface{}{"cardId": "c1"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, MsgNoFields, resultText(result))
	assert.Empty(t, api.Requests())
}

func TestUpdateCard_FieldListAndTitle(t *testing.T) {
	gw, api := remoteGateway(t)
	api.AddCard(&board.Card{ID: "c1", Title: "Old"})

	result, _ := NewUpdateCardTool(gw).Handle(context.Background(), makeReq(map[string]interface{}{
		"cardId":      "c1",
		"color":       "#00ff00",
		"title":       "New",
		"dueDate":     "2026-05-01",
		"description": "<p>d</p>",
	}))
	assert.Equal(t, `Card "New" updated: title, description, dueDate, color`, resultText(result))
	assert.Equal(t, map[string]any{
		"title": "New", "description": "<p>d</p>", "dueDate": "2026-05-01", "color": "#00ff00",
	}, api.Requests()[0].Body)
}

func TestUpdateCard_ClearColor(t *testing.T) {
	for _, color := range []interface{}{nil, ""} {
		gw, api := remoteGateway(t)
		api.AddCard(&board.Card{ID: "c1", Title: "Ship"})

		result, _ := NewUpdateCardTool(gw).Handle(context.Background(),
			makeReq(map[string]interface{}{"cardId": "c1", "color": color}))
		assert.Equal(t, `Card "Ship" updated: color`, resultText(result))
		assert.Equal(t, `{"color":null}`, api.Requests()[0].RawBody)
	}
}

func TestUpdateCard_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"bad priority", map[string]interface{}{"cardId": "c1", "priority": "CRITICAL"}, "priority"},
		{"bad due date", map[string]interface{}{"cardId": "c1", "dueDate": "next friday"}, "dueDate"},
		{"non-string title", map[string]interface{}{"cardId": "c1", "title": 42}, "title must be a string"},
		{"missing card", map[string]interface{}{"title": "x"}, "cardId is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, api := remoteGateway(t)

			result, err := NewUpdateCardTool(gw).Handle(context.Background(), makeReq(tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(result), tt.want)
			assert.Empty(t, api.Requests())
		})
	}
}

func TestValidateDueDate(t *testing.T) {
	for _, ok := range []string{"2026-05-01", "2026-05-01T17:00:00Z", "2026-05-01T17:00:00.123+02:00", "2026-05-01T17:00:00"} {
		assert.NoError(t, validateDueDate(ok), ok)
	}
	for _, bad := range []string{"", "01.05.2026", "2026-13-01", "tomorrow"} {
		assert.ErrorIs(t, validateDueDate(bad), board.ErrInvalidArgument, bad)
	}
}

// ─── create_card ─────────────────────────────────────────────────────────────

func TestCreateCard_Success(t *testing.T) {
	gw, api := remoteGateway(t)
	api.AddColumn("col-todo", "Todo")

	result, err := NewCreateCardTool(gw).Handle(context.Background(), makeReq(map[string]interface{}{
		"columnId": "col-todo", "title": "Write tests", "priority": "LOW",
	}))
	require.NoError(t, err)
	assert.Equal(t, `Card "Write tests" created in column "Todo"`, resultText(result))
	assert.Equal(t, map[string]any{"columnId": "col-todo", "title": "Write tests", "priority": "LOW"},
		api.Requests()[0].Body, "empty description is omitted")
}

func TestCreateCard_InvalidPriority(t *testing.T) {
	gw, api := remoteGateway(t)

	result, _ := NewCreateCardTool(gw).Handle(context.Background(), makeReq(map[string]interface{}{
		"columnId": "col", "title": "x", "priority": "low",
	}))
	assert.True(t, result.IsError)
	assert.Empty(t, api.Requests())
}

// ─── errorResult ─────────────────────────────────────────────────────────────

func TestErrorResult(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		isError bool
	}{
		{"not found", board.NotFound("Card", "c9"), "Card not found: c9", false},
		{"remote required", board.ErrRemoteRequired, MsgRemoteRequired, false},
		{"no fields", board.ErrNoFields, MsgNoFields, false},
		{"api error", &remote.APIError{Status: 502, Body: "bad gateway"}, "Error doing: REST API error 502: bad gateway", true},
		{"wrapped", errors.Join(errors.New("ctx"), context.DeadlineExceeded), "Error doing: ctx\ncontext deadline exceeded", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := errorResult("doing", tt.err)
			assert.Equal(t, tt.want, resultText(r))
			assert.Equal(t, tt.isError, r.IsError)
		})
	}
}
