package tools

import (
	"context"
	"strings"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/HendryAvila/board-mcp/internal/format"
	"github.com/mark3labs/mcp-go/mcp"
)

// BoardTasksTool handles the get_board_tasks MCP tool.
type BoardTasksTool struct {
	src            board.Source
	defaultBoardID string
	render         *format.Renderer
}

// NewBoardTasksTool creates a BoardTasksTool. defaultBoardID is used when
// the caller omits boardId and may be empty.
func NewBoardTasksTool(src board.Source, defaultBoardID string) *BoardTasksTool {
	return &BoardTasksTool{src: src, defaultBoardID: defaultBoardID, render: format.NewRenderer()}
}

// SetRenderer replaces the renderer, e.g. to pin the clock.
func (t *BoardTasksTool) SetRenderer(r *format.Renderer) { t.render = r }

// Definition returns the MCP tool definition for registration.
func (t *BoardTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("get_board_tasks",
		mcp.WithDescription(
			"Get all columns and cards of a board with priorities, assignees, due dates, "+
				"blockers, tags and checklist progress. Use to see the current state of work.",
		),
		mcp.WithTitleAnnotation("Get board tasks"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("boardId",
			mcp.Description("Board ID. Defaults to MCP_BOARD_ID when omitted."),
		),
	)
}

// Handle processes the get_board_tasks tool call.
func (t *BoardTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("boardId", ""))
	if id == "" {
		id = t.defaultBoardID
	}
	if id == "" {
		return mcp.NewToolResultText(MsgNoBoardID), nil
	}

	b, err := t.src.FetchBoard(ctx, id)
	if err != nil {
		return errorResult("fetching board", err), nil
	}
	return mcp.NewToolResultText(t.render.Board(b, t.src.Describe())), nil
}
