package tools

import (
	"context"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/HendryAvila/board-mcp/internal/format"
	"github.com/mark3labs/mcp-go/mcp"
)

// CardDetailsTool handles the get_card_details MCP tool.
type CardDetailsTool struct {
	src    board.Source
	render *format.Renderer
}

// NewCardDetailsTool creates a CardDetailsTool.
func NewCardDetailsTool(src board.Source) *CardDetailsTool {
	return &CardDetailsTool{src: src, render: format.NewRenderer()}
}

// Definition returns the MCP tool definition for registration.
func (t *CardDetailsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_card_details",
		mcp.WithDescription(
			"Get detailed card info: description, checklists, comments, activity. "+
				"Use before starting task work.",
		),
		mcp.WithTitleAnnotation("Get card details"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("Card ID"),
		),
	)
}

// Handle processes the get_card_details tool call.
func (t *CardDetailsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID, err := requireString(req, "cardId")
	if err != nil {
		return errorResult("fetching card", err), nil
	}

	c, err := t.src.FetchCard(ctx, cardID)
	if err != nil {
		return errorResult("fetching card", err), nil
	}
	return mcp.NewToolResultText(t.render.Card(c)), nil
}
