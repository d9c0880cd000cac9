package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/board-mcp/internal/gateway"
	"github.com/mark3labs/mcp-go/mcp"
)

// MoveCardTool handles the move_card MCP tool.
type MoveCardTool struct {
	gw *gateway.Gateway
}

// NewMoveCardTool creates a MoveCardTool.
func NewMoveCardTool(gw *gateway.Gateway) *MoveCardTool {
	return &MoveCardTool{gw: gw}
}

// Definition returns the MCP tool definition for registration.
func (t *MoveCardTool) Definition() mcp.Tool {
	return mcp.NewTool("move_card",
		mcp.WithDescription("Move card to a different column (change status). Use to update task status."),
		mcp.WithTitleAnnotation("Move card"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("Card ID"),
		),
		mcp.WithString("targetColumnId",
			mcp.Required(),
			mcp.Description("Target column ID"),
		),
	)
}

// Handle processes the move_card tool call.
func (t *MoveCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.gw.Enabled() {
		return mcp.NewToolResultText(MsgRemoteRequired), nil
	}
	cardID, err := requireString(req, "cardId")
	if err != nil {
		return errorResult("moving card", err), nil
	}
	target, err := requireString(req, "targetColumnId")
	if err != nil {
		return errorResult("moving card", err), nil
	}

	card, err := t.gw.MoveCard(ctx, cardID, target)
	if err != nil {
		return errorResult("moving card", err), nil
	}

	column := target
	if card.Column != nil {
		column = orDefault(card.Column.Name, target)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Card \"%s\" moved to column \"%s\"", card.Title, column)), nil
}
