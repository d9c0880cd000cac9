package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/board-mcp/internal/gateway"
	"github.com/mark3labs/mcp-go/mcp"
)

// AddCommentTool handles the add_comment MCP tool.
type AddCommentTool struct {
	gw *gateway.Gateway
}

// NewAddCommentTool creates an AddCommentTool.
func NewAddCommentTool(gw *gateway.Gateway) *AddCommentTool {
	return &AddCommentTool{gw: gw}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("add_comment",
		mcp.WithDescription("Add a comment to a card. Use for notes, questions, status updates."),
		mcp.WithTitleAnnotation("Add comment"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("Card ID"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Comment text"),
		),
	)
}

// Handle processes the add_comment tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.gw.Enabled() {
		return mcp.NewToolResultText(MsgRemoteRequired), nil
	}
	cardID, err := requireString(req, "cardId")
	if err != nil {
		return errorResult("adding comment", err), nil
	}
	content, err := requireText(req, "content")
	if err != nil {
		return errorResult("adding comment", err), nil
	}

	comment, err := t.gw.AddComment(ctx, cardID, content)
	if err != nil {
		return errorResult("adding comment", err), nil
	}

	title := cardID
	if comment.Card != nil {
		title = orDefault(comment.Card.Title, cardID)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Comment added to card \"%s\"", title)), nil
}
