package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/HendryAvila/board-mcp/internal/gateway"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateCardTool handles the create_card MCP tool.
type CreateCardTool struct {
	gw *gateway.Gateway
}

// NewCreateCardTool creates a CreateCardTool.
func NewCreateCardTool(gw *gateway.Gateway) *CreateCardTool {
	return &CreateCardTool{gw: gw}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("create_card",
		mcp.WithDescription("Create a new card on the board. Specify column, title, optional description and priority."),
		mcp.WithTitleAnnotation("Create card"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("columnId",
			mcp.Required(),
			mcp.Description("Column ID to add the card to"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Card title"),
		),
		mcp.WithString("description",
			mcp.Description("Description (HTML format)"),
		),
		priorityOption("Priority"),
	)
}

// Handle processes the create_card tool call.
func (t *CreateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.gw.Enabled() {
		return mcp.NewToolResultText(MsgRemoteRequired), nil
	}
	columnID, err := requireString(req, "columnId")
	if err != nil {
		return errorResult("creating card", err), nil
	}
	title, err := requireString(req, "title")
	if err != nil {
		return errorResult("creating card", err), nil
	}
	priority, err := optionalPriority(req)
	if err != nil {
		return errorResult("creating card", err), nil
	}

	card, err := t.gw.CreateCard(ctx, board.NewCard{
		ColumnID:    columnID,
		Title:       title,
		Description: req.GetString("description", ""),
		Priority:    priority,
	})
	if err != nil {
		return errorResult("creating card", err), nil
	}

	column := columnID
	if card.Column != nil {
		column = orDefault(card.Column.Name, columnID)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Card \"%s\" created in column \"%s\"", card.Title, column)), nil
}
