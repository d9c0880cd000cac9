package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/HendryAvila/board-mcp/internal/gateway"
	"github.com/mark3labs/mcp-go/mcp"
)

// dueDateLayouts are the ISO 8601 forms accepted for dueDate.
var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// UpdateCardTool handles the update_card MCP tool.
type UpdateCardTool struct {
	gw *gateway.Gateway
}

// NewUpdateCardTool creates an UpdateCardTool.
func NewUpdateCardTool(gw *gateway.Gateway) *UpdateCardTool {
	return &UpdateCardTool{gw: gw}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("update_card",
		mcp.WithDescription(
			"Update card: title, description, priority, due date, color. "+
				"Only the fields you pass are changed.",
		),
		mcp.WithTitleAnnotation("Update card"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("cardId",
			mcp.Required(),
			mcp.Description("Card ID"),
		),
		mcp.WithString("title",
			mcp.Description("New title"),
		),
		mcp.WithString("description",
			mcp.Description("New description (HTML format)"),
		),
		priorityOption("Priority"),
		mcp.WithString("dueDate",
			mcp.Description("Due date (ISO 8601), e.g. 2026-05-01 or 2026-05-01T17:00:00Z"),
		),
		mcp.WithString("color",
			mcp.Description("Card color. Pass an empty string or null to clear it."),
		),
	)
}

// Handle processes the update_card tool call.
func (t *UpdateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.gw.Enabled() {
		return mcp.NewToolResultText(MsgRemoteRequired), nil
	}
	cardID, err := requireString(req, "cardId")
	if err != nil {
		return errorResult("updating card", err), nil
	}

	u, err := parseUpdate(req)
	if err != nil {
		return errorResult("updating card", err), nil
	}

	card, err := t.gw.UpdateCard(ctx, cardID, u)
	if err != nil {
		return errorResult("updating card", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Card \"%s\" updated: %s",
		card.Title, strings.Join(u.Fields(), ", "))), nil
}

// parseUpdate binds the optional update arguments. Absent or null fields
// stay unset, except color where null (or "") clears the value.
func parseUpdate(req mcp.CallToolRequest) (board.CardUpdate, error) {
	var u board.CardUpdate
	var err error

	if u.Title, _, err = optionalString(req, "title"); err != nil {
		return u, err
	}
	if u.Description, _, err = optionalString(req, "description"); err != nil {
		return u, err
	}
	if u.Priority, err = optionalPriority(req); err != nil {
		return u, err
	}

	if u.DueDate, _, err = optionalString(req, "dueDate"); err != nil {
		return u, err
	}
	if u.DueDate != nil {
		if err := validateDueDate(*u.DueDate); err != nil {
			return u, err
		}
	}

	color, present, err := optionalString(req, "color")
	if err != nil {
		return u, err
	}
	switch {
	case !present:
	case color == nil || *color == "":
		u.ClearColor = true
	default:
		u.Color = color
	}
	return u, nil
}

func validateDueDate(s string) error {
	for _, layout := range dueDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: dueDate %q is not an ISO 8601 date", board.ErrInvalidArgument, s)
}
