// Package tools implements the board MCP tool handlers.
//
// Each tool is a struct that receives its dependencies at construction and
// exposes Definition (for registration) and Handle (the mcp-go handler).
// Handlers never return Go errors: every failure is rendered into the
// result by errorResult, the only place errors become text.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/mark3labs/mcp-go/mcp"
)

// Messages returned as plain text results.
const (
	MsgNoBoardID = "No board ID provided. Set MCP_BOARD_ID env variable or pass boardId parameter."

	MsgRemoteRequired = "Write operations require REST API. Set MCP_API_URL and MCP_API_KEY environment variables."

	MsgNoFields = "No fields to update"
)

// errorResult converts err into a tool result. Expected conditions (missing
// entity, writes disabled, empty update) read as plain answers; everything
// else is flagged as an error and prefixed with the failed action.
func errorResult(verb string, err error) *mcp.CallToolResult {
	var nf *board.NotFoundError
	switch {
	case errors.As(err, &nf):
		return mcp.NewToolResultText(nf.Error())
	case errors.Is(err, board.ErrRemoteRequired):
		return mcp.NewToolResultText(MsgRemoteRequired)
	case errors.Is(err, board.ErrNoFields):
		return mcp.NewToolResultText(MsgNoFields)
	case errors.Is(err, board.ErrInvalidArgument):
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Error %s: %s", verb, err.Error()))
	}
}

// requireString returns a non-blank string argument.
func requireString(req mcp.CallToolRequest, key string) (string, error) {
	v, err := req.RequireString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %s is required", board.ErrInvalidArgument, key)
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s must not be empty", board.ErrInvalidArgument, key)
	}
	return v, nil
}

// requireText returns a required free-text argument as given. Blank text is
// accepted; only a missing or non-string value is rejected.
func requireText(req mcp.CallToolRequest, key string) (string, error) {
	v, err := req.RequireString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %s is required", board.ErrInvalidArgument, key)
	}
	return v, nil
}

// optionalString reports whether key was supplied at all and, when it was
// a string, its value. An explicit null is present with a nil value.
func optionalString(req mcp.CallToolRequest, key string) (val *string, present bool, err error) {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return nil, false, nil
	}
	if raw == nil {
		return nil, true, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, true, fmt.Errorf("%w: %s must be a string", board.ErrInvalidArgument, key)
	}
	return &s, true, nil
}

// optionalPriority parses an optional priority argument. Empty means unset.
func optionalPriority(req mcp.CallToolRequest) (*board.Priority, error) {
	s, _, err := optionalString(req, "priority")
	if err != nil || s == nil || *s == "" {
		return nil, err
	}
	p, err := board.ParsePriority(*s)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// orDefault returns s, or fallback when s is empty.
func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func priorityOption(description string) mcp.ToolOption {
	return mcp.WithString("priority",
		mcp.Description(description),
		mcp.Enum(board.Priorities...),
	)
}
