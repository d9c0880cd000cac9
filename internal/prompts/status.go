package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the board-status MCP prompt.
// It asks for a standup-style summary of the board.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("board-status",
		mcp.WithPromptDescription(
			"Summarise the board: progress per column, blocked and overdue cards, "+
				"and what needs attention next.",
		),
		mcp.WithArgument("boardId",
			mcp.ArgumentDescription("Board to summarise. Defaults to the configured board."),
		),
	)
}

// Handle processes the board-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	call := "`get_board_tasks`"
	if id := req.Params.Arguments["boardId"]; id != "" {
		call = "`get_board_tasks` with boardId='" + id + "'"
	}
	return &mcp.GetPromptResult{
		Description: "Board status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run " + call + " to check the board.\n\n" +
						"Then:\n" +
						"1. Show how many cards sit in each column\n" +
						"2. List every BLOCKED card with its reason\n" +
						"3. List every OVERDUE card with its due date\n" +
						"4. Tell me what should be tackled next and why",
				),
			},
		},
	}, nil
}
