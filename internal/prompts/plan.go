// Package prompts implements the board MCP prompts.
//
// Prompts are user-triggered workflows (like slash commands) that tell the
// agent which tools to call and in what order. Unlike tools, the user
// starts them.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// PlanPrompt handles the board-plan MCP prompt.
// It walks the agent from board overview to one concrete card.
type PlanPrompt struct {
	defaultBoardID string
}

// NewPlanPrompt creates a PlanPrompt. defaultBoardID is suggested when the
// user does not name a board.
func NewPlanPrompt(defaultBoardID string) *PlanPrompt {
	return &PlanPrompt{defaultBoardID: defaultBoardID}
}

// Definition returns the MCP prompt definition for registration.
func (p *PlanPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("board-plan",
		mcp.WithPromptDescription(
			"Pick the next card to work on. Reads the board, chooses a card, "+
				"loads its details and keeps the board updated while you work.",
		),
		mcp.WithArgument("boardId",
			mcp.ArgumentDescription("Board to plan from. Defaults to the configured board."),
		),
	)
}

// Handle processes the board-plan prompt request.
func (p *PlanPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	boardID := p.defaultBoardID
	if id := req.Params.Arguments["boardId"]; id != "" {
		boardID = id
	}

	call := "`get_board_tasks`"
	if boardID != "" {
		call = fmt.Sprintf("`get_board_tasks` with boardId='%s'", boardID)
	}

	return &mcp.GetPromptResult{
		Description: "Plan work from the task board",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Help me pick my next task from the board.\n\n"+
						"Please:\n"+
						"1. Run %s and read every column\n"+
						"2. Suggest one card to work on: prefer URGENT/HIGH priority, overdue cards and cards not marked BLOCKED\n"+
						"3. Run `get_card_details` for that card and summarise its description, checklist and recent comments\n"+
						"4. When you start, use `move_card` to move it to the in-progress column\n"+
						"5. Report progress with `add_comment`, and move the card to done when the work is finished\n\n"+
						"If a write tool says the REST API is required, tell me instead of retrying.",
					call,
				)),
			},
		},
	}, nil
}
