// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it picks the data source, builds the write
// gateway and injects both into the tools, prompts and resources. No
// business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/HendryAvila/board-mcp/internal/config"
	"github.com/HendryAvila/board-mcp/internal/gateway"
	"github.com/HendryAvila/board-mcp/internal/prompts"
	"github.com/HendryAvila/board-mcp/internal/resources"
	"github.com/HendryAvila/board-mcp/internal/source"
	"github.com/HendryAvila/board-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts and
// resources registered.
//
// The returned cleanup function closes the data source (the lazily opened
// database or idle HTTP connections) and must be called on shutdown. It is
// always non-nil.
func New(cfg *config.Config, logger *log.Logger) (*server.MCPServer, func(), error) {
	src, writer, err := source.Open(cfg)
	if err != nil {
		return nil, noop, fmt.Errorf("opening data source: %w", err)
	}
	cleanup := func() {
		if err := src.Close(); err != nil {
			logger.WithError(err).Warn("closing data source")
		}
	}
	gw := gateway.New(writer)

	s := server.NewMCPServer(
		"board",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(gw.Enabled())),
		server.WithToolHandlerMiddleware(observe(logger)),
	)

	// --- Read tools ---

	boardTasks := tools.NewBoardTasksTool(src, cfg.BoardID)
	s.AddTool(boardTasks.Definition(), boardTasks.Handle)

	cardDetails := tools.NewCardDetailsTool(src)
	s.AddTool(cardDetails.Definition(), cardDetails.Handle)

	// --- Write tools ---
	//
	// Registered in both modes so the agent learns how to enable writes
	// instead of not seeing the tools at all.

	moveCard := tools.NewMoveCardTool(gw)
	s.AddTool(moveCard.Definition(), moveCard.Handle)

	addComment := tools.NewAddCommentTool(gw)
	s.AddTool(addComment.Definition(), addComment.Handle)

	updateCard := tools.NewUpdateCardTool(gw)
	s.AddTool(updateCard.Definition(), updateCard.Handle)

	createCard := tools.NewCreateCardTool(gw)
	s.AddTool(createCard.Definition(), createCard.Handle)

	// --- Prompts ---

	planPrompt := prompts.NewPlanPrompt(cfg.BoardID)
	s.AddPrompt(planPrompt.Definition(), planPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler(src, cfg.BoardID)
	s.AddResource(resourceHandler.CurrentResource(), resourceHandler.HandleCurrent)
	s.AddResourceTemplate(resourceHandler.BoardTemplate(), resourceHandler.HandleBoard)

	logger.Infof("board MCP server started — %s", ModeLabel(cfg))
	return s, cleanup, nil
}

// ModeLabel names the active data source for the startup log line.
func ModeLabel(cfg *config.Config) string {
	if cfg.Mode() == config.ModeRemote {
		return fmt.Sprintf("REST API (%s)", cfg.APIURL)
	}
	return fmt.Sprintf("SQLite (%s)", cfg.DatabasePath)
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

// serverInstructions tells the agent how to use the board tools.
func serverInstructions(writable bool) string {
	text := `You have access to a task board (columns and cards).

## READING
- get_board_tasks: every column with its cards, priorities, assignees, due dates,
  blockers and checklist progress. Column IDs are listed under each column.
- get_card_details: one card with its description, checklists, links, and the
  20 most recent comments and activity entries.

## WRITING
- move_card: change a card's status by moving it to another column.
- add_comment: leave notes, questions and progress updates.
- update_card: change title, description, priority, due date or color.
- create_card: add a new card to a column.

Always read a card with get_card_details before starting work on it, and keep
the board current: move the card when you start and when you finish.`

	if !writable {
		text += `

NOTE: this server reads the local database. Write tools will answer that the
REST API is required; tell the user instead of retrying.`
	}
	return text
}
