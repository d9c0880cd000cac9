// Package resources exposes boards as MCP resources.
//
// Resources provide read-only context the host can attach without a tool
// call. They use URI-based addressing (board://...).
package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/HendryAvila/board-mcp/internal/format"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	scheme = "board://"

	// CurrentURI addresses the configured default board.
	CurrentURI = scheme + "current"

	mimeMarkdown = "text/markdown"
)

// Handler serves board resources.
type Handler struct {
	src            board.Source
	defaultBoardID string
	render         *format.Renderer
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(src board.Source, defaultBoardID string) *Handler {
	return &Handler{src: src, defaultBoardID: defaultBoardID, render: format.NewRenderer()}
}

// BoardTemplate returns the board://{boardId} resource template.
func (h *Handler) BoardTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		scheme+"{boardId}",
		"Board",
		mcp.WithTemplateDescription("Columns and cards of a board, rendered as text"),
		mcp.WithTemplateMIMEType(mimeMarkdown),
	)
}

// CurrentResource returns the resource for the configured default board.
func (h *Handler) CurrentResource() mcp.Resource {
	return mcp.NewResource(
		CurrentURI,
		"Current board",
		mcp.WithResourceDescription("The board named by MCP_BOARD_ID"),
		mcp.WithMIMEType(mimeMarkdown),
	)
}

// HandleBoard renders the board addressed by the request URI.
func (h *Handler) HandleBoard(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, err := BoardID(req.Params.URI)
	if err != nil {
		return nil, err
	}
	return h.read(ctx, req.Params.URI, id)
}

// HandleCurrent renders the configured default board.
func (h *Handler) HandleCurrent(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.defaultBoardID == "" {
		return textResource(req.Params.URI, "text/plain", "Error: no default board configured (MCP_BOARD_ID)"), nil
	}
	return h.read(ctx, req.Params.URI, h.defaultBoardID)
}

func (h *Handler) read(ctx context.Context, uri, boardID string) ([]mcp.ResourceContents, error) {
	b, err := h.src.FetchBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, board.ErrNotFound) {
			return textResource(uri, "text/plain", "Error: "+err.Error()), nil
		}
		return nil, fmt.Errorf("reading %s: %w", uri, err)
	}
	return textResource(uri, mimeMarkdown, h.render.Board(b, h.src.Describe())), nil
}

// BoardID extracts the board id from a board://{boardId} URI.
func BoardID(uri string) (string, error) {
	id, ok := strings.CutPrefix(uri, scheme)
	if !ok || id == "" || strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("%w: malformed board URI %q", board.ErrInvalidArgument, uri)
	}
	return id, nil
}

func textResource(uri, mime, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mime,
			Text:     text,
		},
	}
}
