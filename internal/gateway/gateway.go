// Package gateway is the single entry point for board mutations.
//
// Writes are only possible through the REST API. When the server runs
// against the local database the gateway is disabled and every call fails
// with board.ErrRemoteRequired before anything leaves the process.
package gateway

import (
	"context"

	"github.com/HendryAvila/board-mcp/internal/board"
)

// Gateway forwards mutations to a board.Writer.
type Gateway struct {
	w board.Writer
}

// New returns a Gateway over w. A nil w yields a disabled gateway.
func New(w board.Writer) *Gateway {
	return &Gateway{w: w}
}

// Enabled reports whether writes can be performed.
func (g *Gateway) Enabled() bool {
	return g != nil && g.w != nil
}

// MoveCard moves a card to the top of targetColumnID.
func (g *Gateway) MoveCard(ctx context.Context, cardID, targetColumnID string) (*board.Card, error) {
	if !g.Enabled() {
		return nil, board.ErrRemoteRequired
	}
	return g.w.MoveCard(ctx, cardID, targetColumnID)
}

// AddComment appends a comment to a card.
func (g *Gateway) AddComment(ctx context.Context, cardID, content string) (*board.Comment, error) {
	if !g.Enabled() {
		return nil, board.ErrRemoteRequired
	}
	return g.w.AddComment(ctx, cardID, content)
}

// UpdateCard applies a sparse update. An empty update is rejected with
// board.ErrNoFields without calling the API.
func (g *Gateway) UpdateCard(ctx context.Context, cardID string, u board.CardUpdate) (*board.Card, error) {
	if !g.Enabled() {
		return nil, board.ErrRemoteRequired
	}
	if u.IsEmpty() {
		return nil, board.ErrNoFields
	}
	return g.w.UpdateCard(ctx, cardID, u)
}

// CreateCard creates a card in the given column.
func (g *Gateway) CreateCard(ctx context.Context, n board.NewCard) (*board.Card, error) {
	if !g.Enabled() {
		return nil, board.ErrRemoteRequired
	}
	return g.w.CreateCard(ctx, n)
}
