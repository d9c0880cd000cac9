package board

import "context"

// Source fetches fresh snapshots. Exactly one implementation is active for
// the lifetime of the process: the REST client or the SQLite store.
type Source interface {
	// FetchBoard returns the board with its columns and non-archived cards,
	// or a NotFoundError.
	FetchBoard(ctx context.Context, boardID string) (*Board, error)

	// FetchCard returns the full card detail, or a NotFoundError.
	FetchCard(ctx context.Context, cardID string) (*Card, error)

	// Describe names the source for the board summary line.
	Describe() string

	// Close releases any held connection.
	Close() error
}

// Writer performs mutating calls. Only the REST client implements it.
type Writer interface {
	MoveCard(ctx context.Context, cardID, targetColumnID string) (*Card, error)
	AddComment(ctx context.Context, cardID, content string) (*Comment, error)
	UpdateCard(ctx context.Context, cardID string, u CardUpdate) (*Card, error)
	CreateCard(ctx context.Context, c NewCard) (*Card, error)
}
