// Package source picks the board data source once at startup.
package source

import (
	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/HendryAvila/board-mcp/internal/config"
	"github.com/HendryAvila/board-mcp/internal/remote"
	"github.com/HendryAvila/board-mcp/internal/store"
)

// Open returns the configured source and, in remote mode, the writer that
// shares its HTTP client. In store mode the writer is nil and writes are
// disabled for the lifetime of the process.
func Open(cfg *config.Config) (board.Source, board.Writer, error) {
	if cfg.Mode() == config.ModeRemote {
		timeout, err := cfg.Timeout()
		if err != nil {
			return nil, nil, err
		}
		c := remote.New(cfg.APIURL, cfg.APIKey, remote.WithTimeout(timeout))
		return c, c, nil
	}
	return store.New(cfg.DatabasePath), nil, nil
}
