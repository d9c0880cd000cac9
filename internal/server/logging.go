package server

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to out at the named level. stdout is
// the MCP transport, so callers pass stderr.
func NewLogger(level string, out io.Writer) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(out)
	logger.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}
