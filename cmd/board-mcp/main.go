// board-mcp: task board MCP server.
//
// Exposes a task board (columns and cards) to AI agents over MCP stdio. Data
// comes from the board's REST API when MCP_API_URL and MCP_API_KEY are set,
// and straight from the application's SQLite database otherwise.
//
// Usage:
//
//	board-mcp serve          # Start MCP server (stdio transport)
//	board-mcp hook <name>    # Run an agent lifecycle hook
//	board-mcp version
package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HendryAvila/board-mcp/internal/config"
	"github.com/HendryAvila/board-mcp/internal/hooks"
	boardserver "github.com/HendryAvila/board-mcp/internal/server"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "board-mcp",
		Short: "Task board MCP server",
		Long: `board-mcp lets AI agents read and update a task board over MCP.

Configuration (environment, .env file or YAML config):
  MCP_API_URL, MCP_API_KEY   use the REST API (enables write tools)
  MCP_DATABASE_PATH          SQLite database when no API is set (default ./prisma/dev.db)
  MCP_BOARD_ID               default board for get_board_tasks
  MCP_LOG_LEVEL              debug, info, warn, error (default info)
  MCP_HTTP_TIMEOUT           REST request timeout, e.g. 30s`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newHookCmd(), newVersionCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	var opts config.LoadOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.File, "config", "", "YAML config file (default ~/.board-mcp/config.yaml if present)")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file (default .env if present)")
	return cmd
}

func serve(ctx context.Context, opts config.LoadOptions) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stdout carries the protocol; everything else goes to stderr.
	logger, err := boardserver.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	s, cleanup, err := boardserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errLog := logger.WriterLevel(log.ErrorLevel)
	defer func() { _ = errLog.Close() }()

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(stdlog.New(errLog, "", 0))

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving stdio: %w", err)
	}
	logger.Info("board MCP server stopped")
	return nil
}

func newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "hook <name>",
		Short:     "Run an agent lifecycle hook",
		Long:      "Runs a hook for the coding agent. PostToolUse hooks read the tool payload from stdin.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: hooks.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			home, _ := os.UserHomeDir()

			return hooks.Run(cmd.Context(), args[0], hooks.Env{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Dir:    dir,
				Home:   home,
				Git:    hooks.ExecGit(dir),
				Now:    time.Now,
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "board-mcp v%s\n", boardserver.Version)
		},
	}
}
