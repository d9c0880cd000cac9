// Package hooks implements the agent lifecycle hooks shipped with the
// server binary (`board-mcp hook <name>`).
//
// Hooks are advisory: they print a message for the agent to read and never
// fail the calling tool. Malformed input and git failures produce no output
// rather than an error.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"
)

// ErrUnknownHook is returned by Run for a name not in the registry.
var ErrUnknownHook = errors.New("unknown hook")

// Env is everything a hook touches. The zero value is not usable; the CLI
// builds one from the process environment.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer

	// Dir is the project working directory. Relative file paths in hook
	// input resolve against it.
	Dir string

	// Home is the user's home directory.
	Home string

	// Git runs a git subcommand in Dir and returns trimmed stdout, or ""
	// on any failure.
	Git func(ctx context.Context, args ...string) string

	Now func() time.Time
}

// Func is a single hook.
type Func func(ctx context.Context, env Env) error

var registry = map[string]Func{
	"check-console-log":        CheckConsoleLog,
	"warn-console-log-on-edit": WarnConsoleLogOnEdit,
	"ecosystem-reminder":       EcosystemReminder,
	"pre-compact-save":         PreCompactSave,
}

// Names lists the registered hooks in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named hook.
func Run(ctx context.Context, name string, env Env) error {
	fn, ok := registry[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHook, name)
	}
	return fn(ctx, env)
}

// toolInput is the subset of the PostToolUse payload the hooks read.
type toolInput struct {
	ToolInput struct {
		FilePath string `json:"file_path"`
	} `json:"tool_input"`
}

// editedFile returns the absolute path of the file the tool touched, or ""
// when the payload is missing or unreadable.
func editedFile(env Env) string {
	raw, err := io.ReadAll(env.Stdin)
	if err != nil {
		return ""
	}
	var in toolInput
	if err := sonic.ConfigStd.Unmarshal(raw, &in); err != nil {
		return ""
	}
	if in.ToolInput.FilePath == "" {
		return ""
	}
	return env.resolve(in.ToolInput.FilePath)
}

func (env Env) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(env.Dir, path)
}
