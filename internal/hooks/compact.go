package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// CompactStatePath is where PreCompactSave writes, relative to the project.
const CompactStatePath = ".claude/compact-state.json"

// CompactState is the working state saved before context compaction.
type CompactState struct {
	Timestamp     string   `json:"timestamp"`
	Branch        string   `json:"branch"`
	Status        string   `json:"status"`
	LastCommit    string   `json:"lastCommit"`
	ModifiedFiles []string `json:"modifiedFiles"`
}

// PreCompactSave records the git state so the agent can restore its bearings
// after compaction.
func PreCompactSave(ctx context.Context, env Env) error {
	state := CompactState{
		Timestamp:     env.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Branch:        env.Git(ctx, "branch", "--show-current"),
		Status:        env.Git(ctx, "status", "--short"),
		LastCommit:    env.Git(ctx, "log", "-1", "--oneline"),
		ModifiedFiles: lines(env.Git(ctx, "diff", "--name-only")),
	}
	if state.ModifiedFiles == nil {
		state.ModifiedFiles = []string{}
	}

	data, err := sonic.ConfigStd.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding compact state: %w", err)
	}

	out := filepath.Join(env.Dir, filepath.FromSlash(CompactStatePath))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(out), err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	_, err = fmt.Fprint(env.Stdout,
		"State saved to .claude/compact-state.json. After compaction, read this file to restore context.")
	return err
}
