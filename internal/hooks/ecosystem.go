package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

var ecosystemDirs = []string{"agents", "rules", "skills", "hooks"}

// EcosystemReminder runs after an edit and reminds the agent to commit
// changes made to the global ~/.claude configuration.
func EcosystemReminder(ctx context.Context, env Env) error {
	path := editedFile(env)
	if path == "" || env.Home == "" {
		return nil
	}

	root := filepath.Join(env.Home, ".claude")
	if !inEcosystem(root, path) {
		return nil
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil
	}

	_, err = fmt.Fprintf(env.Stdout,
		"\nEcosystem file modified: %s\nRemember to commit changes in your ecosystem repo.\n", rel)
	return err
}

func inEcosystem(root, path string) bool {
	for _, d := range ecosystemDirs {
		dir := filepath.Join(root, d)
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
