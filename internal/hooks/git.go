package hooks

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// GitTimeout bounds every git invocation made by a hook.
const GitTimeout = 5 * time.Second

// ExecGit returns an Env.Git that shells out to git in dir.
func ExecGit(dir string) func(ctx context.Context, args ...string) string {
	return func(ctx context.Context, args ...string) string {
		ctx, cancel := context.WithTimeout(ctx, GitTimeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.Output()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}

// lines splits git output into non-empty lines.
func lines(out string) []string {
	var result []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			result = append(result, l)
		}
	}
	return result
}
