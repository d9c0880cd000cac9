package hooks

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	consoleLogRe = regexp.MustCompile(`console\.log\s*\(`)
	sourceFileRe = regexp.MustCompile(`\.(ts|tsx|js|jsx)$`)
)

// countConsoleLog returns the console.log calls in the file, 0 when it
// cannot be read.
func countConsoleLog(path string) int {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	return len(consoleLogRe.FindAllIndex(content, -1))
}

// CheckConsoleLog runs when the agent stops and lists console.log calls in
// files changed since HEAD.
func CheckConsoleLog(ctx context.Context, env Env) error {
	files := lines(env.Git(ctx, "diff", "HEAD", "--name-only", "--diff-filter=ACM",
		"--", "*.ts", "*.tsx", "*.js", "*.jsx"))
	if len(files) == 0 {
		return nil
	}

	var warnings []string
	for _, file := range files {
		if n := countConsoleLog(env.resolve(file)); n > 0 {
			warnings = append(warnings, fmt.Sprintf("  %s: %d console.log(s)", file, n))
		}
	}
	if len(warnings) == 0 {
		return nil
	}

	_, err := fmt.Fprintf(env.Stdout,
		"\nConsole.log detected in modified files:\n%s\nConsider removing before commit.\n",
		strings.Join(warnings, "\n"))
	return err
}

// WarnConsoleLogOnEdit runs after an edit and warns when the edited source
// file contains console.log calls.
func WarnConsoleLogOnEdit(ctx context.Context, env Env) error {
	path := editedFile(env)
	if path == "" || !sourceFileRe.MatchString(path) {
		return nil
	}
	n := countConsoleLog(path)
	if n == 0 {
		return nil
	}
	_, err := fmt.Fprintf(env.Stdout, "File contains %d console.log statement(s). Consider removing.", n)
	return err
}
