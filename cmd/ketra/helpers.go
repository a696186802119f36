package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/ketra/internal/git"
	"github.com/raphi011/ketra/internal/output"
	"github.com/raphi011/ketra/internal/ui/progress"
)

// withSpinner runs fn while a spinner shows message on stderr.
func withSpinner(message string, fn func() (string, error)) (string, error) {
	ind := progress.New(message)
	ind.Start()
	defer ind.Stop()
	return fn()
}

// printResult prints the output of a git operation, if any.
func printResult(ctx context.Context, result string) {
	if result != "" {
		output.FromContext(ctx).Println(result)
	}
}

// describe adds a hint for classified git errors the user can act on.
func describe(err error) error {
	switch {
	case errors.Is(err, git.ErrNoUpstreamBranch):
		return fmt.Errorf("%w\nPush the branch first: ketra push <project>", err)
	case errors.Is(err, git.ErrPermissionDenied):
		return fmt.Errorf("%w\nCheck your credentials: ketra auth", err)
	}
	return err
}
