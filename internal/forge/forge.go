package forge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/raphi011/ketra/internal/cmd"
)

// ErrNoToken indicates no hosting token could be found.
var ErrNoToken = errors.New("GitHub token not found. Please run 'gh auth login' or set GITHUB_TOKEN environment variable")

// Hosting represents a git hosting service.
type Hosting interface {
	// CreateRepo creates a private repository and returns its clone URL.
	CreateRepo(ctx context.Context, name string) (cloneURL string, err error)

	// DeleteRepo deletes the authenticated user's repository. A repository
	// that doesn't exist is not an error.
	DeleteRepo(ctx context.Context, name string) error
}

// TokenFunc returns an API token or ErrNoToken.
type TokenFunc func(ctx context.Context) (string, error)

// StaticToken returns a TokenFunc for a fixed token. An empty token yields ErrNoToken.
func StaticToken(token string) TokenFunc {
	return func(ctx context.Context) (string, error) {
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	}
}

// DefaultToken reads the token from envVar, falling back to "gh auth token".
func DefaultToken(envVar string, runner cmd.Runner) TokenFunc {
	return func(ctx context.Context) (string, error) {
		if envVar != "" {
			if token := strings.TrimSpace(os.Getenv(envVar)); token != "" {
				return token, nil
			}
		}

		if runner == nil {
			return "", ErrNoToken
		}
		out, err := runner.Run(ctx, cmd.Spec{Name: "gh", Args: []string{"auth", "token"}})
		if err != nil || !out.Succeeded() {
			return "", ErrNoToken
		}
		if token := strings.TrimSpace(out.Stdout); token != "" {
			return token, nil
		}
		return "", ErrNoToken
	}
}

// APIError is a non-success response from the hosting API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (%d): %s", e.StatusCode, e.Message)
}
