package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/raphi011/ketra/internal/log"
)

const userAgent = "ketra"

// GitHub implements Hosting via the GitHub REST API.
type GitHub struct {
	// BaseURL is the API root, e.g. https://api.github.com.
	BaseURL string
	Token   TokenFunc
	HTTP    *http.Client
}

var _ Hosting = (*GitHub)(nil)

// NewGitHub creates a GitHub client for the API at baseURL.
func NewGitHub(baseURL string, token TokenFunc) *GitHub {
	return &GitHub{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateRepo creates a private repository without an initial commit.
func (g *GitHub) CreateRepo(ctx context.Context, name string) (string, error) {
	token, err := g.token(ctx)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"name":      name,
		"private":   true,
		"auto_init": false,
	}

	var repo struct {
		CloneURL string `json:"clone_url"`
	}
	if err := g.do(ctx, token, http.MethodPost, "/user/repos", body, &repo); err != nil {
		return "", fmt.Errorf("failed to create GitHub repo %s: %w", name, err)
	}
	if repo.CloneURL == "" {
		return "", fmt.Errorf("failed to get clone URL from response for %s", name)
	}

	log.FromContext(ctx).Debug("created repository", "name", name, "url", repo.CloneURL)
	return repo.CloneURL, nil
}

// DeleteRepo deletes <login>/<name>. Without a token the deletion is skipped.
func (g *GitHub) DeleteRepo(ctx context.Context, name string) error {
	token, err := g.token(ctx)
	if errors.Is(err, ErrNoToken) {
		log.FromContext(ctx).Debug("skipping GitHub deletion", "reason", "no token")
		return nil
	}
	if err != nil {
		return err
	}

	login, err := g.login(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to get GitHub username: %w", err)
	}

	path := "/repos/" + url.PathEscape(login) + "/" + url.PathEscape(name)
	err = g.do(ctx, token, http.MethodDelete, path, nil, nil)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete GitHub repo %s/%s: %w", login, name, err)
	}
	return nil
}

// Status returns the login of the authenticated user.
func (g *GitHub) Status(ctx context.Context) (string, error) {
	token, err := g.token(ctx)
	if err != nil {
		return "", err
	}
	return g.login(ctx, token)
}

func (g *GitHub) token(ctx context.Context) (string, error) {
	if g.Token == nil {
		return "", ErrNoToken
	}
	return g.Token(ctx)
}

func (g *GitHub) login(ctx context.Context, token string) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := g.do(ctx, token, http.MethodGet, "/user", nil, &user); err != nil {
		return "", err
	}
	if user.Login == "" {
		return "", errors.New("GitHub API returned no login")
	}
	return user.Login, nil
}

// do sends an authenticated request and decodes a JSON response into out.
func (g *GitHub) do(ctx context.Context, token, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.FromContext(ctx).Debug("github request", "method", method, "path", path)

	client := g.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse GitHub response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
