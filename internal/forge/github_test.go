package forge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/raphi011/ketra/internal/cmd"
)

// fakeAPI is a minimal GitHub API serving /user, /user/repos and /repos/{owner}/{name}.
type fakeAPI struct {
	login string
	repos map[string]bool

	mu       sync.Mutex
	requests []string
}

func newFakeAPI(t *testing.T, login string, repos ...string) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{login: login, repos: make(map[string]bool)}
	for _, r := range repos {
		api.repos[r] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		if !api.authorized(w, r) {
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"login": api.login})
	})
	mux.HandleFunc("POST /user/repos", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		if !api.authorized(w, r) {
			return
		}
		var body struct {
			Name     string `json:"name"`
			Private  bool   `json:"private"`
			AutoInit bool   `json:"auto_init"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Private || body.AutoInit {
			http.Error(w, `{"message":"bad request"}`, http.StatusBadRequest)
			return
		}
		api.mu.Lock()
		exists := api.repos[body.Name]
		api.repos[body.Name] = true
		api.mu.Unlock()
		if exists {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Repository creation failed.","errors":[{"message":"name already exists on this account"}]}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"clone_url": "https://github.com/" + api.login + "/" + body.Name + ".git",
		})
	})
	mux.HandleFunc("DELETE /repos/{owner}/{name}", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		if !api.authorized(w, r) {
			return
		}
		if r.PathValue("owner") != api.login {
			http.Error(w, `{"message":"Must have admin rights to Repository."}`, http.StatusForbidden)
			return
		}
		api.mu.Lock()
		defer api.mu.Unlock()
		if !api.repos[r.PathValue("name")] {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		delete(api.repos, r.PathValue("name"))
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *fakeAPI) record(r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, r.Method+" "+r.URL.Path)
}

func (a *fakeAPI) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer secret" {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
		return false
	}
	if r.Header.Get("User-Agent") == "" {
		http.Error(w, `{"message":"missing user agent"}`, http.StatusForbidden)
		return false
	}
	return true
}

func (a *fakeAPI) has(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.repos[name]
}

func TestGitHubCreateRepo(t *testing.T) {
	t.Parallel()

	api, srv := newFakeAPI(t, "alice")
	gh := NewGitHub(srv.URL, StaticToken("secret"))

	url, err := gh.CreateRepo(context.Background(), "my-app")
	if err != nil {
		t.Fatalf("CreateRepo() error = %v", err)
	}
	if url != "https://github.com/alice/my-app.git" {
		t.Errorf("CreateRepo() = %q", url)
	}
	if !api.has("my-app") {
		t.Error("repository was not created")
	}

	_, err = gh.CreateRepo(context.Background(), "my-app")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate CreateRepo() error = %v, want 422 APIError", err)
	}
	if !strings.Contains(err.Error(), "Repository creation failed.") {
		t.Errorf("error = %q, want API message", err.Error())
	}
}

func TestGitHubCreateRepoNoToken(t *testing.T) {
	t.Parallel()

	_, srv := newFakeAPI(t, "alice")
	gh := NewGitHub(srv.URL, StaticToken(""))

	if _, err := gh.CreateRepo(context.Background(), "x"); !errors.Is(err, ErrNoToken) {
		t.Errorf("CreateRepo() error = %v, want ErrNoToken", err)
	}
}

func TestGitHubDeleteRepo(t *testing.T) {
	t.Parallel()

	api, srv := newFakeAPI(t, "alice", "old-project")
	gh := NewGitHub(srv.URL, StaticToken("secret"))

	if err := gh.DeleteRepo(context.Background(), "old-project"); err != nil {
		t.Fatalf("DeleteRepo() error = %v", err)
	}
	if api.has("old-project") {
		t.Error("repository still exists")
	}

	// Already gone: 404 is success
	if err := gh.DeleteRepo(context.Background(), "old-project"); err != nil {
		t.Errorf("DeleteRepo() of missing repo error = %v", err)
	}

	api.mu.Lock()
	got := strings.Join(api.requests, ", ")
	api.mu.Unlock()
	want := "GET /user, DELETE /repos/alice/old-project, GET /user, DELETE /repos/alice/old-project"
	if got != want {
		t.Errorf("requests = %s, want %s", got, want)
	}
}

func TestGitHubDeleteRepoWithoutTokenIsSkipped(t *testing.T) {
	t.Parallel()

	api, srv := newFakeAPI(t, "alice", "keep")
	gh := NewGitHub(srv.URL, StaticToken(""))

	if err := gh.DeleteRepo(context.Background(), "keep"); err != nil {
		t.Errorf("DeleteRepo() error = %v, want nil", err)
	}
	if !api.has("keep") {
		t.Error("repository deleted without token")
	}
}

func TestGitHubDeleteRepoBadCredentials(t *testing.T) {
	t.Parallel()

	_, srv := newFakeAPI(t, "alice", "keep")
	gh := NewGitHub(srv.URL, StaticToken("wrong"))

	err := gh.DeleteRepo(context.Background(), "keep")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("DeleteRepo() error = %v, want 401 APIError", err)
	}
}

func TestGitHubStatus(t *testing.T) {
	t.Parallel()

	_, srv := newFakeAPI(t, "alice")

	login, err := NewGitHub(srv.URL, StaticToken("secret")).Status(context.Background())
	if err != nil || login != "alice" {
		t.Errorf("Status() = %q, %v", login, err)
	}

	if _, err := NewGitHub(srv.URL, nil).Status(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("Status() without token error = %v, want ErrNoToken", err)
	}
}

type ghRunner struct {
	outcome cmd.Outcome
	err     error
	calls   int
}

func (r *ghRunner) Run(ctx context.Context, spec cmd.Spec) (cmd.Outcome, error) {
	r.calls++
	if spec.Name != "gh" || strings.Join(spec.Args, " ") != "auth token" {
		return cmd.Outcome{ExitCode: 1}, nil
	}
	return r.outcome, r.err
}

func TestDefaultToken(t *testing.T) {
	t.Setenv("KETRA_TEST_TOKEN", "")

	ctx := context.Background()

	r := &ghRunner{outcome: cmd.Outcome{Stdout: "gho_fromcli\n"}}
	if token, err := DefaultToken("KETRA_TEST_TOKEN", r)(ctx); err != nil || token != "gho_fromcli" {
		t.Errorf("DefaultToken() via gh = %q, %v", token, err)
	}

	r = &ghRunner{outcome: cmd.Outcome{ExitCode: 1, Stderr: "not logged in"}}
	if _, err := DefaultToken("KETRA_TEST_TOKEN", r)(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("DefaultToken() error = %v, want ErrNoToken", err)
	}

	r = &ghRunner{err: cmd.ErrExecFailure}
	if _, err := DefaultToken("KETRA_TEST_TOKEN", r)(ctx); !errors.Is(err, ErrNoToken) {
		t.Errorf("DefaultToken() without gh error = %v, want ErrNoToken", err)
	}

	t.Setenv("KETRA_TEST_TOKEN", "ghp_fromenv")
	r = &ghRunner{}
	if token, err := DefaultToken("KETRA_TEST_TOKEN", r)(ctx); err != nil || token != "ghp_fromenv" {
		t.Errorf("DefaultToken() via env = %q, %v", token, err)
	}
	if r.calls != 0 {
		t.Errorf("gh called %d times although env var is set", r.calls)
	}
}
