package format

import (
	"testing"
	"time"
)

func TestSanitizeForPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no special chars", input: "my-project", want: "my-project"},
		{name: "forward slash", input: "client/site", want: "client-site"},
		{name: "backslash", input: "client\\site", want: "client-site"},
		{name: "multiple special chars", input: "a/b\\c:d*e?f\"g<h>i|j", want: "a-b-c-d-e-f-g-h-i-j"},
		{name: "empty string", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeForPath(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeForPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/owner/repo.git", "repo"},
		{"https://github.com/owner/repo", "repo"},
		{"https://github.com/owner/repo/", "repo"},
		{"git@github.com:owner/repo.git", "repo"},
		{"git@github.com:repo.git", "repo"},
		{"/srv/git/origin.git", "origin"},
		{`C:\repos\tool.git`, "tool"},
		{"https://example.com/", "example.com"},
		{"https://github.com/.git", ""},
		{"", ""},
		{"..", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := RepoNameFromURL(tt.url); got != tt.want {
				t.Errorf("RepoNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestRelativeTimeFrom(t *testing.T) {
	now := time.Date(2026, 1, 31, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "just now", t: now.Add(-1 * time.Second), want: "just now"},
		{name: "seconds ago", t: now.Add(-30 * time.Second), want: "30s ago"},
		{name: "minutes ago", t: now.Add(-5 * time.Minute), want: "5m ago"},
		{name: "hours ago", t: now.Add(-3 * time.Hour), want: "3h ago"},
		{name: "yesterday", t: now.Add(-24 * time.Hour), want: "yesterday"},
		{name: "2 days ago", t: now.Add(-48 * time.Hour), want: "2d ago"},
		{name: "6 days ago", t: now.Add(-6 * 24 * time.Hour), want: "6d ago"},
		{name: "week or more shows date", t: now.Add(-7 * 24 * time.Hour), want: "2026-01-24"},
		{name: "old date", t: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), want: "2025-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeTimeFrom(tt.t, now)
			if got != tt.want {
				t.Errorf("RelativeTimeFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLastOpened(t *testing.T) {
	if got := LastOpened(0); got != "-" {
		t.Errorf("LastOpened(0) = %q, want -", got)
	}
}
