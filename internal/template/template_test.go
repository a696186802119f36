package template

import (
	"slices"
	"strings"
	"testing"
)

func TestEmbeddedCatalogue(t *testing.T) {
	t.Parallel()

	got := Names()
	want := []string{"empty", "python", "go", "node", "rust", "nextjs"}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tmpl, err := Get("")
	if err != nil {
		t.Fatalf("Get(\"\") error = %v", err)
	}
	if tmpl.Name != Default {
		t.Errorf("Get(\"\") = %q, want %q", tmpl.Name, Default)
	}

	if _, err := Get("cobol"); err == nil || !strings.Contains(err.Error(), "available: empty") {
		t.Errorf("Get(cobol) error = %v", err)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tmpl, err := Get("go")
	if err != nil {
		t.Fatal(err)
	}

	r := tmpl.Render("my-tool")
	if len(r.Init) != 1 || strings.Join(r.Init[0], " ") != "go mod init my-tool" {
		t.Errorf("rendered init = %v", r.Init)
	}
	if len(r.Files) != 1 || r.Files[0].Path != "main.go" || !strings.Contains(r.Files[0].Content, "Hello, World!") {
		t.Errorf("rendered files = %+v", r.Files)
	}

	// Render does not modify the source template
	if tmpl.Init[0][3] != "{{name}}" {
		t.Errorf("source template modified: %v", tmpl.Init)
	}

	empty, _ := Get("empty")
	if got := empty.Render("site").Files[0].Content; got != "# site\n\nA new project.\n" {
		t.Errorf("README = %q", got)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "templates: [:"},
		{"no name", "templates:\n  - description: x\n"},
		{"duplicate", "templates:\n  - name: a\n  - name: a\n"},
		{"empty init", "templates:\n  - name: a\n    init:\n      - []\n"},
		{"absolute file", "templates:\n  - name: a\n    files:\n      - path: /etc/passwd\n"},
		{"escaping file", "templates:\n  - name: a\n    files:\n      - path: ../x\n"},
		{"unclean file", "templates:\n  - name: a\n    files:\n      - path: a//b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.yaml)
			}
		})
	}
}
