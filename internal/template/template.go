package template

import (
	_ "embed"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Default is used when no template is requested.
const Default = "empty"

//go:embed templates.yaml
var catalogue []byte

// File is a file written into a new project.
type File struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// Template describes how to scaffold a project.
type Template struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Init        [][]string `yaml:"init"`
	Files       []File     `yaml:"files"`
}

var (
	loadOnce  sync.Once
	templates []Template
	loadErr   error
)

// All returns the embedded templates in catalogue order.
func All() ([]Template, error) {
	loadOnce.Do(func() {
		templates, loadErr = Parse(catalogue)
	})
	return templates, loadErr
}

// Get returns the template called name. An empty name selects Default.
func Get(name string) (Template, error) {
	if name == "" {
		name = Default
	}

	all, err := All()
	if err != nil {
		return Template{}, err
	}
	for _, t := range all {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(names(all), ", "))
}

// Names returns the names of all embedded templates.
func Names() []string {
	all, _ := All()
	return names(all)
}

func names(all []Template) []string {
	out := make([]string, 0, len(all))
	for _, t := range all {
		out = append(out, t.Name)
	}
	return out
}

// Parse decodes and validates a template catalogue.
func Parse(data []byte) ([]Template, error) {
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	var seen []string
	for _, t := range doc.Templates {
		if t.Name == "" {
			return nil, errors.New("template without name")
		}
		if slices.Contains(seen, t.Name) {
			return nil, fmt.Errorf("duplicate template %q", t.Name)
		}
		seen = append(seen, t.Name)

		for _, argv := range t.Init {
			if len(argv) == 0 || argv[0] == "" {
				return nil, fmt.Errorf("template %q: empty init command", t.Name)
			}
		}
		for _, f := range t.Files {
			if err := validateFilePath(f.Path); err != nil {
				return nil, fmt.Errorf("template %q: %w", t.Name, err)
			}
		}
	}

	return doc.Templates, nil
}

// validateFilePath requires a clean relative slash path inside the project.
func validateFilePath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return fmt.Errorf("invalid file path %q", p)
	}
	if clean := path.Clean(p); clean != p || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("invalid file path %q", p)
	}
	return nil
}

// Render returns a copy of t with {{name}} replaced by project.
func (t Template) Render(project string) Template {
	r := strings.NewReplacer("{{name}}", project)

	out := Template{Name: t.Name, Description: t.Description}
	for _, argv := range t.Init {
		rendered := make([]string, len(argv))
		for i, arg := range argv {
			rendered[i] = r.Replace(arg)
		}
		out.Init = append(out.Init, rendered)
	}
	for _, f := range t.Files {
		out.Files = append(out.Files, File{Path: f.Path, Content: r.Replace(f.Content)})
	}
	return out
}
