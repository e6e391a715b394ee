// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package scaffold renders new blueprint project directories from embedded
// templates.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	texttemplate "text/template"
)

//go:embed templates
var templateFS embed.FS

// nameRe constrains blueprint names to DNS-label-style identifiers.
var nameRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// MaxNameLength is the longest accepted blueprint name.
const MaxNameLength = 64

// DefaultTemplate is the built-in project template used when none is
// requested.
const DefaultTemplate = "default"

// Templates lists the available embedded template sets.
func Templates() []string {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

// Data is the template context for a new project.
type Data struct {
	Name        string
	Description string
}

// ValidateName reports whether name is acceptable as a blueprint name.
func ValidateName(name string) error {
	if len(name) == 0 || len(name) > MaxNameLength || !nameRe.MatchString(name) {
		return fmt.Errorf("invalid blueprint name %q", name)
	}
	return nil
}

// Create scaffolds a new blueprint project directory named after the
// blueprint in the parent directory, using the given template set. It
// refuses to scaffold into an existing non-empty directory and returns
// the created path.
func Create(parent, name, template string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if template == "" {
		template = DefaultTemplate
	}
	root := "templates/" + template
	if _, err := fs.Stat(templateFS, root); err != nil {
		return "", fmt.Errorf("unknown template %q (available: %s)", template, strings.Join(Templates(), ", "))
	}

	dir := filepath.Join(parent, name)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return "", fmt.Errorf("directory %s already exists and is not empty", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create project directory: %w", err)
	}

	data := Data{
		Name:        name,
		Description: fmt.Sprintf("The %s blueprint.", name),
	}

	err := fs.WalkDir(templateFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(path, root)
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			return nil
		}
		// "dot-" prefixed template names become dotfiles in the project.
		base := filepath.Base(rel)
		if strings.HasPrefix(base, "dot-") {
			base = "." + strings.TrimPrefix(base, "dot-")
		}
		base = strings.TrimSuffix(base, ".tmpl")
		target := filepath.Join(dir, filepath.Dir(rel), base)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		raw, err := templateFS.ReadFile(path)
		if err != nil {
			return err
		}
		tmpl, err := texttemplate.New(rel).Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", rel, err)
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, data); err != nil {
			return fmt.Errorf("render template %s: %w", rel, err)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return os.WriteFile(target, []byte(sb.String()), 0644)
	})
	if err != nil {
		return "", err
	}
	return dir, nil
}
