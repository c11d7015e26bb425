// Package render turns planned actions into file contents. It is the
// boundary toward template bodies, which live outside this module: a
// template set is any directory (or fs.FS) holding one text/template file per
// template identifier.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"sync"
	"text/template"
)

// Renderer renders one template with the given data.
type Renderer interface {
	Render(ctx context.Context, templateID string, data map[string]any) ([]byte, error)
}

// TemplateExt is appended to a template identifier to find its file.
const TemplateExt = ".tmpl"

// Dir renders templates stored as <templateID>.tmpl in a file system.
// Parsed templates are cached; a Dir is safe for concurrent use.
type Dir struct {
	fsys fs.FS

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewDir creates a renderer over fsys, e.g. os.DirFS("templates").
func NewDir(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys, cache: make(map[string]*template.Template)}
}

// Render executes the template for templateID.
func (d *Dir) Render(ctx context.Context, templateID string, data map[string]any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tmpl, err := d.lookup(templateID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", templateID, err)
	}
	return buf.Bytes(), nil
}

func (d *Dir) lookup(templateID string) (*template.Template, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.cache[templateID]; ok {
		return t, nil
	}

	name := templateID + TemplateExt
	src, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", templateID, err)
	}
	t, err := template.New(name).Funcs(FuncMap()).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", templateID, err)
	}
	d.cache[templateID] = t
	return t, nil
}

// Missing returns the template identifiers in ids that have no template file.
func (d *Dir) Missing(ids []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := fs.Stat(d.fsys, id+TemplateExt); err != nil {
			out = append(out, id)
		}
	}
	return out
}
