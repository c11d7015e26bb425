// Package executor carries out a plan: it renders every action and writes
// the results below an output directory. A plan either runs against a clean
// target or, with overwrite enabled, replaces existing files; the pre-check
// runs before anything is written.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/render"
)

// Result summarizes an execution.
type Result struct {
	Written []string      `json:"written"` // target paths, in action order
	Elapsed time.Duration `json:"elapsed"`
}

// ExistsError lists planned targets that are already on disk.
type ExistsError struct {
	Paths []string
}

func (e *ExistsError) Error() string {
	if len(e.Paths) == 1 {
		return fmt.Sprintf("refusing to overwrite %s", e.Paths[0])
	}
	return fmt.Sprintf("refusing to overwrite %d existing files (first: %s)", len(e.Paths), e.Paths[0])
}

// Executor renders and writes plans.
type Executor struct {
	renderer  render.Renderer
	outDir    string
	overwrite bool
}

// New creates an executor writing below outDir.
func New(renderer render.Renderer, outDir string, overwrite bool) *Executor {
	return &Executor{renderer: renderer, outDir: outDir, overwrite: overwrite}
}

// Execute writes every action of plan. Cancellation stops between actions;
// files written before that remain.
func (e *Executor) Execute(ctx context.Context, plan *planner.Plan) (*Result, error) {
	start := time.Now()
	if !e.overwrite {
		if err := e.checkExisting(plan); err != nil {
			return nil, err
		}
	}

	res := &Result{Written: make([]string, 0, len(plan.Actions))}
	for _, a := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		out, err := e.renderer.Render(ctx, a.TemplateID, a.Context)
		if err != nil {
			return res, fmt.Errorf("render %s: %w", a.TargetPath, err)
		}
		dst := e.target(a.TargetPath)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return res, fmt.Errorf("create directory for %s: %w", a.TargetPath, err)
		}
		if err := os.WriteFile(dst, out, 0o644); err != nil {
			return res, fmt.Errorf("write %s: %w", a.TargetPath, err)
		}
		res.Written = append(res.Written, a.TargetPath)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func (e *Executor) checkExisting(plan *planner.Plan) error {
	var existing []string
	for _, a := range plan.Actions {
		_, err := os.Stat(e.target(a.TargetPath))
		switch {
		case err == nil:
			existing = append(existing, a.TargetPath)
		case !os.IsNotExist(err):
			return fmt.Errorf("stat %s: %w", a.TargetPath, err)
		}
	}
	if len(existing) > 0 {
		return &ExistsError{Paths: existing}
	}
	return nil
}

func (e *Executor) target(p string) string {
	return filepath.Join(e.outDir, filepath.FromSlash(p))
}
