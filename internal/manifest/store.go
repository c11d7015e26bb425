// Package manifest records the plan runs made for each project and the
// target paths those runs produced. The recorded paths are what later
// entity plans are collision-checked against.
package manifest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/dashgen/internal/planner"
)

// Kind says which operation produced a run.
type Kind string

const (
	KindCreate Kind = "create"
	KindEntity Kind = "entity"
)

// Run is one recorded plan.
type Run struct {
	ID           string    `json:"id"`
	Project      string    `json:"project"`
	Kind         Kind      `json:"kind"`
	Entities     []string  `json:"entities"`
	ActionCount  int       `json:"actionCount"`
	WarningCount int       `json:"warningCount"`
	CreatedAt    time.Time `json:"createdAt"`
	Paths        []string  `json:"paths"` // relative to the project directory
}

// NewRun summarizes plan as a run of the given kind. Paths are recorded
// relative to the project directory whether or not the plan was rooted at
// it.
func NewRun(plan *planner.Plan, kind Kind) Run {
	entities := []string{}
	seen := map[string]bool{}
	for _, a := range plan.Actions {
		if a.Entity == "" || seen[a.Entity] {
			continue
		}
		seen[a.Entity] = true
		entities = append(entities, a.Entity)
	}
	prefix := plan.Project + "/"
	paths := plan.Paths()
	for i, p := range paths {
		paths[i] = strings.TrimPrefix(p, prefix)
	}
	return Run{
		ID:           uuid.NewString(),
		Project:      plan.Project,
		Kind:         kind,
		Entities:     entities,
		ActionCount:  len(plan.Actions),
		WarningCount: len(plan.Warnings),
		CreatedAt:    time.Now().UTC(),
		Paths:        paths,
	}
}

// Store is the interface for reading and writing runs.
type Store interface {
	// RecordRun stores a run and adds its paths to the project's path set.
	RecordRun(ctx context.Context, run Run) error

	// Runs returns the runs recorded for project, newest first.
	Runs(ctx context.Context, project string) ([]Run, error)

	// Paths returns every path recorded for project, sorted.
	Paths(ctx context.Context, project string) ([]string, error)
}
