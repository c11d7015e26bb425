// Package planner expands a project configuration into the ordered list of
// file-generation actions for a dashboard project.
//
// Planning is pure: it resolves defaults on a copy of the configuration,
// validates identifiers, folds the static file tables over the enabled
// modules and configured entities, and checks that no two actions target the
// same path. Nothing is rendered or written here.
package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewbaird/dashgen/internal/validate"
)

// Module identifies the feature area an action belongs to.
type Module int

const (
	ModuleBase Module = iota
	ModuleAuth
	ModuleDashboard
	ModuleEntity
	ModuleAggregate
)

// String returns the lowercase module name.
func (m Module) String() string {
	switch m {
	case ModuleBase:
		return "base"
	case ModuleAuth:
		return "auth"
	case ModuleDashboard:
		return "dashboard"
	case ModuleEntity:
		return "entity"
	case ModuleAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Module) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Context keys present on every action.
const (
	KeyProjectName       = "projectName"
	KeyDisplayName       = "displayName"
	KeyDescription       = "description"
	KeyAPIBaseURL        = "apiBaseUrl"
	KeyProjectNamePascal = "projectNamePascal"
	KeyProjectNameCamel  = "projectNameCamel"
	KeyHasAuth           = "hasAuth"
	KeyHasDashboard      = "hasDashboard"
	KeyHasCrud           = "hasCrud"
	KeyEntities          = "entities"
	KeyEntitySlugs       = "entitySlugs"
	KeyDashboard         = "dashboard"
)

// Context keys added to entity actions.
const (
	KeyEntity      = "entity"
	KeyMockRecords = "mockRecords" // mock data action only
)

// KeyNavigation holds the route manifest on the navigation action.
const KeyNavigation = "navigation"

// BaseContextKeys lists the keys every action context carries.
func BaseContextKeys() []string {
	return []string{
		KeyProjectName, KeyDisplayName, KeyDescription, KeyAPIBaseURL,
		KeyProjectNamePascal, KeyProjectNameCamel, KeyHasAuth, KeyHasDashboard,
		KeyHasCrud, KeyEntities, KeyEntitySlugs, KeyDashboard,
	}
}

// Action is one planned file: the template to render, the data to render it
// with and where the output goes. TargetPath is slash separated and relative
// to the output root.
type Action struct {
	TargetPath string         `json:"targetPath"`
	TemplateID string         `json:"templateId"`
	Context    map[string]any `json:"context"`
	Module     Module         `json:"module"`
	Entity     string         `json:"entity,omitempty"`
}

// Plan is the result of one planning run.
type Plan struct {
	Project  string             `json:"project"`
	Actions  []Action           `json:"actions"`
	Warnings []validate.Warning `json:"warnings"`
}

// ActionSummary is an action without its render context.
type ActionSummary struct {
	TargetPath string `json:"targetPath"`
	TemplateID string `json:"templateId"`
	Module     Module `json:"module"`
	Entity     string `json:"entity,omitempty"`
}

// Summaries returns the actions without their contexts, in order.
func (p *Plan) Summaries() []ActionSummary {
	out := make([]ActionSummary, len(p.Actions))
	for i, a := range p.Actions {
		out[i] = ActionSummary{TargetPath: a.TargetPath, TemplateID: a.TemplateID, Module: a.Module, Entity: a.Entity}
	}
	return out
}

// Paths returns the target paths in action order.
func (p *Plan) Paths() []string {
	out := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		out[i] = a.TargetPath
	}
	return out
}

// Count returns the number of actions planned for module m.
func (p *Plan) Count(m Module) int {
	n := 0
	for _, a := range p.Actions {
		if a.Module == m {
			n++
		}
	}
	return n
}

// EntityActions returns the actions planned for the named entity.
func (p *Plan) EntityActions(name string) []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Module == ModuleEntity && a.Entity == name {
			out = append(out, a)
		}
	}
	return out
}

// ErrPathCollision is wrapped by every *CollisionError.
var ErrPathCollision = errors.New("target path collision")

// CollisionError reports two planned files that resolve to the same target
// path. Paths compare case-insensitively so output stays valid on
// case-insensitive filesystems. Existing is set when the clash is with a file
// the project already has.
type CollisionError struct {
	Path     string
	First    string // template of the earlier action, or "" if Existing
	Second   string
	Existing bool
}

func (e *CollisionError) Error() string {
	if e.Existing {
		return fmt.Sprintf("%v: %s already exists in the project (planned from %s)", ErrPathCollision, e.Path, e.Second)
	}
	return fmt.Sprintf("%v: %s is planned by both %s and %s", ErrPathCollision, e.Path, e.First, e.Second)
}

func (e *CollisionError) Unwrap() error { return ErrPathCollision }

// checkCollisions verifies that target paths are pairwise distinct and do not
// clash with any of the existing paths.
func checkCollisions(actions []Action, existing []string) error {
	seen := make(map[string]int, len(actions)+len(existing))
	for _, p := range existing {
		seen[strings.ToLower(p)] = -1
	}
	for i, a := range actions {
		key := strings.ToLower(a.TargetPath)
		if j, dup := seen[key]; dup {
			if j < 0 {
				return &CollisionError{Path: a.TargetPath, Second: a.TemplateID, Existing: true}
			}
			return &CollisionError{Path: a.TargetPath, First: actions[j].TemplateID, Second: a.TemplateID}
		}
		seen[key] = i
	}
	return nil
}
