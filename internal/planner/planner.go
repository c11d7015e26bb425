package planner

import (
	"fmt"
	"maps"
	"path"
	"strings"

	"github.com/matthewbaird/dashgen/internal/naming"
	"github.com/matthewbaird/dashgen/internal/types"
	"github.com/matthewbaird/dashgen/internal/validate"
)

// Defaults for the planner options.
const (
	DefaultMockRecords = 5
	DefaultTemplateSet = "vite-react"
)

// Planner turns project configurations into plans. A Planner holds only its
// options and is safe for concurrent use.
type Planner struct {
	mockRecords int
	templateSet string
	rootDir     bool
}

// Option configures a Planner.
type Option func(*Planner)

// WithMockRecords sets how many mock records each entity gets. Values below
// zero are treated as zero.
func WithMockRecords(n int) Option {
	return func(p *Planner) { p.mockRecords = max(n, 0) }
}

// WithTemplateSet sets the prefix of every template identifier.
func WithTemplateSet(name string) Option {
	return func(p *Planner) { p.templateSet = name }
}

// WithRootDir controls whether Plan places files under a directory named
// after the project (the default) or at the output root.
func WithRootDir(enabled bool) Option {
	return func(p *Planner) { p.rootDir = enabled }
}

// New creates a planner.
func New(opts ...Option) *Planner {
	p := &Planner{
		mockRecords: DefaultMockRecords,
		templateSet: DefaultTemplateSet,
		rootDir:     true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan expands cfg into the full ordered action list: base files, the
// enabled modules, every entity in configuration order, then the aggregation
// files. cfg is not modified. The first identifier violation is returned as
// a *validate.Error and a duplicate target path as a *CollisionError; in
// either case no plan is returned.
func (p *Planner) Plan(cfg types.ProjectConfig) (*Plan, error) {
	rc := cfg.Resolve()
	if err := validate.Project(rc); err != nil {
		return nil, fmt.Errorf("plan %s: %w", cfg.Name, err)
	}

	b := p.newBuilder(rc, p.rootDir)
	b.emit(ModuleBase, baseFiles)
	if rc.Modules.Auth {
		b.emit(ModuleAuth, authFiles)
	}
	if rc.Modules.Dashboard {
		b.emit(ModuleDashboard, dashboardFiles)
	}
	for i, e := range rc.Modules.Crud {
		b.emitEntity(e, b.views[i])
	}
	b.emitAggregates()

	if err := checkCollisions(b.actions, nil); err != nil {
		return nil, fmt.Errorf("plan %s: %w", cfg.Name, err)
	}
	return &Plan{Project: rc.Name, Actions: b.actions, Warnings: nonNil(validate.Inspect(rc))}, nil
}

// PlanEntity plans the files of one entity added to an existing project.
// Paths are relative to the project directory. existing lists the files the
// project already has, either project relative or prefixed with the project
// name; a planned path among them, or among the files of the other
// configured entities, is a *CollisionError. Aggregation files are not
// replanned.
func (p *Planner) PlanEntity(cfg types.ProjectConfig, entity types.EntityConfig, existing []string) (*Plan, error) {
	merged := cfg
	merged.Modules.Crud = append([]types.EntityConfig(nil), cfg.Modules.Crud...)
	idx := -1
	for i, e := range merged.Modules.Crud {
		if e.Name == entity.Name {
			idx = i
			merged.Modules.Crud[i] = entity
			break
		}
	}
	if idx < 0 {
		idx = len(merged.Modules.Crud)
		merged.Modules.Crud = append(merged.Modules.Crud, entity)
	}

	rc := merged.Resolve()
	if err := validate.ProjectName(rc.Name); err != nil {
		return nil, fmt.Errorf("plan entity %s: %w", entity.Name, err)
	}
	if err := validate.Entity(rc.Modules.Crud[idx], fmt.Sprintf("modules.crud[%d]", idx)); err != nil {
		return nil, fmt.Errorf("plan entity %s: %w", entity.Name, err)
	}

	b := p.newBuilder(rc, false)
	b.emitEntity(rc.Modules.Crud[idx], b.views[idx])

	prefix := rc.Name + "/"
	rel := make([]string, len(existing))
	for i, e := range existing {
		rel[i] = strings.TrimPrefix(e, prefix)
	}
	if err := checkCollisions(b.actions, rel); err != nil {
		return nil, fmt.Errorf("plan entity %s: %w", entity.Name, err)
	}

	// The other entities' files may not be recorded yet; the new entity
	// still must not land on them.
	others := p.newBuilder(rc, false)
	for i, e := range rc.Modules.Crud {
		if i != idx {
			others.emitEntity(e, others.views[i])
		}
	}
	if err := checkCollisions(append(others.actions, b.actions...), nil); err != nil {
		return nil, fmt.Errorf("plan entity %s: %w", entity.Name, err)
	}

	var warnings []validate.Warning
	for _, w := range validate.Inspect(rc) {
		if w.Entity == rc.Modules.Crud[idx].Name {
			warnings = append(warnings, w)
		}
	}
	return &Plan{Project: rc.Name, Actions: b.actions, Warnings: nonNil(warnings)}, nil
}

// ── Builder ──────────────────────────────────────────────────────────────────

// builder accumulates the actions of one planning run.
type builder struct {
	p       *Planner
	cfg     types.ProjectConfig
	root    string
	base    map[string]any
	views   []EntityView
	actions []Action
}

func (p *Planner) newBuilder(rc types.ProjectConfig, rootDir bool) *builder {
	views := make([]EntityView, len(rc.Modules.Crud))
	slugs := make([]string, len(rc.Modules.Crud))
	for i, e := range rc.Modules.Crud {
		views[i] = newEntityView(e, rc.Modules.Crud)
		slugs[i] = e.Slug
	}

	root := ""
	if rootDir {
		root = rc.Name
	}
	return &builder{
		p:    p,
		cfg:  rc,
		root: root,
		base: map[string]any{
			KeyProjectName:       rc.Name,
			KeyDisplayName:       rc.DisplayName,
			KeyDescription:       rc.Description,
			KeyAPIBaseURL:        rc.APIBaseURL,
			KeyProjectNamePascal: naming.ToPascal(rc.Name),
			KeyProjectNameCamel:  naming.ToCamel(rc.Name),
			KeyHasAuth:           rc.Modules.Auth,
			KeyHasDashboard:      rc.Modules.Dashboard,
			KeyHasCrud:           rc.HasCrud(),
			KeyEntities:          views,
			KeyEntitySlugs:       slugs,
			KeyDashboard:         rc.Dashboard,
		},
		views: views,
	}
}

// add appends one action with a fresh copy of the base context.
func (b *builder) add(m Module, entity string, f file, extra map[string]any) {
	ctx := maps.Clone(b.base)
	maps.Copy(ctx, extra)
	b.actions = append(b.actions, Action{
		TargetPath: path.Join(b.root, f.target),
		TemplateID: b.p.templateSet + "/" + f.template,
		Context:    ctx,
		Module:     m,
		Entity:     entity,
	})
}

func (b *builder) emit(m Module, files []file) {
	for _, f := range files {
		b.add(m, "", f, nil)
	}
}

func (b *builder) emitEntity(e types.EntityConfig, v EntityView) {
	for _, f := range entityFiles(*e.Features) {
		extra := map[string]any{KeyEntity: v}
		if f == mockDataFile {
			extra[KeyMockRecords] = mockRecords(b.cfg.Name, e, b.p.mockRecords)
		}
		b.add(ModuleEntity, e.Name, f.expand(e), extra)
	}
}

func (b *builder) emitAggregates() {
	for _, f := range aggregateFiles {
		var extra map[string]any
		if f.target == "src/config/navigation.ts" {
			extra = map[string]any{KeyNavigation: navItems(b.views)}
		}
		b.add(ModuleAggregate, "", f, extra)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
