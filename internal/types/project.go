// Package types defines the configuration model consumed by the planner:
// the project, its entities and their fields, and the dashboard layout.
//
// Values are plain data. Resolve derives a defaults-merged deep copy and never
// mutates the receiver, so one configuration can be planned repeatedly and
// concurrently.
package types

import (
	"slices"

	"github.com/matthewbaird/dashgen/internal/naming"
)

// Default values merged by Resolve.
const (
	DefaultDescription = "Internal admin dashboard"
	DefaultAPIBaseURL  = "http://localhost:3001/api"
	DefaultPageSize    = 20
	DefaultSortField   = "createdAt"
	DefaultRecentLimit = 5
)

// ── Project ──────────────────────────────────────────────────────────────────

// ProjectConfig is the root of one planning pass.
type ProjectConfig struct {
	Name        string           `json:"name"` // "shop-admin" (kebab-case)
	DisplayName string           `json:"displayName,omitempty"`
	Description string           `json:"description,omitempty"`
	APIBaseURL  string           `json:"apiBaseUrl,omitempty"`
	Modules     Modules          `json:"modules"`
	Dashboard   *DashboardConfig `json:"dashboard,omitempty"`
}

// Modules selects the optional feature areas of a project.
type Modules struct {
	Auth      bool           `json:"auth"`
	Dashboard bool           `json:"dashboard"`
	Crud      []EntityConfig `json:"crud"`
}

// HasCrud reports whether any entity is configured.
func (p *ProjectConfig) HasCrud() bool {
	return len(p.Modules.Crud) > 0
}

// Entity returns the entity with the given name, or nil.
func (p *ProjectConfig) Entity(name string) *EntityConfig {
	for i := range p.Modules.Crud {
		if p.Modules.Crud[i].Name == name {
			return &p.Modules.Crud[i]
		}
	}
	return nil
}

// EntityNames returns entity names in configuration order.
func (p *ProjectConfig) EntityNames() []string {
	names := make([]string, len(p.Modules.Crud))
	for i, e := range p.Modules.Crud {
		names[i] = e.Name
	}
	return names
}

// ── Entity ───────────────────────────────────────────────────────────────────

// EntityConfig describes one data type that gets CRUD pages, types, an API
// contract and mock data.
type EntityConfig struct {
	Name       string          `json:"name"`                 // "Product" (PascalCase, singular)
	PluralName string          `json:"pluralName,omitempty"` // "Products"
	Slug       string          `json:"slug,omitempty"`       // "products"
	Fields     []FieldConfig   `json:"fields"`
	Features   *EntityFeatures `json:"features,omitempty"`
	ListConfig *ListConfig     `json:"listConfig,omitempty"`
}

// EntityFeatures toggles the generated pages. Delete has no page of its own;
// it only enables delete actions inside the other pages.
type EntityFeatures struct {
	List   bool `json:"list"`
	Detail bool `json:"detail"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// ListConfig configures the generated list page.
type ListConfig struct {
	SearchableFields []string   `json:"searchableFields"`
	DefaultSort      SortConfig `json:"defaultSort"`
	PageSize         int        `json:"pageSize" validate:"gte=1,lte=100"`
}

// SortDirection is "asc" or "desc".
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig is the initial list ordering.
type SortConfig struct {
	Field     string        `json:"field" validate:"required"`
	Direction SortDirection `json:"direction" validate:"oneof=asc desc"`
}

// Field returns the field with the given name, or nil.
func (e *EntityConfig) Field(name string) *FieldConfig {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// ── Field ────────────────────────────────────────────────────────────────────

// FieldConfig is one typed attribute of an entity.
type FieldConfig struct {
	Name     string    `json:"name"` // "productName" (camelCase)
	Label    string    `json:"label,omitempty"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`

	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`

	ShowInList   bool `json:"showInList"`
	ShowInDetail bool `json:"showInDetail"`
	ShowInForm   bool `json:"showInForm"`

	EnumValues           []string `json:"enumValues,omitempty"`
	RelationEntity       string   `json:"relationEntity,omitempty"`
	RelationDisplayField string   `json:"relationDisplayField,omitempty"`
}

// ── Defaults ─────────────────────────────────────────────────────────────────

// DefaultEntityFeatures enables every page and the delete action.
func DefaultEntityFeatures() EntityFeatures {
	return EntityFeatures{List: true, Detail: true, Create: true, Edit: true, Delete: true}
}

// DefaultListConfig sorts newest first, 20 rows per page.
func DefaultListConfig() ListConfig {
	return ListConfig{
		SearchableFields: []string{},
		DefaultSort:      SortConfig{Field: DefaultSortField, Direction: SortDesc},
		PageSize:         DefaultPageSize,
	}
}

// CommonFields returns the system fields every generated entity carries.
func CommonFields() []FieldConfig {
	return []FieldConfig{
		{Name: "id", Label: "ID", Type: FieldString, Required: true, ShowInDetail: true},
		{Name: "createdAt", Label: "Created At", Type: FieldDatetime, Required: true, ShowInDetail: true},
		{Name: "updatedAt", Label: "Updated At", Type: FieldDatetime, Required: true, ShowInDetail: true},
	}
}

// IsCommonField reports whether name is one of the system fields.
func IsCommonField(name string) bool {
	switch name {
	case "id", "createdAt", "updatedAt":
		return true
	}
	return false
}

// ── Resolution ───────────────────────────────────────────────────────────────

// Resolve returns a deep copy of p with defaults merged in. Derived values
// (plural names, slugs, labels) are computed from names with the naming
// package. Resolve is idempotent.
func (p ProjectConfig) Resolve() ProjectConfig {
	out := p
	if out.DisplayName == "" {
		out.DisplayName = naming.ToTitle(p.Name)
	}
	if out.Description == "" {
		out.Description = DefaultDescription
	}
	if out.APIBaseURL == "" {
		out.APIBaseURL = DefaultAPIBaseURL
	}

	out.Modules.Crud = make([]EntityConfig, len(p.Modules.Crud))
	for i, e := range p.Modules.Crud {
		out.Modules.Crud[i] = e.Resolve()
	}

	switch {
	case p.Dashboard != nil:
		d := p.Dashboard.clone()
		d.applyDefaults()
		out.Dashboard = d
	case p.Modules.Dashboard:
		d := DefaultDashboard()
		out.Dashboard = &d
	}
	return out
}

// Resolve returns a deep copy of e with derived names and defaults merged in.
func (e EntityConfig) Resolve() EntityConfig {
	out := e
	if out.PluralName == "" {
		out.PluralName = naming.Pluralize(e.Name)
	}
	if out.Slug == "" {
		out.Slug = naming.ToKebab(out.PluralName)
	}

	out.Fields = make([]FieldConfig, len(e.Fields))
	for i, f := range e.Fields {
		out.Fields[i] = f.clone()
		if out.Fields[i].Label == "" {
			out.Fields[i].Label = naming.ToTitle(f.Name)
		}
	}

	features := DefaultEntityFeatures()
	if e.Features != nil {
		features = *e.Features
	}
	out.Features = &features

	list := DefaultListConfig()
	if e.ListConfig != nil {
		if e.ListConfig.SearchableFields != nil {
			list.SearchableFields = slices.Clone(e.ListConfig.SearchableFields)
		}
		if e.ListConfig.DefaultSort.Field != "" {
			list.DefaultSort.Field = e.ListConfig.DefaultSort.Field
		}
		if e.ListConfig.DefaultSort.Direction != "" {
			list.DefaultSort.Direction = e.ListConfig.DefaultSort.Direction
		}
		if e.ListConfig.PageSize != 0 {
			list.PageSize = e.ListConfig.PageSize
		}
	}
	out.ListConfig = &list
	return out
}

func (f FieldConfig) clone() FieldConfig {
	out := f
	out.MinLength = clonePtr(f.MinLength)
	out.MaxLength = clonePtr(f.MaxLength)
	out.Min = clonePtr(f.Min)
	out.Max = clonePtr(f.Max)
	out.EnumValues = slices.Clone(f.EnumValues)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Handy for the optional field constraints.
func Ptr[T any](v T) *T {
	return &v
}
