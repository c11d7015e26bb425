package planner

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matthewbaird/dashgen/internal/naming"
	"github.com/matthewbaird/dashgen/internal/typemap"
	"github.com/matthewbaird/dashgen/internal/types"
)

// EntityView is the precomputed template data of one entity. Templates read
// derived names and field lists from here instead of recomputing them.
type EntityView struct {
	Name         string `json:"name"`
	PluralName   string `json:"pluralName"`
	Slug         string `json:"slug"`
	NameCamel    string `json:"nameCamel"`
	PluralCamel  string `json:"pluralCamel"`
	NameKebab    string `json:"nameKebab"`
	NameConstant string `json:"nameConstant"`
	Label        string `json:"label"`
	PluralLabel  string `json:"pluralLabel"`

	Fields       []FieldView `json:"fields"`
	ListFields   []FieldView `json:"listFields"`
	DetailFields []FieldView `json:"detailFields"`
	FormFields   []FieldView `json:"formFields"`
	SystemFields []FieldView `json:"systemFields"`

	Features  types.EntityFeatures `json:"features"`
	CanDelete bool                 `json:"canDelete"`
	List      ListView             `json:"list"`
	Routes    RoutesView           `json:"routes"`
	API       APIView              `json:"api"`
	Relations []string             `json:"relations"` // distinct related entity names
}

// FieldView is one field with its type mappings resolved.
type FieldView struct {
	Name          string         `json:"name"`
	NamePascal    string         `json:"namePascal"`
	Label         string         `json:"label"`
	Type          string         `json:"type"`
	Required      bool           `json:"required"`
	OutputType    string         `json:"outputType"`
	RawOutputType string         `json:"rawOutputType"`
	InputKind     string         `json:"inputKind"`
	Rules         []typemap.Rule `json:"rules"`
	RulesExpr     string         `json:"rulesExpr"`

	ShowInList   bool `json:"showInList"`
	ShowInDetail bool `json:"showInDetail"`
	ShowInForm   bool `json:"showInForm"`

	EnumValues           []string `json:"enumValues,omitempty"`
	RelationEntity       string   `json:"relationEntity,omitempty"`
	RelationSlug         string   `json:"relationSlug,omitempty"`
	RelationDisplayField string   `json:"relationDisplayField,omitempty"`
}

// ListView is the list page configuration.
type ListView struct {
	SearchableFields []string `json:"searchableFields"`
	SortField        string   `json:"sortField"`
	SortDirection    string   `json:"sortDirection"`
	PageSize         int      `json:"pageSize"`
}

// RoutesView holds the client-side routes of an entity's pages.
type RoutesView struct {
	List   string `json:"list"`
	Detail string `json:"detail"`
	Create string `json:"create"`
	Edit   string `json:"edit"`
}

// APIView holds the REST paths of an entity, relative to the API base URL.
type APIView struct {
	Collection string `json:"collection"`
	Item       string `json:"item"`
}

// NavItem is one sidebar entry of the route manifest.
type NavItem struct {
	Label string `json:"label"`
	Route string `json:"route"`
	Slug  string `json:"slug"`
}

func newEntityView(e types.EntityConfig, all []types.EntityConfig) EntityView {
	v := EntityView{
		Name:         e.Name,
		PluralName:   e.PluralName,
		Slug:         e.Slug,
		NameCamel:    naming.ToCamel(e.Name),
		PluralCamel:  naming.ToCamel(e.PluralName),
		NameKebab:    naming.ToKebab(e.Name),
		NameConstant: naming.ToConstant(e.Name),
		Label:        naming.ToTitle(e.Name),
		PluralLabel:  naming.ToTitle(e.PluralName),
		Fields:       []FieldView{},
		ListFields:   []FieldView{},
		DetailFields: []FieldView{},
		FormFields:   []FieldView{},
		Features:     *e.Features,
		CanDelete:    e.Features.Delete,
		List: ListView{
			SearchableFields: e.ListConfig.SearchableFields,
			SortField:        e.ListConfig.DefaultSort.Field,
			SortDirection:    string(e.ListConfig.DefaultSort.Direction),
			PageSize:         e.ListConfig.PageSize,
		},
		Routes: RoutesView{
			List:   "/" + e.Slug,
			Detail: "/" + e.Slug + "/:id",
			Create: "/" + e.Slug + "/new",
			Edit:   "/" + e.Slug + "/:id/edit",
		},
		API: APIView{
			Collection: "/" + e.Slug,
			Item:       "/" + e.Slug + "/:id",
		},
		Relations: []string{},
	}

	seen := map[string]bool{}
	for _, f := range e.Fields {
		fv := newFieldView(f, all)
		v.Fields = append(v.Fields, fv)
		if f.ShowInList {
			v.ListFields = append(v.ListFields, fv)
		}
		if f.ShowInDetail {
			v.DetailFields = append(v.DetailFields, fv)
		}
		if f.ShowInForm {
			v.FormFields = append(v.FormFields, fv)
		}
		if f.Type == types.FieldRelation && f.RelationEntity != "" && !seen[f.RelationEntity] {
			seen[f.RelationEntity] = true
			v.Relations = append(v.Relations, f.RelationEntity)
		}
	}
	for _, f := range types.CommonFields() {
		v.SystemFields = append(v.SystemFields, newFieldView(f, all))
	}
	return v
}

func newFieldView(f types.FieldConfig, all []types.EntityConfig) FieldView {
	fv := FieldView{
		Name:                 f.Name,
		NamePascal:           naming.ToPascal(f.Name),
		Label:                f.Label,
		Type:                 f.Type.String(),
		Required:             f.Required,
		OutputType:           typemap.OutputType(f),
		RawOutputType:        typemap.RawOutputType(f.Type, f.EnumValues),
		InputKind:            typemap.InputKind(f.Type),
		Rules:                typemap.Rules(f),
		RulesExpr:            typemap.RulesExpr(f),
		ShowInList:           f.ShowInList,
		ShowInDetail:         f.ShowInDetail,
		ShowInForm:           f.ShowInForm,
		EnumValues:           f.EnumValues,
		RelationEntity:       f.RelationEntity,
		RelationDisplayField: f.RelationDisplayField,
	}
	if f.Type == types.FieldRelation {
		for _, e := range all {
			if e.Name == f.RelationEntity {
				fv.RelationSlug = e.Slug
				break
			}
		}
		if fv.RelationDisplayField == "" {
			fv.RelationDisplayField = "name"
		}
	}
	return fv
}

// mockRecords builds n deterministic records for an entity. Ids are
// name-based UUIDs so regenerating a project yields identical fixtures.
func mockRecords(project string, e types.EntityConfig, n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range n {
		ts := typemap.Mock(types.FieldConfig{Type: types.FieldDatetime}, i)
		rec := map[string]any{
			"id":        uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "dashgen://%s/%s/%d", project, e.Slug, i)).String(),
			"createdAt": ts,
			"updatedAt": ts,
		}
		for _, f := range e.Fields {
			rec[f.Name] = typemap.Mock(f, i)
		}
		out[i] = rec
	}
	return out
}

func navItems(views []EntityView) []NavItem {
	out := make([]NavItem, len(views))
	for i, v := range views {
		out[i] = NavItem{Label: v.PluralLabel, Route: v.Routes.List, Slug: v.Slug}
	}
	return out
}
