package validate

import (
	"fmt"

	"github.com/matthewbaird/dashgen/internal/types"
)

// Warning codes reported by Inspect.
const (
	WarnEnumWithoutValues     = "enum_without_values"
	WarnRelationWithoutEntity = "relation_without_entity"
	WarnRelationUnknownEntity = "relation_unknown_entity"
	WarnUnknownFieldType      = "unknown_field_type"
	WarnUnknownSearchField    = "unknown_searchable_field"
	WarnUnknownSortField      = "unknown_sort_field"
	WarnWidgetUnknownEntity   = "widget_unknown_entity"
)

// Warning is a configuration inconsistency that still plans, usually with a
// fallback mapping ("string" for an enum without values, "unknown" for an
// unrecognized type).
type Warning struct {
	Code    string `json:"code"`
	Entity  string `json:"entity,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	loc := w.Entity
	if w.Field != "" {
		loc += "." + w.Field
	}
	if loc == "" {
		return w.Code + ": " + w.Message
	}
	return fmt.Sprintf("%s: %s: %s", w.Code, loc, w.Message)
}

// Inspect reports inconsistencies in cfg in configuration order. It expects
// a resolved configuration but tolerates missing list settings.
func Inspect(cfg types.ProjectConfig) []Warning {
	var out []Warning
	names := cfg.EntityNames()
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	for _, e := range cfg.Modules.Crud {
		for _, f := range e.Fields {
			switch {
			case !f.Type.Known():
				out = append(out, Warning{Code: WarnUnknownFieldType, Entity: e.Name, Field: f.Name,
					Message: "unrecognized field type, generated as unknown"})
			case f.Type == types.FieldEnum && len(f.EnumValues) == 0:
				out = append(out, Warning{Code: WarnEnumWithoutValues, Entity: e.Name, Field: f.Name,
					Message: "enum field has no values, generated as string"})
			case f.Type == types.FieldRelation && f.RelationEntity == "":
				out = append(out, Warning{Code: WarnRelationWithoutEntity, Entity: e.Name, Field: f.Name,
					Message: "relation field names no target entity"})
			case f.Type == types.FieldRelation && !known[f.RelationEntity]:
				msg := fmt.Sprintf("relation target %q is not a configured entity", f.RelationEntity)
				if s := Suggest(f.RelationEntity, names, 3); s != "" {
					msg += fmt.Sprintf(" (did you mean '%s'?)", s)
				}
				out = append(out, Warning{Code: WarnRelationUnknownEntity, Entity: e.Name, Field: f.Name, Message: msg})
			}
		}

		if e.ListConfig == nil {
			continue
		}
		for _, s := range e.ListConfig.SearchableFields {
			if !hasField(e, s) {
				out = append(out, Warning{Code: WarnUnknownSearchField, Entity: e.Name, Field: s,
					Message: "searchable field is not declared on the entity"})
			}
		}
		if sf := e.ListConfig.DefaultSort.Field; sf != "" && !hasField(e, sf) {
			out = append(out, Warning{Code: WarnUnknownSortField, Entity: e.Name, Field: sf,
				Message: "sort field is not declared on the entity"})
		}
	}

	if cfg.Dashboard != nil {
		for _, w := range cfg.Dashboard.Widgets {
			if w.ListConfig == nil || known[w.ListConfig.Entity] {
				continue
			}
			msg := fmt.Sprintf("widget %q lists unknown entity %q", w.ID, w.ListConfig.Entity)
			if s := Suggest(w.ListConfig.Entity, names, 3); s != "" {
				msg += fmt.Sprintf(" (did you mean '%s'?)", s)
			}
			out = append(out, Warning{Code: WarnWidgetUnknownEntity, Entity: w.ListConfig.Entity, Message: msg})
		}
	}
	return out
}

func hasField(e types.EntityConfig, name string) bool {
	return types.IsCommonField(name) || e.Field(name) != nil
}
