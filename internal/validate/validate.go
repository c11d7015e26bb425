// Package validate gates configuration before planning. Identifier checks
// reject values that would produce invalid paths or type names; structural
// checks on list and dashboard settings run through go-playground/validator
// struct tags declared on the types package.
//
// Inspect reports softer inconsistencies as warnings that do not stop
// planning.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matthewbaird/dashgen/internal/types"
)

var (
	projectNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	entityNameRe  = regexp.MustCompile(`^[A-Z][a-zA-Z]*$`)
	slugRe        = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)
	fieldNameRe   = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
)

// structs validates struct tags. *validator.Validate caches struct metadata
// and is safe for concurrent use.
var structs = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ProjectName checks a project identifier.
func ProjectName(name string) error {
	if !projectNameRe.MatchString(name) {
		return newError(RuleProjectName, "name", name, "Project name must be lowercase with hyphens only")
	}
	return nil
}

// EntityName checks an entity identifier.
func EntityName(name string) error {
	if !entityNameRe.MatchString(name) {
		return newError(RuleEntityName, "name", name, "Entity name must be PascalCase (e.g., Product, UserProfile)")
	}
	return nil
}

// Project checks a resolved configuration and returns the first violation
// as an *Error. Entities are checked in configuration order.
func Project(cfg types.ProjectConfig) error {
	if err := ProjectName(cfg.Name); err != nil {
		return err
	}
	for i, e := range cfg.Modules.Crud {
		if err := Entity(e, fmt.Sprintf("modules.crud[%d]", i)); err != nil {
			return err
		}
	}
	if cfg.Dashboard != nil {
		if err := Dashboard(*cfg.Dashboard, "dashboard"); err != nil {
			return err
		}
	}
	return nil
}

// Entity checks one resolved entity. path prefixes the error paths.
func Entity(e types.EntityConfig, path string) error {
	if !entityNameRe.MatchString(e.Name) {
		return newError(RuleEntityName, join(path, "name"), e.Name,
			"Entity name must be PascalCase (e.g., Product, UserProfile)")
	}
	if !entityNameRe.MatchString(e.PluralName) {
		return newError(RulePluralName, join(path, "pluralName"), e.PluralName,
			"Plural name must be PascalCase (e.g., Products, UserProfiles)")
	}
	if !slugRe.MatchString(e.Slug) {
		return newError(RuleSlug, join(path, "slug"), e.Slug,
			"Slug must contain only letters, digits and hyphens")
	}

	seen := make(map[string]bool, len(e.Fields))
	for i, f := range e.Fields {
		fp := fmt.Sprintf("%s.fields[%d].name", path, i)
		if !fieldNameRe.MatchString(f.Name) {
			return newError(RuleFieldName, fp, f.Name, "Field name must be camelCase (e.g., name, categoryId)")
		}
		if types.IsCommonField(f.Name) {
			return newError(RuleReservedField, fp, f.Name, "Field name is reserved for a system field (id, createdAt, updatedAt)")
		}
		if seen[f.Name] {
			return newError(RuleDuplicateField, fp, f.Name, "Field name is declared more than once")
		}
		seen[f.Name] = true
	}

	if e.ListConfig != nil {
		if err := checkStruct(e.ListConfig, join(path, "listConfig"), RuleListConfig); err != nil {
			return err
		}
	}
	return nil
}

// Dashboard checks the dashboard layout: enumerated values, unique widget ids
// and that each widget carries exactly the payload its type needs.
func Dashboard(d types.DashboardConfig, path string) error {
	if err := checkStruct(&d, path, RuleDashboard); err != nil {
		return err
	}
	ids := make(map[string]bool, len(d.Widgets))
	for i, w := range d.Widgets {
		wp := fmt.Sprintf("%s.widgets[%d]", path, i)
		if ids[w.ID] {
			return newError(RuleDuplicateID, wp+".id", w.ID, "Widget id is used more than once")
		}
		ids[w.ID] = true
		if err := widgetPayload(w, wp); err != nil {
			return err
		}
	}
	return nil
}

func widgetPayload(w types.WidgetConfig, path string) error {
	var want string
	switch w.Type {
	case types.WidgetStatCard:
		want = "statConfig"
	case types.WidgetRecentList:
		want = "listConfig"
	case types.WidgetQuickActions:
		want = "actionsConfig"
	}

	present := []string{}
	if w.StatConfig != nil {
		present = append(present, "statConfig")
	}
	if w.ListConfig != nil {
		present = append(present, "listConfig")
	}
	if w.ActionsConfig != nil {
		present = append(present, "actionsConfig")
	}

	switch {
	case want == "" && len(present) > 0:
		return newError(RuleWidgetPayload, join(path, present[0]), string(w.Type),
			"Widget type takes no payload")
	case want != "" && (len(present) != 1 || present[0] != want):
		return newError(RuleWidgetPayload, join(path, want), string(w.Type),
			fmt.Sprintf("Widget type requires exactly one %s payload", want))
	}
	return nil
}

// checkStruct runs the tag validator and converts its first failure.
func checkStruct(v any, path, rule string) error {
	err := structs.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	fe := verrs[0]
	// Namespace is "<StructType>.<json path>"; drop the type.
	_, ns, _ := strings.Cut(fe.Namespace(), ".")
	return newError(rule, join(path, ns), fmt.Sprint(fe.Value()), tagMessage(fe))
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Value is required"
	case "oneof":
		return "Value must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "Value must be at least " + fe.Param()
	case "lte":
		return "Value must be at most " + fe.Param()
	default:
		return fmt.Sprintf("Value fails %q", fe.Tag())
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	if name == "" {
		return path
	}
	return path + "." + name
}
