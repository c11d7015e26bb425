package render

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"text/template"

	"github.com/matthewbaird/dashgen/internal/naming"
	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/typemap"
	"github.com/matthewbaird/dashgen/internal/types"
)

// FuncMap returns the template helpers. A new map is built on each call;
// every helper is a pure function.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// case conversion
		"camelCase":    naming.ToCamel,
		"pascalCase":   naming.ToPascal,
		"kebabCase":    naming.ToKebab,
		"snakeCase":    naming.ToSnake,
		"constantCase": naming.ToConstant,
		"lowerCase":    naming.ToLower,
		"upperCase":    naming.ToUpper,
		"titleCase":    naming.ToTitle,
		"pluralize":    naming.Pluralize,
		"singularize":  naming.Singularize,

		// lists
		"join":     join,
		"first":    first,
		"last":     last,
		"includes": includes,

		// type mapping
		"tsType":          tsType,
		"tsTypeRaw":       tsTypeRaw,
		"inputType":       inputType,
		"validationRules": validationRules,
		"mockValue":       mockValue,

		// strings and code
		"quote":           func(s string) string { return "'" + s + "'" },
		"doubleQuote":     func(s string) string { return `"` + s + `"` },
		"currency":        currency,
		"indent":          func(n int) string { return strings.Repeat("  ", max(n, 0)) },
		"json":            toJSON,
		"importStatement": func(name, path string) string { return fmt.Sprintf("import { %s } from '%s';", name, path) },
		"comment":         func(s string) string { return "// " + s },
		"blockComment":    func(s string) string { return "/* " + s + " */" },
		"newline":         func() string { return "\n" },
	}
}

// field normalizes the field arguments helpers accept.
func field(v any) (types.FieldConfig, error) {
	switch f := v.(type) {
	case types.FieldConfig:
		return f, nil
	case *types.FieldConfig:
		if f == nil {
			return types.FieldConfig{}, fmt.Errorf("nil field")
		}
		return *f, nil
	case planner.FieldView:
		ft, _ := types.ParseFieldType(f.Type)
		return types.FieldConfig{
			Name:       f.Name,
			Label:      f.Label,
			Type:       ft,
			Required:   f.Required,
			EnumValues: f.EnumValues,
		}, nil
	default:
		return types.FieldConfig{}, fmt.Errorf("expected a field, got %T", v)
	}
}

func tsType(v any) (string, error) {
	if fv, ok := v.(planner.FieldView); ok {
		return fv.OutputType, nil
	}
	f, err := field(v)
	if err != nil {
		return "", err
	}
	return typemap.OutputType(f), nil
}

func tsTypeRaw(ft string, enumValues []string) string {
	t, _ := types.ParseFieldType(ft)
	return typemap.RawOutputType(t, enumValues)
}

func inputType(ft string) string {
	t, _ := types.ParseFieldType(ft)
	return typemap.InputKind(t)
}

func validationRules(v any) (string, error) {
	if fv, ok := v.(planner.FieldView); ok {
		return fv.RulesExpr, nil
	}
	f, err := field(v)
	if err != nil {
		return "", err
	}
	return typemap.RulesExpr(f), nil
}

// mockValue renders the mock value as a literal, so strings come out quoted.
func mockValue(v any, index int) (string, error) {
	f, err := field(v)
	if err != nil {
		return "", err
	}
	return typemap.MockLiteral(f, index), nil
}

func currency(v any) any {
	switch n := v.(type) {
	case int:
		return fmt.Sprintf("$%.2f", float64(n))
	case float64:
		return fmt.Sprintf("$%.2f", n)
	default:
		return v
	}
}

func toJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// strs converts a []string or []any argument; anything else yields nil.
func strs(v any) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, len(l))
		for i, e := range l {
			out[i] = fmt.Sprint(e)
		}
		return out
	default:
		return nil
	}
}

func join(v any, sep ...string) string {
	s := ", "
	if len(sep) > 0 {
		s = sep[0]
	}
	return strings.Join(strs(v), s)
}

func first(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return nil
	}
	return rv.Index(0).Interface()
}

func last(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Len() == 0 {
		return nil
	}
	return rv.Index(rv.Len() - 1).Interface()
}

func includes(v any, s string) bool {
	return slices.Contains(strs(v), s)
}
