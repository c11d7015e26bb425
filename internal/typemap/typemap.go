// Package typemap maps semantic field types to their generated
// representations: the TypeScript output type, the form input kind, the
// validation rules derived from field constraints, and deterministic mock
// values.
//
// Everything here is a pure function of its arguments. Templates reach these
// functions through render.FuncMap; the planner calls them directly to build
// the precomputed field views it attaches to entity contexts.
package typemap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matthewbaird/dashgen/internal/naming"
	"github.com/matthewbaird/dashgen/internal/types"
)

// Input kinds, named after the HTML input types they render as.
const (
	InputText          = "text"
	InputTextarea      = "textarea"
	InputNumber        = "number"
	InputCheckbox      = "checkbox"
	InputDate          = "date"
	InputDatetimeLocal = "datetime-local"
	InputEmail         = "email"
	InputURL           = "url"
	InputSelect        = "select"
)

// Type-implied patterns added when a field declares no pattern of its own.
const (
	EmailPattern = `^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`
	URLPattern   = `^https?:\/\/.+`
)

// ── Output types ─────────────────────────────────────────────────────────────

// RawOutputType returns the TypeScript type for a field type without null
// handling. An enum with values becomes a union of string literals.
func RawOutputType(ft types.FieldType, enumValues []string) string {
	switch ft {
	case types.FieldString, types.FieldText, types.FieldDate, types.FieldDatetime,
		types.FieldEmail, types.FieldURL, types.FieldRelation:
		return "string"
	case types.FieldNumber:
		return "number"
	case types.FieldBoolean:
		return "boolean"
	case types.FieldEnum:
		if len(enumValues) == 0 {
			return "string"
		}
		quoted := make([]string, len(enumValues))
		for i, v := range enumValues {
			quoted[i] = "'" + v + "'"
		}
		return strings.Join(quoted, " | ")
	default:
		return "unknown"
	}
}

// OutputType returns the TypeScript type of a field. Optional fields are
// unioned with null.
func OutputType(f types.FieldConfig) string {
	t := RawOutputType(f.Type, f.EnumValues)
	if f.Required {
		return t
	}
	return t + " | null"
}

// ── Input kinds ──────────────────────────────────────────────────────────────

// InputKind returns the form input kind for a field type. Unknown types
// render as plain text inputs.
func InputKind(ft types.FieldType) string {
	switch ft {
	case types.FieldString:
		return InputText
	case types.FieldText:
		return InputTextarea
	case types.FieldNumber:
		return InputNumber
	case types.FieldBoolean:
		return InputCheckbox
	case types.FieldDate:
		return InputDate
	case types.FieldDatetime:
		return InputDatetimeLocal
	case types.FieldEmail:
		return InputEmail
	case types.FieldURL:
		return InputURL
	case types.FieldEnum, types.FieldRelation:
		return InputSelect
	default:
		return InputText
	}
}

// ── Default constraints ──────────────────────────────────────────────────────

// Constraints is a set of optional field constraints.
type Constraints struct {
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// DefaultConstraints returns the constraints a freshly scaffolded field of
// the given type starts with.
func DefaultConstraints(ft types.FieldType) Constraints {
	switch ft {
	case types.FieldString:
		return Constraints{MaxLength: types.Ptr(255)}
	case types.FieldText:
		return Constraints{MaxLength: types.Ptr(2000)}
	case types.FieldNumber:
		return Constraints{Min: types.Ptr(0.0)}
	default:
		return Constraints{}
	}
}

// ApplyDefaults fills the constraints of f that are unset with the defaults
// for its type.
func ApplyDefaults(f *types.FieldConfig) {
	d := DefaultConstraints(f.Type)
	if f.MinLength == nil {
		f.MinLength = d.MinLength
	}
	if f.MaxLength == nil {
		f.MaxLength = d.MaxLength
	}
	if f.Min == nil {
		f.Min = d.Min
	}
	if f.Max == nil {
		f.Max = d.Max
	}
}

// ── Validation rules ─────────────────────────────────────────────────────────

// Rule is one form validation rule. Value is true for "required", an int for
// the length rules, a float64 for min/max and the regular expression source
// for "pattern".
type Rule struct {
	Kind    string `json:"kind"`
	Value   any    `json:"value"`
	Flags   string `json:"flags,omitempty"`
	Message string `json:"message"`
}

// Rules derives the validation rules of a field in a fixed order: required,
// minLength, maxLength, min, max, pattern. Email and url fields get an
// implied pattern when they declare none. Zero lengths are treated as unset;
// a zero min or max is kept.
func Rules(f types.FieldConfig) []Rule {
	var rules []Rule
	if f.Required {
		rules = append(rules, Rule{Kind: "required", Value: true, Message: label(f) + " is required"})
	}
	if f.MinLength != nil && *f.MinLength != 0 {
		rules = append(rules, Rule{Kind: "minLength", Value: *f.MinLength,
			Message: fmt.Sprintf("Minimum %d characters", *f.MinLength)})
	}
	if f.MaxLength != nil && *f.MaxLength != 0 {
		rules = append(rules, Rule{Kind: "maxLength", Value: *f.MaxLength,
			Message: fmt.Sprintf("Maximum %d characters", *f.MaxLength)})
	}
	if f.Min != nil {
		rules = append(rules, Rule{Kind: "min", Value: *f.Min,
			Message: "Minimum value is " + formatNumber(*f.Min)})
	}
	if f.Max != nil {
		rules = append(rules, Rule{Kind: "max", Value: *f.Max,
			Message: "Maximum value is " + formatNumber(*f.Max)})
	}
	switch {
	case f.Pattern != "":
		rules = append(rules, Rule{Kind: "pattern", Value: f.Pattern, Message: "Invalid format"})
	case f.Type == types.FieldEmail:
		rules = append(rules, Rule{Kind: "pattern", Value: EmailPattern, Flags: "i", Message: "Invalid email address"})
	case f.Type == types.FieldURL:
		rules = append(rules, Rule{Kind: "pattern", Value: URLPattern, Message: "Invalid URL"})
	}
	return rules
}

// RulesExpr renders the rules of a field as the object literal passed to the
// generated form's register call, e.g.
//
//	{ required: 'Price is required', min: { value: 0, message: 'Minimum value is 0' } }
//
// A field without rules renders as {}.
func RulesExpr(f types.FieldConfig) string {
	rules := Rules(f)
	if len(rules) == 0 {
		return "{}"
	}
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = r.expr()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (r Rule) expr() string {
	var value string
	switch v := r.Value.(type) {
	case bool:
		return fmt.Sprintf("%s: %s", r.Kind, quote(r.Message))
	case int:
		value = strconv.Itoa(v)
	case float64:
		value = formatNumber(v)
	case string:
		value = regexLiteral(v, r.Flags)
	}
	return fmt.Sprintf("%s: { value: %s, message: %s }", r.Kind, value, quote(r.Message))
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// quote renders s as a single-quoted string literal.
func quote(s string) string {
	return "'" + quoteEscaper.Replace(s) + "'"
}

// regexLiteral renders src as a regular expression literal. Slashes that are
// not already escaped get a backslash so they do not end the literal.
func regexLiteral(src, flags string) string {
	var b strings.Builder
	b.WriteByte('/')
	escaped := false
	for _, r := range src {
		if r == '/' && !escaped {
			b.WriteByte('\\')
		}
		escaped = r == '\\' && !escaped
		b.WriteRune(r)
	}
	b.WriteByte('/')
	b.WriteString(flags)
	return b.String()
}

func label(f types.FieldConfig) string {
	if f.Label != "" {
		return f.Label
	}
	return naming.ToTitle(f.Name)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ── Mock values ──────────────────────────────────────────────────────────────

// Mock returns the deterministic mock value of a field for the record at
// index (0-based). The result is a string, int or bool. Negative indexes are
// treated as 0.
func Mock(f types.FieldConfig, index int) any {
	if index < 0 {
		index = 0
	}
	n := index + 1
	switch f.Type {
	case types.FieldString, types.FieldText:
		return fmt.Sprintf("%s %d", naming.ToPascal(f.Name), n)
	case types.FieldNumber:
		return n * 10
	case types.FieldBoolean:
		return index%2 == 0
	case types.FieldDate:
		return mockDate(index)
	case types.FieldDatetime:
		return mockDate(index) + "T10:00:00Z"
	case types.FieldEmail:
		return fmt.Sprintf("user%d@example.com", n)
	case types.FieldURL:
		return fmt.Sprintf("https://example.com/%d", n)
	case types.FieldEnum:
		if len(f.EnumValues) == 0 {
			return fmt.Sprintf("option%d", n)
		}
		return f.EnumValues[index%len(f.EnumValues)]
	case types.FieldRelation:
		return fmt.Sprintf("rel-%d", n)
	default:
		return fmt.Sprintf("value-%d", n)
	}
}

func mockDate(index int) string {
	return fmt.Sprintf("2024-0%d-%02d", index%9+1, index%28+1)
}

// MockLiteral returns Mock rendered as a JSON literal ("\"Name 1\"", "10",
// "true").
func MockLiteral(f types.FieldConfig, index int) string {
	b, _ := json.Marshal(Mock(f, index)) // strings, ints and bools always marshal
	return string(b)
}

// ── Registry table ───────────────────────────────────────────────────────────

// TypeInfo describes how one field type is generated.
type TypeInfo struct {
	Type        string      `json:"type"`
	OutputType  string      `json:"outputType"`
	InputKind   string      `json:"inputKind"`
	Defaults    Constraints `json:"defaults"`
	MockExample any         `json:"mockExample"`
}

// Describe returns one row per known field type, in declaration order.
func Describe() []TypeInfo {
	all := types.FieldTypes()
	out := make([]TypeInfo, len(all))
	for i, ft := range all {
		sample := types.FieldConfig{Name: "example", Type: ft, Required: true}
		out[i] = TypeInfo{
			Type:        ft.String(),
			OutputType:  RawOutputType(ft, nil),
			InputKind:   InputKind(ft),
			Defaults:    DefaultConstraints(ft),
			MockExample: Mock(sample, 0),
		}
	}
	return out
}
