package typemap

import (
	"testing"

	"github.com/matthewbaird/dashgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(name string, ft types.FieldType, required bool) types.FieldConfig {
	return types.FieldConfig{Name: name, Label: "Label", Type: ft, Required: required}
}

func TestOutputType(t *testing.T) {
	tests := []struct {
		name  string
		field types.FieldConfig
		want  string
	}{
		{"boolean required", field("active", types.FieldBoolean, true), "boolean"},
		{"boolean optional", field("active", types.FieldBoolean, false), "boolean | null"},
		{"number", field("price", types.FieldNumber, true), "number"},
		{"date is string", field("due", types.FieldDate, true), "string"},
		{"relation is string", field("categoryId", types.FieldRelation, false), "string | null"},
		{"unknown", field("legacy", types.FieldUnknown, false), "unknown | null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputType(tt.field))
		})
	}
}

func TestOutputType_Enum(t *testing.T) {
	f := field("status", types.FieldEnum, true)
	f.EnumValues = []string{"active", "inactive"}
	assert.Equal(t, "'active' | 'inactive'", OutputType(f))

	f.Required = false
	assert.Equal(t, "'active' | 'inactive' | null", OutputType(f))

	f.EnumValues = nil
	assert.Equal(t, "string | null", OutputType(f))
	assert.Equal(t, "string", RawOutputType(types.FieldEnum, []string{}))
}

func TestInputKind(t *testing.T) {
	want := map[types.FieldType]string{
		types.FieldString:   "text",
		types.FieldText:     "textarea",
		types.FieldNumber:   "number",
		types.FieldBoolean:  "checkbox",
		types.FieldDate:     "date",
		types.FieldDatetime: "datetime-local",
		types.FieldEmail:    "email",
		types.FieldURL:      "url",
		types.FieldEnum:     "select",
		types.FieldRelation: "select",
		types.FieldUnknown:  "text",
	}
	for ft, kind := range want {
		assert.Equal(t, kind, InputKind(ft), ft.String())
	}
}

func TestDefaultConstraints(t *testing.T) {
	s := DefaultConstraints(types.FieldString)
	require.NotNil(t, s.MaxLength)
	assert.Equal(t, 255, *s.MaxLength)

	tx := DefaultConstraints(types.FieldText)
	require.NotNil(t, tx.MaxLength)
	assert.Equal(t, 2000, *tx.MaxLength)

	n := DefaultConstraints(types.FieldNumber)
	require.NotNil(t, n.Min)
	assert.Equal(t, 0.0, *n.Min)

	assert.Equal(t, Constraints{}, DefaultConstraints(types.FieldBoolean))
}

func TestApplyDefaults_KeepsExplicit(t *testing.T) {
	f := types.FieldConfig{Name: "name", Type: types.FieldString, MaxLength: types.Ptr(40)}
	ApplyDefaults(&f)
	assert.Equal(t, 40, *f.MaxLength)
	assert.Nil(t, f.MinLength)

	n := types.FieldConfig{Name: "qty", Type: types.FieldNumber}
	ApplyDefaults(&n)
	require.NotNil(t, n.Min)
	assert.Equal(t, 0.0, *n.Min)
}

func TestRules_Order(t *testing.T) {
	f := types.FieldConfig{
		Name:      "name",
		Label:     "Product Name",
		Type:      types.FieldString,
		Required:  true,
		MinLength: types.Ptr(3),
		MaxLength: types.Ptr(100),
		Pattern:   "^[a-z]+$",
	}
	rules := Rules(f)
	kinds := make([]string, len(rules))
	for i, r := range rules {
		kinds[i] = r.Kind
	}
	assert.Equal(t, []string{"required", "minLength", "maxLength", "pattern"}, kinds)
	assert.Equal(t, "Product Name is required", rules[0].Message)
	assert.Equal(t, "Minimum 3 characters", rules[1].Message)
	assert.Equal(t, "Maximum 100 characters", rules[2].Message)
	assert.Equal(t, "Invalid format", rules[3].Message)
}

func TestRules_ZeroMinKept(t *testing.T) {
	f := types.FieldConfig{Name: "price", Label: "Price", Type: types.FieldNumber, Min: types.Ptr(0.0), MinLength: types.Ptr(0)}
	rules := Rules(f)
	require.Len(t, rules, 1)
	assert.Equal(t, "min", rules[0].Kind)
	assert.Equal(t, "Minimum value is 0", rules[0].Message)
}

func TestRules_ImpliedPatterns(t *testing.T) {
	email := Rules(types.FieldConfig{Name: "email", Type: types.FieldEmail})
	require.Len(t, email, 1)
	assert.Equal(t, EmailPattern, email[0].Value)
	assert.Equal(t, "i", email[0].Flags)
	assert.Equal(t, "Invalid email address", email[0].Message)

	url := Rules(types.FieldConfig{Name: "site", Type: types.FieldURL})
	require.Len(t, url, 1)
	assert.Equal(t, "Invalid URL", url[0].Message)

	custom := Rules(types.FieldConfig{Name: "email", Type: types.FieldEmail, Pattern: ".+@corp\\.com"})
	require.Len(t, custom, 1)
	assert.Equal(t, "Invalid format", custom[0].Message)
}

func TestRules_LabelFallback(t *testing.T) {
	rules := Rules(types.FieldConfig{Name: "isActive", Type: types.FieldBoolean, Required: true})
	require.Len(t, rules, 1)
	assert.Equal(t, "Is Active is required", rules[0].Message)
}

func TestRulesExpr(t *testing.T) {
	assert.Equal(t, "{}", RulesExpr(types.FieldConfig{Name: "notes", Type: types.FieldText}))

	price := types.FieldConfig{Name: "price", Label: "Price", Type: types.FieldNumber, Required: true, Min: types.Ptr(0.0), Max: types.Ptr(99.5)}
	assert.Equal(t,
		"{ required: 'Price is required', min: { value: 0, message: 'Minimum value is 0' }, max: { value: 99.5, message: 'Maximum value is 99.5' } }",
		RulesExpr(price))

	email := types.FieldConfig{Name: "email", Label: "Email", Type: types.FieldEmail}
	assert.Equal(t,
		`{ pattern: { value: /^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$/i, message: 'Invalid email address' } }`,
		RulesExpr(email))

	name := types.FieldConfig{Name: "name", Label: "Name", Type: types.FieldString, MaxLength: types.Ptr(50)}
	assert.Equal(t, "{ maxLength: { value: 50, message: 'Maximum 50 characters' } }", RulesExpr(name))
}

func TestRulesExpr_Escaping(t *testing.T) {
	owner := types.FieldConfig{Name: "owner", Label: "Customer's Name", Type: types.FieldString, Required: true}
	assert.Equal(t, `{ required: 'Customer\'s Name is required' }`, RulesExpr(owner))

	path := types.FieldConfig{Name: "path", Type: types.FieldString, Pattern: `^/api/v\d+/[a-z\/]+$`}
	assert.Equal(t,
		`{ pattern: { value: /^\/api\/v\d+\/[a-z\/]+$/, message: 'Invalid format' } }`,
		RulesExpr(path))

	site := types.FieldConfig{Name: "site", Type: types.FieldURL}
	assert.Equal(t, `{ pattern: { value: /^https?:\/\/.+/, message: 'Invalid URL' } }`, RulesExpr(site))
}

func TestMock_Values(t *testing.T) {
	tests := []struct {
		field types.FieldConfig
		index int
		want  any
	}{
		{types.FieldConfig{Name: "name", Type: types.FieldString}, 0, "Name 1"},
		{types.FieldConfig{Name: "productName", Type: types.FieldText}, 2, "ProductName 3"},
		{types.FieldConfig{Name: "price", Type: types.FieldNumber}, 0, 10},
		{types.FieldConfig{Name: "price", Type: types.FieldNumber}, 4, 50},
		{types.FieldConfig{Name: "active", Type: types.FieldBoolean}, 0, true},
		{types.FieldConfig{Name: "active", Type: types.FieldBoolean}, 1, false},
		{types.FieldConfig{Name: "due", Type: types.FieldDate}, 0, "2024-01-01"},
		{types.FieldConfig{Name: "due", Type: types.FieldDate}, 9, "2024-01-10"},
		{types.FieldConfig{Name: "due", Type: types.FieldDate}, 29, "2024-03-02"},
		{types.FieldConfig{Name: "at", Type: types.FieldDatetime}, 1, "2024-02-02T10:00:00Z"},
		{types.FieldConfig{Name: "email", Type: types.FieldEmail}, 2, "user3@example.com"},
		{types.FieldConfig{Name: "site", Type: types.FieldURL}, 0, "https://example.com/1"},
		{types.FieldConfig{Name: "status", Type: types.FieldEnum, EnumValues: []string{"a", "b"}}, 3, "b"},
		{types.FieldConfig{Name: "status", Type: types.FieldEnum}, 3, "option4"},
		{types.FieldConfig{Name: "categoryId", Type: types.FieldRelation}, 0, "rel-1"},
		{types.FieldConfig{Name: "legacy", Type: types.FieldUnknown}, 1, "value-2"},
	}
	for _, tt := range tests {
		t.Run(tt.field.Type.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Mock(tt.field, tt.index))
		})
	}
}

func TestMock_PureAndVariesByIndex(t *testing.T) {
	for _, ft := range types.FieldTypes() {
		f := types.FieldConfig{Name: "value", Type: ft}
		assert.Equal(t, Mock(f, 3), Mock(f, 3), ft.String())
		if ft != types.FieldBoolean {
			assert.NotEqual(t, Mock(f, 0), Mock(f, 1), ft.String())
		}
	}
}

func TestMock_NegativeIndex(t *testing.T) {
	f := types.FieldConfig{Name: "due", Type: types.FieldDate}
	assert.Equal(t, Mock(f, 0), Mock(f, -5))
}

func TestMockLiteral(t *testing.T) {
	assert.Equal(t, `"Name 1"`, MockLiteral(types.FieldConfig{Name: "name", Type: types.FieldString}, 0))
	assert.Equal(t, `20`, MockLiteral(types.FieldConfig{Name: "qty", Type: types.FieldNumber}, 1))
	assert.Equal(t, `false`, MockLiteral(types.FieldConfig{Name: "on", Type: types.FieldBoolean}, 1))
}

func TestDescribe(t *testing.T) {
	rows := Describe()
	require.Len(t, rows, len(types.FieldTypes()))
	assert.Equal(t, "string", rows[0].Type)
	assert.Equal(t, "text", rows[0].InputKind)

	byType := map[string]TypeInfo{}
	for _, r := range rows {
		byType[r.Type] = r
	}
	assert.Equal(t, "select", byType["relation"].InputKind)
	assert.Equal(t, 10, byType["number"].MockExample)
	assert.Equal(t, "option1", byType["enum"].MockExample)
}
