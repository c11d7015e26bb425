package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() ProjectConfig {
	return ProjectConfig{
		Name: "shop-admin",
		Modules: Modules{
			Auth:      true,
			Dashboard: true,
			Crud: []EntityConfig{
				{
					Name: "Product",
					Fields: []FieldConfig{
						{Name: "productName", Type: FieldString, Required: true, MaxLength: Ptr(120)},
						{Name: "price", Type: FieldNumber, Min: Ptr(0.0)},
						{Name: "status", Type: FieldEnum, EnumValues: []string{"draft", "live"}},
					},
					Features: &EntityFeatures{List: true, Detail: true, Create: true, Edit: true},
				},
				{Name: "Category"},
			},
		},
	}
}

func TestFieldType_TextRoundTrip(t *testing.T) {
	for _, ft := range FieldTypes() {
		b, err := ft.MarshalText()
		require.NoError(t, err)

		var got FieldType
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, ft, got)
		assert.True(t, got.Known())
	}
}

func TestFieldType_UnknownNameDecodes(t *testing.T) {
	var f FieldConfig
	err := json.Unmarshal([]byte(`{"name":"legacy","type":"currency"}`), &f)
	require.NoError(t, err)
	assert.Equal(t, FieldUnknown, f.Type)
	assert.False(t, f.Type.Known())
	assert.Equal(t, "unknown", f.Type.String())
}

func TestFieldType_JSON(t *testing.T) {
	b, err := json.Marshal(FieldConfig{Name: "email", Type: FieldEmail})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"email"`)
}

func TestResolve_ProjectDefaults(t *testing.T) {
	r := testProject().Resolve()

	assert.Equal(t, "Shop Admin", r.DisplayName)
	assert.Equal(t, DefaultDescription, r.Description)
	assert.Equal(t, DefaultAPIBaseURL, r.APIBaseURL)

	require.NotNil(t, r.Dashboard)
	assert.Equal(t, "Dashboard", r.Dashboard.Title)
	assert.Equal(t, "grid-3", r.Dashboard.Layout)
	require.Len(t, r.Dashboard.Widgets, 1)
	assert.Equal(t, "welcome", r.Dashboard.Widgets[0].ID)
}

func TestResolve_EntityDefaults(t *testing.T) {
	r := testProject().Resolve()
	product := r.Entity("Product")
	require.NotNil(t, product)

	assert.Equal(t, "Products", product.PluralName)
	assert.Equal(t, "products", product.Slug)
	assert.Equal(t, "Product Name", product.Field("productName").Label)
	assert.False(t, product.Features.Delete)
	assert.Equal(t, DefaultPageSize, product.ListConfig.PageSize)
	assert.Equal(t, SortConfig{Field: "createdAt", Direction: SortDesc}, product.ListConfig.DefaultSort)

	category := r.Entity("Category")
	require.NotNil(t, category)
	assert.Equal(t, "Categories", category.PluralName)
	assert.Equal(t, "categories", category.Slug)
	assert.Equal(t, DefaultEntityFeatures(), *category.Features)
	assert.NotNil(t, category.ListConfig.SearchableFields)
}

func TestResolve_KeepsExplicitValues(t *testing.T) {
	e := EntityConfig{
		Name:       "UserProfile",
		PluralName: "UserProfiles",
		Slug:       "people",
		ListConfig: &ListConfig{PageSize: 50, DefaultSort: SortConfig{Direction: SortAsc}},
	}.Resolve()

	assert.Equal(t, "people", e.Slug)
	assert.Equal(t, 50, e.ListConfig.PageSize)
	assert.Equal(t, SortConfig{Field: DefaultSortField, Direction: SortAsc}, e.ListConfig.DefaultSort)
}

func TestResolve_DoesNotMutateReceiver(t *testing.T) {
	p := testProject()
	p.Dashboard = &DashboardConfig{
		Widgets: []WidgetConfig{{ID: "recent", Type: WidgetRecentList, ListConfig: &RecentListConfig{Entity: "Product"}}},
	}

	r := p.Resolve()
	r.Modules.Crud[0].Fields[0].Name = "changed"
	*r.Modules.Crud[0].Fields[0].MaxLength = 1
	r.Modules.Crud[0].Fields[2].EnumValues[0] = "changed"

	assert.Equal(t, "", p.DisplayName)
	assert.Equal(t, "", p.Modules.Crud[0].PluralName)
	assert.Equal(t, "productName", p.Modules.Crud[0].Fields[0].Name)
	assert.Equal(t, 120, *p.Modules.Crud[0].Fields[0].MaxLength)
	assert.Equal(t, "draft", p.Modules.Crud[0].Fields[2].EnumValues[0])
	assert.Nil(t, p.Modules.Crud[1].Features)

	assert.Equal(t, "", p.Dashboard.Title)
	assert.Equal(t, 0, p.Dashboard.Widgets[0].ListConfig.Limit)
	assert.Equal(t, DefaultRecentLimit, r.Dashboard.Widgets[0].ListConfig.Limit)
	assert.Equal(t, "md", r.Dashboard.Widgets[0].Size)
}

func TestResolve_Idempotent(t *testing.T) {
	once := testProject().Resolve()
	twice := once.Resolve()
	assert.Equal(t, once, twice)
}

func TestResolve_NoDashboardWhenModuleOff(t *testing.T) {
	p := testProject()
	p.Modules.Dashboard = false
	assert.Nil(t, p.Resolve().Dashboard)
}

func TestCommonFields(t *testing.T) {
	names := []string{}
	for _, f := range CommonFields() {
		names = append(names, f.Name)
		assert.True(t, IsCommonField(f.Name))
	}
	assert.Equal(t, []string{"id", "createdAt", "updatedAt"}, names)
	assert.False(t, IsCommonField("name"))
}

func TestProjectConfig_JSONShape(t *testing.T) {
	raw := `{
		"name": "shop-admin",
		"apiBaseUrl": "https://api.example.com",
		"modules": {"auth": false, "dashboard": false, "crud": [
			{"name": "Order", "fields": [{"name": "total", "type": "number", "required": true, "min": 0}]}
		]}
	}`
	var p ProjectConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "https://api.example.com", p.APIBaseURL)
	assert.Equal(t, []string{"Order"}, p.EntityNames())
	assert.True(t, p.HasCrud())
	total := p.Entity("Order").Field("total")
	require.NotNil(t, total)
	assert.Equal(t, FieldNumber, total.Type)
	require.NotNil(t, total.Min)
	assert.Equal(t, 0.0, *total.Min)
	assert.Nil(t, p.Entity("Missing"))
}
