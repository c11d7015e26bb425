package planner

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/matthewbaird/dashgen/internal/types"
	"github.com/matthewbaird/dashgen/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shopAdmin builds the shop-admin project with a single Product entity whose
// delete feature is off.
func shopAdmin() types.ProjectConfig {
	return types.ProjectConfig{
		Name: "shop-admin",
		Modules: types.Modules{
			Auth:      true,
			Dashboard: true,
			Crud: []types.EntityConfig{
				{
					Name: "Product",
					Fields: []types.FieldConfig{
						{Name: "name", Type: types.FieldString, Required: true, ShowInList: true, ShowInDetail: true, ShowInForm: true},
						{Name: "price", Type: types.FieldNumber, Required: true, Min: types.Ptr(0.0), ShowInList: true, ShowInForm: true},
					},
					Features: &types.EntityFeatures{List: true, Detail: true, Create: true, Edit: true, Delete: false},
				},
			},
		},
	}
}

func entity(name string) types.EntityConfig {
	return types.EntityConfig{
		Name:   name,
		Fields: []types.FieldConfig{{Name: "name", Type: types.FieldString, Required: true}},
	}
}

func TestPlan_ShopAdminEndToEnd(t *testing.T) {
	plan, err := New().Plan(shopAdmin())
	require.NoError(t, err)

	assert.Equal(t, "shop-admin", plan.Project)
	assert.Equal(t, len(baseFiles), plan.Count(ModuleBase))
	assert.Equal(t, len(authFiles), plan.Count(ModuleAuth))
	assert.Equal(t, len(dashboardFiles), plan.Count(ModuleDashboard))
	assert.Equal(t, len(aggregateFiles), plan.Count(ModuleAggregate))

	for _, p := range plan.Paths() {
		assert.True(t, strings.HasPrefix(p, "shop-admin/"), p)
	}

	var paths []string
	for _, a := range plan.EntityActions("Product") {
		paths = append(paths, a.TargetPath)
	}
	assert.Equal(t, []string{
		"shop-admin/src/types/products.ts",
		"shop-admin/src/features/products/pages/ProductListPage/ProductListPage.tsx",
		"shop-admin/src/features/products/pages/ProductListPage/useProductListPage.ts",
		"shop-admin/src/features/products/pages/ProductListPage/ProductListPage.types.ts",
		"shop-admin/src/features/products/pages/ProductDetailPage/ProductDetailPage.tsx",
		"shop-admin/src/features/products/pages/ProductDetailPage/useProductDetailPage.ts",
		"shop-admin/src/features/products/pages/ProductDetailPage/ProductDetailPage.types.ts",
		"shop-admin/src/features/products/pages/ProductCreatePage/ProductCreatePage.tsx",
		"shop-admin/src/features/products/pages/ProductCreatePage/useProductCreatePage.ts",
		"shop-admin/src/features/products/pages/ProductCreatePage/ProductCreatePage.types.ts",
		"shop-admin/src/features/products/pages/ProductEditPage/ProductEditPage.tsx",
		"shop-admin/src/features/products/pages/ProductEditPage/useProductEditPage.ts",
		"shop-admin/src/features/products/pages/ProductEditPage/ProductEditPage.types.ts",
		"shop-admin/src/features/products/hooks/useProducts.ts",
		"shop-admin/src/api/contracts/products.contract.ts",
		"shop-admin/src/mocks/products.json",
	}, paths)

	for _, p := range plan.Paths() {
		assert.NotContains(t, strings.ToLower(p), "deletepage", p)
	}

	first := plan.EntityActions("Product")[0]
	assert.Equal(t, "vite-react/src/types/entity.ts", first.TemplateID)
	view := first.Context[KeyEntity].(EntityView)
	assert.False(t, view.CanDelete)
	assert.Equal(t, "products", view.Slug)
	assert.Empty(t, plan.Warnings)
	assert.NotNil(t, plan.Warnings)
}

func TestPlan_ActionOrder(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud = append(cfg.Modules.Crud, entity("Category"))
	plan, err := New().Plan(cfg)
	require.NoError(t, err)

	var modules []Module
	for _, a := range plan.Actions {
		if len(modules) == 0 || modules[len(modules)-1] != a.Module {
			modules = append(modules, a.Module)
		}
	}
	assert.Equal(t, []Module{ModuleBase, ModuleAuth, ModuleDashboard, ModuleEntity, ModuleAggregate}, modules)

	var entities []string
	for _, a := range plan.Actions {
		if a.Module == ModuleEntity && (len(entities) == 0 || entities[len(entities)-1] != a.Entity) {
			entities = append(entities, a.Entity)
		}
	}
	assert.Equal(t, []string{"Product", "Category"}, entities)
	assert.Equal(t, "shop-admin/src/mocks/handlers.ts", plan.Actions[len(plan.Actions)-2].TargetPath)
}

func TestPlan_ZeroEntities(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud = nil

	plan, err := New().Plan(cfg)
	require.NoError(t, err)
	assert.Zero(t, plan.Count(ModuleEntity))
	assert.NotZero(t, plan.Count(ModuleBase))
	assert.Equal(t, len(authFiles), plan.Count(ModuleAuth))
	assert.Equal(t, len(dashboardFiles), plan.Count(ModuleDashboard))
	assert.Equal(t, false, plan.Actions[0].Context[KeyHasCrud])
	assert.Empty(t, plan.Actions[0].Context[KeyEntitySlugs])
}

func TestPlan_ModulesOff(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Auth = false
	cfg.Modules.Dashboard = false

	plan, err := New().Plan(cfg)
	require.NoError(t, err)
	assert.Zero(t, plan.Count(ModuleAuth))
	assert.Zero(t, plan.Count(ModuleDashboard))
	for _, p := range plan.Paths() {
		assert.NotContains(t, p, "features/auth/")
		assert.NotContains(t, p, "features/dashboard/")
	}
}

func TestPlan_FeaturePruning(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud[0].Features = &types.EntityFeatures{List: true, Delete: true}

	plan, err := New().Plan(cfg)
	require.NoError(t, err)
	actions := plan.EntityActions("Product")
	// type + list bundle + hook + contract + mock data
	assert.Len(t, actions, 1+3+3)
	for _, a := range actions {
		assert.NotContains(t, a.TargetPath, "DetailPage")
		assert.NotContains(t, a.TargetPath, "EditPage")
		assert.NotContains(t, a.TargetPath, "CreatePage")
	}
	assert.True(t, actions[0].Context[KeyEntity].(EntityView).CanDelete)
}

func TestPlan_EntityWithoutFields(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud = []types.EntityConfig{{Name: "Tag"}}

	plan, err := New().Plan(cfg)
	require.NoError(t, err)
	actions := plan.EntityActions("Tag")
	assert.Len(t, actions, 1+4*3+3)
	view := actions[0].Context[KeyEntity].(EntityView)
	assert.Empty(t, view.Fields)
	assert.NotNil(t, view.FormFields)
	assert.Len(t, view.SystemFields, 3)
}

func TestPlan_DuplicateEntityCollides(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud = append(cfg.Modules.Crud, entity("Product"))

	plan, err := New().Plan(cfg)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, errors.Is(err, ErrPathCollision))

	var cerr *CollisionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "shop-admin/src/types/products.ts", cerr.Path)
	assert.False(t, cerr.Existing)
}

func TestPlan_SlugCollisionIgnoresCase(t *testing.T) {
	cfg := shopAdmin()
	other := entity("Item")
	other.Slug = "Products"
	cfg.Modules.Crud = append(cfg.Modules.Crud, other)

	_, err := New().Plan(cfg)
	var cerr *CollisionError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "shop-admin/src/types/Products.ts", cerr.Path)
	assert.Equal(t, "vite-react/src/types/entity.ts", cerr.First)
}

// "Product" next to "product" would collide on every entity path, but the
// lowercase name is rejected before any path is planned.
func TestPlan_ProductAndLowercaseProductFailValidationBeforeCollision(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud = append(cfg.Modules.Crud, entity("product"))

	_, err := New().Plan(cfg)
	var verr *validate.Error
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, validate.RuleEntityName, verr.Rule)
	assert.False(t, errors.Is(err, ErrPathCollision))

	cfg = shopAdmin()
	cfg.Name = "Shop Admin"
	_, err = New().Plan(cfg)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validate.RuleProjectName, verr.Rule)
}

func TestPlan_SystemFieldNameRejected(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud[0].Fields = append(cfg.Modules.Crud[0].Fields,
		types.FieldConfig{Name: "id", Type: types.FieldNumber})

	_, err := New().Plan(cfg)
	var verr *validate.Error
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, validate.RuleReservedField, verr.Rule)

	item := entity("Item")
	item.Fields = append(item.Fields, types.FieldConfig{Name: "createdAt", Type: types.FieldDate})
	_, err = New().PlanEntity(shopAdmin(), item, nil)
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, validate.RuleReservedField, verr.Rule)
}

func TestPlan_DoesNotMutateConfig(t *testing.T) {
	cfg := shopAdmin()
	_, err := New().Plan(cfg)
	require.NoError(t, err)
	assert.Equal(t, shopAdmin(), cfg)
}

func TestPlan_Deterministic(t *testing.T) {
	a, err := New().Plan(shopAdmin())
	require.NoError(t, err)
	b, err := New().Plan(shopAdmin())
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestPlan_Concurrent(t *testing.T) {
	p := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plan, err := p.Plan(shopAdmin())
			assert.NoError(t, err)
			assert.NotEmpty(t, plan.Actions)
		}()
	}
	wg.Wait()
}

func TestPlan_ContextKeys(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud = append(cfg.Modules.Crud, entity("Category"))
	plan, err := New().Plan(cfg)
	require.NoError(t, err)

	for _, a := range plan.Actions {
		for _, k := range BaseContextKeys() {
			assert.Contains(t, a.Context, k, "%s missing %s", a.TargetPath, k)
		}
		if a.Module == ModuleEntity {
			v, ok := a.Context[KeyEntity].(EntityView)
			require.True(t, ok, a.TargetPath)
			assert.Equal(t, a.Entity, v.Name)
		} else {
			assert.NotContains(t, a.Context, KeyEntity, a.TargetPath)
		}
	}

	ctx := plan.Actions[0].Context
	assert.Equal(t, "ShopAdmin", ctx[KeyProjectNamePascal])
	assert.Equal(t, "shopAdmin", ctx[KeyProjectNameCamel])
	assert.Equal(t, "Shop Admin", ctx[KeyDisplayName])
	assert.Equal(t, []string{"products", "categories"}, ctx[KeyEntitySlugs])
	assert.NotNil(t, ctx[KeyDashboard])
}

func TestPlan_ContextsAreIndependent(t *testing.T) {
	plan, err := New().Plan(shopAdmin())
	require.NoError(t, err)
	plan.Actions[0].Context[KeyProjectName] = "changed"
	assert.Equal(t, "shop-admin", plan.Actions[1].Context[KeyProjectName])
}

func TestPlan_MockRecords(t *testing.T) {
	plan, err := New(WithMockRecords(3)).Plan(shopAdmin())
	require.NoError(t, err)

	var mock *Action
	for i, a := range plan.Actions {
		if a.TargetPath == "shop-admin/src/mocks/products.json" {
			mock = &plan.Actions[i]
		}
	}
	require.NotNil(t, mock)
	records := mock.Context[KeyMockRecords].([]map[string]any)
	require.Len(t, records, 3)
	assert.Equal(t, "Name 1", records[0]["name"])
	assert.Equal(t, 20, records[1]["price"])
	assert.Equal(t, "2024-01-01T10:00:00Z", records[0]["createdAt"])
	assert.NotEqual(t, records[0]["id"], records[1]["id"])

	again, err := New(WithMockRecords(3)).Plan(shopAdmin())
	require.NoError(t, err)
	for _, a := range again.Actions {
		if a.TargetPath == mock.TargetPath {
			assert.Equal(t, records, a.Context[KeyMockRecords])
		}
	}

	for _, a := range plan.EntityActions("Product") {
		if a.TargetPath != mock.TargetPath {
			assert.NotContains(t, a.Context, KeyMockRecords)
		}
	}
}

func TestPlan_Options(t *testing.T) {
	plan, err := New(WithTemplateSet("next-app"), WithRootDir(false)).Plan(shopAdmin())
	require.NoError(t, err)
	assert.Equal(t, "package.json", plan.Actions[0].TargetPath)
	assert.Equal(t, "next-app/base/package.json", plan.Actions[0].TemplateID)
}

func TestPlan_Navigation(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud = append(cfg.Modules.Crud, entity("Category"))
	plan, err := New().Plan(cfg)
	require.NoError(t, err)

	nav := plan.Actions[len(plan.Actions)-1]
	assert.Equal(t, "shop-admin/src/config/navigation.ts", nav.TargetPath)
	assert.Equal(t, []NavItem{
		{Label: "Products", Route: "/products", Slug: "products"},
		{Label: "Categories", Route: "/categories", Slug: "categories"},
	}, nav.Context[KeyNavigation])
}

func TestPlan_Warnings(t *testing.T) {
	cfg := shopAdmin()
	cfg.Modules.Crud[0].Fields = append(cfg.Modules.Crud[0].Fields,
		types.FieldConfig{Name: "status", Type: types.FieldEnum})

	plan, err := New().Plan(cfg)
	require.NoError(t, err)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, validate.WarnEnumWithoutValues, plan.Warnings[0].Code)

	view := plan.EntityActions("Product")[0].Context[KeyEntity].(EntityView)
	assert.Equal(t, "string | null", view.Fields[2].OutputType)
	assert.Equal(t, "string", view.Fields[2].RawOutputType)
}

func TestPlanEntity(t *testing.T) {
	cfg := shopAdmin()
	plan, err := New().PlanEntity(cfg, entity("Category"), nil)
	require.NoError(t, err)

	assert.Equal(t, plan.Count(ModuleEntity), len(plan.Actions))
	assert.Equal(t, "src/types/categories.ts", plan.Actions[0].TargetPath)
	entities := plan.Actions[0].Context[KeyEntities].([]EntityView)
	assert.Len(t, entities, 2)
	assert.Len(t, cfg.Modules.Crud, 1)
}

func TestPlanEntity_ExistingCollision(t *testing.T) {
	existing := []string{"shop-admin/src/types/categories.ts", "src/api/client.ts"}
	_, err := New().PlanEntity(shopAdmin(), entity("Category"), existing)

	var cerr *CollisionError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.True(t, cerr.Existing)
	assert.Equal(t, "src/types/categories.ts", cerr.Path)
	assert.Contains(t, err.Error(), "already exists")
}

func TestPlanEntity_SlugOfConfiguredEntity(t *testing.T) {
	item := entity("Item")
	item.Slug = "products"
	_, err := New().PlanEntity(shopAdmin(), item, nil)

	var cerr *CollisionError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.False(t, cerr.Existing)
	assert.Equal(t, "src/types/products.ts", cerr.Path)
	assert.Equal(t, "vite-react/src/types/entity.ts", cerr.First)

	merged := shopAdmin()
	merged.Modules.Crud = append(merged.Modules.Crud, item)
	_, err = New().Plan(merged)
	assert.ErrorIs(t, err, ErrPathCollision)
}

func TestPlanEntity_ReplacesSameName(t *testing.T) {
	replacement := entity("Product")
	replacement.Features = &types.EntityFeatures{List: true}
	plan, err := New().PlanEntity(shopAdmin(), replacement, nil)
	require.NoError(t, err)
	assert.Len(t, plan.Actions, 1+3+3)
}

func TestPlanEntity_InvalidName(t *testing.T) {
	_, err := New().PlanEntity(shopAdmin(), entity("order"), nil)
	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "modules.crud[1].name", verr.Path)
}

func TestCollisionError(t *testing.T) {
	err := checkCollisions([]Action{
		{TargetPath: "a/B.ts", TemplateID: "t1"},
		{TargetPath: "a/b.ts", TemplateID: "t2"},
	}, nil)
	var cerr *CollisionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "target path collision: a/b.ts is planned by both t1 and t2", cerr.Error())
	assert.NoError(t, checkCollisions(nil, []string{"x"}))
}

func TestModule_String(t *testing.T) {
	b, err := json.Marshal(Action{Module: ModuleAggregate})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"module":"aggregate"`)
	assert.Equal(t, "unknown", Module(99).String())
}

func TestPlan_Summaries(t *testing.T) {
	plan, err := New().Plan(shopAdmin())
	require.NoError(t, err)

	sums := plan.Summaries()
	require.Len(t, sums, len(plan.Actions))
	for i, a := range plan.Actions {
		assert.Equal(t, a.TargetPath, sums[i].TargetPath)
		assert.Equal(t, a.TemplateID, sums[i].TemplateID)
		assert.Equal(t, a.Module, sums[i].Module)
		assert.Equal(t, a.Entity, sums[i].Entity)
	}
}
