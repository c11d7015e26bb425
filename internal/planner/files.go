package planner

import (
	"strings"

	"github.com/matthewbaird/dashgen/internal/types"
)

// file maps a target path (relative to the project root) to a template path
// (relative to the template set). Entity files use the placeholders {slug},
// {Name} and {Plural}.
type file struct {
	target   string
	template string
}

// same is a file whose target mirrors its template path.
func same(path string) file { return file{target: path, template: path} }

// ── Base project ─────────────────────────────────────────────────────────────

var baseFiles = []file{
	// project files
	{"package.json", "base/package.json"},
	{"vite.config.ts", "base/vite.config.ts"},
	{"tsconfig.json", "base/tsconfig.json"},
	{"tsconfig.node.json", "base/tsconfig.node.json"},
	{"tailwind.config.cjs", "base/tailwind.config.cjs"},
	{"postcss.config.cjs", "base/postcss.config.cjs"},
	{"index.html", "base/index.html"},
	{".env.example", "base/.env.example"},
	{".gitignore", "base/.gitignore"},
	{"README.md", "base/README.md"},

	// entry
	same("src/main.tsx"),
	same("src/App.tsx"),
	same("src/router.tsx"),
	same("src/index.css"),
	same("src/vite-env.d.ts"),

	// api layer
	same("src/api/client.ts"),
	same("src/api/hooks.ts"),
	same("src/api/endpoints.ts"),

	// stores
	same("src/stores/authStore.ts"),
	same("src/stores/uiStore.ts"),

	// global types
	same("src/types/auth.ts"),
	same("src/types/api.ts"),

	// utils
	same("src/utils/cn.ts"),
	same("src/utils/format.ts"),
	same("src/utils/validation.ts"),

	// common components
	{"src/components/common/Button.tsx", "src/components/ui/Button.tsx"},
	{"src/components/common/Input.tsx", "src/components/ui/Input.tsx"},
	{"src/components/common/Select.tsx", "src/components/ui/Select.tsx"},
	{"src/components/common/Checkbox.tsx", "src/components/ui/Checkbox.tsx"},
	{"src/components/common/Badge.tsx", "src/components/ui/Badge.tsx"},
	{"src/components/common/Card.tsx", "src/components/ui/Card.tsx"},
	{"src/components/common/Modal.tsx", "src/components/ui/Modal.tsx"},
	{"src/components/common/Spinner.tsx", "src/components/ui/Spinner.tsx"},
	same("src/components/common/LoadingState.tsx"),
	{"src/components/common/DataTable.tsx", "src/components/tables/DataTable.tsx"},
	{"src/components/common/TablePagination.tsx", "src/components/tables/TablePagination.tsx"},
	{"src/components/common/TableSearch.tsx", "src/components/tables/TableSearch.tsx"},
	{"src/components/common/FormField.tsx", "src/components/forms/FormField.tsx"},
	{"src/components/common/FormSection.tsx", "src/components/forms/FormSection.tsx"},
	{"src/components/common/FormActions.tsx", "src/components/forms/FormActions.tsx"},

	// layout
	same("src/components/layout/AppLayout.tsx"),
	same("src/components/layout/Sidebar.tsx"),
	same("src/components/layout/Header.tsx"),
	same("src/components/layout/PageHeader.tsx"),
	same("src/components/layout/ProtectedRoute.tsx"),

	same("src/pages/NotFoundPage.tsx"),
}

// ── Modules ──────────────────────────────────────────────────────────────────

var authFiles = []file{
	same("src/features/auth/pages/LoginPage/LoginPage.tsx"),
	same("src/features/auth/pages/LoginPage/useLoginPage.ts"),
	same("src/features/auth/pages/LoginPage/LoginPage.types.ts"),
	{"src/features/auth/hooks/useAuth.ts", "src/hooks/useAuth.ts"},
}

var dashboardFiles = []file{
	same("src/features/dashboard/pages/DashboardPage/DashboardPage.tsx"),
	same("src/features/dashboard/pages/DashboardPage/useDashboardPage.ts"),
	same("src/features/dashboard/pages/DashboardPage/DashboardPage.types.ts"),
	same("src/features/dashboard/components/StatCard/StatCard.tsx"),
	same("src/features/dashboard/components/StatCard/StatCard.types.ts"),
	same("src/features/dashboard/components/RecentList/RecentList.tsx"),
	same("src/features/dashboard/components/RecentList/RecentList.types.ts"),
	same("src/features/dashboard/components/QuickActions/QuickActions.tsx"),
	same("src/features/dashboard/components/QuickActions/QuickActions.types.ts"),
}

// ── Entities ─────────────────────────────────────────────────────────────────

// page is one CRUD page bundle, emitted only when its feature is enabled.
type page struct {
	kind    string // "List", "Detail", "Create", "Edit"
	enabled func(types.EntityFeatures) bool
}

var pages = []page{
	{"List", func(f types.EntityFeatures) bool { return f.List }},
	{"Detail", func(f types.EntityFeatures) bool { return f.Detail }},
	{"Create", func(f types.EntityFeatures) bool { return f.Create }},
	{"Edit", func(f types.EntityFeatures) bool { return f.Edit }},
}

// bundle returns the page, page hook and page types files of one page.
func (p page) bundle() []file {
	dir := "src/features/{slug}/pages/{Name}" + p.kind + "Page/"
	tdir := "src/features/entity/pages/Entity" + p.kind + "Page/"
	return []file{
		{dir + "{Name}" + p.kind + "Page.tsx", tdir + "Entity" + p.kind + "Page.tsx"},
		{dir + "use{Name}" + p.kind + "Page.ts", tdir + "useEntity" + p.kind + "Page.ts"},
		{dir + "{Name}" + p.kind + "Page.types.ts", tdir + "Entity" + p.kind + "Page.types.ts"},
	}
}

var entityTypeFile = file{"src/types/{slug}.ts", "src/types/entity.ts"}

var entityTrailingFiles = []file{
	{"src/features/{slug}/hooks/use{Plural}.ts", "src/features/entity/hooks/useEntity.ts"},
	{"src/api/contracts/{slug}.contract.ts", "src/api/contracts/entity.contract.ts"},
}

var mockDataFile = file{"src/mocks/{slug}.json", "src/mocks/entity.json"}

// entityFiles returns the files of one entity in emission order: type
// definition, enabled page bundles, hook, API contract, mock data.
func entityFiles(features types.EntityFeatures) []file {
	out := []file{entityTypeFile}
	for _, p := range pages {
		if p.enabled(features) {
			out = append(out, p.bundle()...)
		}
	}
	out = append(out, entityTrailingFiles...)
	return append(out, mockDataFile)
}

func (f file) expand(e types.EntityConfig) file {
	r := strings.NewReplacer("{slug}", e.Slug, "{Name}", e.Name, "{Plural}", e.PluralName)
	return file{target: r.Replace(f.target), template: f.template}
}

// ── Aggregation ──────────────────────────────────────────────────────────────

// aggregateFiles depend on the full entity set and come last.
var aggregateFiles = []file{
	same("src/mocks/handlers.ts"),
	same("src/config/navigation.ts"),
}
