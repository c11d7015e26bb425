package types

import "slices"

// WidgetType names a dashboard widget kind.
type WidgetType string

const (
	WidgetStatCard         WidgetType = "stat-card"
	WidgetChartPlaceholder WidgetType = "chart-placeholder"
	WidgetRecentList       WidgetType = "recent-list"
	WidgetQuickActions     WidgetType = "quick-actions"
)

// DashboardConfig is the layout of the generated dashboard page.
type DashboardConfig struct {
	Title   string         `json:"title" validate:"required"`
	Layout  string         `json:"layout" validate:"oneof=grid-2 grid-3 grid-4"`
	Widgets []WidgetConfig `json:"widgets" validate:"dive"`
}

// WidgetConfig is one dashboard tile. Exactly one payload is set and it
// matches Type; chart placeholders carry none.
type WidgetConfig struct {
	ID    string     `json:"id" validate:"required"`
	Type  WidgetType `json:"type" validate:"oneof=stat-card chart-placeholder recent-list quick-actions"`
	Title string     `json:"title"`
	Size  string     `json:"size" validate:"oneof=sm md lg"`

	StatConfig    *StatConfig       `json:"statConfig,omitempty"`
	ListConfig    *RecentListConfig `json:"listConfig,omitempty"`
	ActionsConfig *ActionsConfig    `json:"actionsConfig,omitempty"`
}

// StatConfig is the payload of a stat-card widget.
type StatConfig struct {
	Label         string `json:"label"`
	ValueEndpoint string `json:"valueEndpoint,omitempty"`
	MockValue     any    `json:"mockValue"` // string or number
	Icon          string `json:"icon,omitempty"`
	Trend         string `json:"trend,omitempty" validate:"omitempty,oneof=up down neutral"`
}

// RecentListConfig is the payload of a recent-list widget.
type RecentListConfig struct {
	Entity        string   `json:"entity" validate:"required"`
	DisplayFields []string `json:"displayFields"`
	Limit         int      `json:"limit" validate:"gte=1,lte=100"`
}

// ActionsConfig is the payload of a quick-actions widget.
type ActionsConfig struct {
	Actions []QuickAction `json:"actions" validate:"dive"`
}

// QuickAction is a shortcut button on the dashboard.
type QuickAction struct {
	Label string `json:"label" validate:"required"`
	Route string `json:"route" validate:"required"`
	Icon  string `json:"icon,omitempty"`
}

// DefaultDashboard is used when the dashboard module is enabled without a
// configured layout.
func DefaultDashboard() DashboardConfig {
	return DashboardConfig{
		Title:  "Dashboard",
		Layout: "grid-3",
		Widgets: []WidgetConfig{
			{
				ID:    "welcome",
				Type:  WidgetStatCard,
				Title: "Welcome",
				Size:  "lg",
				StatConfig: &StatConfig{
					Label:     "Get started by exploring your data",
					MockValue: "",
				},
			},
		},
	}
}

func (d *DashboardConfig) clone() *DashboardConfig {
	out := *d
	out.Widgets = make([]WidgetConfig, len(d.Widgets))
	for i, w := range d.Widgets {
		cw := w
		if w.StatConfig != nil {
			s := *w.StatConfig
			cw.StatConfig = &s
		}
		if w.ListConfig != nil {
			l := *w.ListConfig
			l.DisplayFields = slices.Clone(w.ListConfig.DisplayFields)
			cw.ListConfig = &l
		}
		if w.ActionsConfig != nil {
			a := ActionsConfig{Actions: slices.Clone(w.ActionsConfig.Actions)}
			cw.ActionsConfig = &a
		}
		out.Widgets[i] = cw
	}
	return &out
}

func (d *DashboardConfig) applyDefaults() {
	if d.Title == "" {
		d.Title = "Dashboard"
	}
	if d.Layout == "" {
		d.Layout = "grid-3"
	}
	for i := range d.Widgets {
		w := &d.Widgets[i]
		if w.Size == "" {
			w.Size = "md"
		}
		if w.ListConfig != nil && w.ListConfig.Limit == 0 {
			w.ListConfig.Limit = DefaultRecentLimit
		}
	}
}
