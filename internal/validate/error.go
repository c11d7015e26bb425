package validate

import "fmt"

// Rule names carried by Error.
const (
	RuleProjectName    = "project_name"
	RuleEntityName     = "entity_name"
	RulePluralName     = "plural_name"
	RuleSlug           = "slug"
	RuleFieldName      = "field_name"
	RuleDuplicateField = "duplicate_field"
	RuleReservedField  = "reserved_field"
	RuleListConfig     = "list_config"
	RuleDashboard      = "dashboard"
	RuleWidgetPayload  = "widget_payload"
	RuleDuplicateID    = "duplicate_widget_id"
)

// Error is a rejected configuration value. Path locates the value in the
// configuration document ("modules.crud[1].fields[0].name").
type Error struct {
	Rule    string
	Path    string
	Value   string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (got %q)", e.Value)
	}
	return msg
}

func newError(rule, path, value, msg string) *Error {
	return &Error{Rule: rule, Path: path, Value: value, Message: msg}
}

// Levenshtein computes the edit distance between two strings.
func Levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = curr
	}
	return prev[lb]
}

// Suggest returns the candidate closest to input within maxDist edits, or ""
// when none is close enough. Ties keep the earlier candidate.
func Suggest(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1
	for _, c := range candidates {
		if d := Levenshtein(input, c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist <= maxDist {
		return best
	}
	return ""
}
