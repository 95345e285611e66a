// Package normalize maps tool-specific findings into canonical issues.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/qualityscore/schema"
)

// Generic fallback texts.
const (
	GenericDescription = "Code quality rule violation."
	GenericImpact      = "Affects code quality and maintainability."
	GenericSuggestion  = "Check the rule and fix it as the linter recommends."
	PMDGenericFix      = "Review the rule and refactor as recommended."
	DuplicationFix     = "Extract the duplicated fragment into a shared function or utility (DRY)."
)

// Explanation is the human-readable side of a rule.
type Explanation struct {
	Description string
	Impact      string
	Suggestion  string
}

// extractor builds a specific suggestion from identifiers inside a raw message.
type extractor struct {
	pattern *regexp.Regexp
	format  string
}

// Catalog is an immutable rule lookup service. The zero value is not usable;
// build one with NewCatalog or DefaultCatalog.
type Catalog struct {
	explanations map[string]Explanation            // keyed by lowercase rule id
	suggestions  map[schema.Tool]map[string]string // keyed by exact rule id
	extractors   map[schema.Tool]map[string]extractor
	toolFallback map[schema.Tool]string
}

// NewCatalog copies the given tables into a new catalog.
func NewCatalog(explanations map[string]Explanation, suggestions map[schema.Tool]map[string]string) *Catalog {
	c := &Catalog{
		explanations: make(map[string]Explanation, len(explanations)),
		suggestions:  make(map[schema.Tool]map[string]string, len(suggestions)),
		extractors:   defaultExtractors(),
		toolFallback: map[schema.Tool]string{schema.PMDTool: PMDGenericFix},
	}
	for rule, e := range explanations {
		c.explanations[strings.ToLower(rule)] = e
	}
	for tool, table := range suggestions {
		inner := make(map[string]string, len(table))
		for rule, s := range table {
			inner[rule] = s
		}
		c.suggestions[tool] = inner
	}
	return c
}

// DefaultCatalog returns the built-in rule tables.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultExplanations, defaultSuggestions)
}

// Explain looks up a rule case-insensitively.
func (c *Catalog) Explain(rule string) (Explanation, bool) {
	e, ok := c.explanations[strings.ToLower(strings.TrimSpace(rule))]
	return e, ok
}

// Description resolves the explanation description. Rules without one get
// the generic rule-violation text, never the tool's raw message.
func (c *Catalog) Description(rule string) string {
	if e, ok := c.Explain(rule); ok && e.Description != "" {
		return e.Description
	}
	return GenericDescription
}

// Impact resolves the explanation impact, falling back to keyword matching on the rule name.
func (c *Catalog) Impact(rule string) string {
	if e, ok := c.Explain(rule); ok && e.Impact != "" {
		return e.Impact
	}
	return DefaultImpact(rule)
}

// Suggestion resolves remediation text in order: a message extractor, the
// tool table, the tool's inline fix, the rule explanation, a tool fallback,
// then the generic text.
func (c *Catalog) Suggestion(tool schema.Tool, rule, message, inline string) string {
	if ex, ok := c.extractors[tool][rule]; ok {
		if m := ex.pattern.FindStringSubmatch(message); m != nil {
			return fmt.Sprintf(ex.format, m[1])
		}
	}
	if s, ok := c.suggestions[tool][rule]; ok && s != "" {
		return s
	}
	if strings.TrimSpace(inline) != "" {
		return inline
	}
	if e, ok := c.Explain(rule); ok && e.Suggestion != "" {
		return e.Suggestion
	}
	if s, ok := c.toolFallback[tool]; ok {
		return s
	}
	return GenericSuggestion
}

// DefaultImpact derives an impact statement from keywords in a rule name.
func DefaultImpact(rule string) string {
	key := strings.ToLower(rule)
	switch {
	case strings.Contains(key, "unused"):
		return "Reduces code clarity and adds technical debt."
	case strings.Contains(key, "console"):
		return "Leftover logging can leak into production."
	case strings.Contains(key, "complex"):
		return "High complexity makes the code hard to maintain."
	case strings.Contains(key, "duplicate"):
		return "Duplication raises maintenance cost."
	case strings.Contains(key, "style"):
		return "Breaks the style guide and hurts consistency."
	default:
		return GenericImpact
	}
}

func defaultExtractors() map[schema.Tool]map[string]extractor {
	return map[schema.Tool]map[string]extractor{
		schema.ESLintTool: {
			"no-unused-vars": {regexp.MustCompile(`'(.+?)' is assigned a value but never used`), "Remove unused variable '%s'."},
		},
		schema.RuffTool: {
			"F401": {regexp.MustCompile("`(.+?)` imported but unused"), "Remove import '%s' if unused."},
			"F841": {regexp.MustCompile(`'(.+?)' is assigned to but never used`), "Remove variable '%s' if unused."},
		},
	}
}

var defaultExplanations = map[string]Explanation{
	"no-unused-vars": {
		Description: "A variable is declared but never used.",
		Impact:      "Clutters the code and adds technical debt.",
		Suggestion:  "Remove the variable or use it as intended.",
	},
	"no-console": {
		Description: "A console call is left in application code.",
		Impact:      "May leak sensitive logs or add logging noise.",
		Suggestion:  "Remove it or use a logger with a suitable level.",
	},
	"eqeqeq": {
		Description: "Loose equality with == instead of ===.",
		Impact:      "Implicit type coercion easily causes logic bugs.",
		Suggestion:  "Use === and !== for comparisons.",
	},
	"no-var": {
		Description: "var is used instead of let or const.",
		Impact:      "Hoisting is hard to reason about and breeds bugs.",
		Suggestion:  "Switch to let or const.",
	},
	"prefer-const": {
		Description: "A variable that never changes is declared with let.",
		Impact:      "Hides the fact that the binding is immutable.",
		Suggestion:  "Use const for bindings that never change.",
	},
	"no-shadow": {
		Description: "A variable shadows one from an outer scope.",
		Impact:      "Confuses scopes and causes logic errors.",
		Suggestion:  "Rename the variable to avoid shadowing.",
	},
	"no-undef": {
		Description: "A variable is used before it is declared.",
		Impact:      "May crash at runtime or produce wrong results.",
		Suggestion:  "Declare the variable or import the module before use.",
	},
	"no-debugger": {
		Description: "A debugger statement is left in the code.",
		Impact:      "Halts execution unexpectedly in production.",
		Suggestion:  "Remove debugger statements before committing.",
	},
	"complexity": {
		Description: "The function has high cyclomatic complexity.",
		Impact:      "Hard to read and test, with a higher risk of bugs.",
		Suggestion:  "Split it into smaller functions with fewer branches.",
	},
}

var defaultSuggestions = map[schema.Tool]map[string]string{
	schema.ESLintTool: {
		"no-unused-vars": "Remove the unused variable or use it as intended.",
		"no-console":     "Remove console calls or replace them with a proper logger.",
		"eqeqeq":         "Use '===' instead of '==' to avoid loose comparison.",
		"no-var":         "Replace var with let or const to avoid unexpected hoisting.",
		"prefer-const":   "Use const for bindings that never change.",
		"no-shadow":      "Rename the variable to avoid shadowing an outer scope.",
		"no-undef":       "Declare variables before using them.",
		"no-debugger":    "Remove the debugger statement before committing.",
	},
	schema.RuffTool: {
		"F401": "Remove the unused import.",
		"E501": "Split the long line to keep it readable.",
		"C901": "Refactor the complex function into smaller ones.",
		"B006": "Avoid mutable default argument values.",
		"W293": "Strip whitespace from blank lines.",
		"F841": "Remove the unused variable or use it as intended.",
	},
	schema.PMDTool: {
		"UnusedLocalVariable":    "Remove the unused local variable or use it as intended.",
		"AvoidDuplicateLiterals": "Extract the repeated literal into a constant.",
		"CyclomaticComplexity":   "Split the method to reduce its complexity.",
		"EmptyCatchBlock":        "Handle or log the exception in the catch block.",
		"GodClass":               "Break the class down by responsibility.",
	},
}
