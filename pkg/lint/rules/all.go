package rules

import (
	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/lint/rules/modernize"
	"github.com/leapstack-labs/leapcheck/pkg/lint/rules/style"
)

// Importing the rule subpackages above also runs their init() functions,
// which register every rule with the default registry.

// New returns fresh instances of every built-in rule. It is the check
// factory for parallel scans.
func New() []lint.Check {
	var out []lint.Check
	out = append(out, modernize.New()...)
	out = append(out, style.New()...)
	return out
}
