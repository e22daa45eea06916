// Package rules bundles the built-in leapcheck rules.
//
// Rules are organized by category:
//   - modernize: version-aware rules suggesting newer features (GM01-GM04)
//   - style: version-independent style rules (GS01-GS03)
//
// To register all rules with the default lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/leapcheck/pkg/lint/rules"
//
// Individual categories can also be imported:
//
//	import _ "github.com/leapstack-labs/leapcheck/pkg/lint/rules/modernize"
package rules
