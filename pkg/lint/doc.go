// Package lint defines the check contract and the version-gated registry at the
// heart of leapcheck.
//
// # Checks
//
// A check subscribes to node kinds and is notified during a single traversal
// of each file:
//
//	type Check interface {
//		ID() string
//		NodesToVisit() []syntax.Kind
//		StartFile(fc *FileContext) error
//		VisitNode(fc *FileContext, n ast.Node) error
//		EndFile(fc *FileContext) error
//	}
//
// Embed Base to get metadata accessors and no-op hooks:
//
//	var emptyBlock = lint.RuleDef{
//		ID:          "GS01",
//		Name:        "style.empty_block",
//		Group:       "style",
//		Description: "Empty blocks hide missing logic.",
//		Severity:    lint.SeverityWarning,
//	}
//
//	type EmptyBlock struct{ lint.Base }
//
//	func NewEmptyBlock() *EmptyBlock { return &EmptyBlock{Base: lint.NewBase(emptyBlock)} }
//
// # Version gating
//
// A check that only makes sense from a given Go release on also implements
// VersionAware:
//
//	func (c *RangeOverInt) MinVersion() version.Spec { return version.Min(22) }
//
// The Registry classifies every check once at registration. Filter then keeps
// plain checks unconditionally and version-aware checks whose minimum is at
// most the configured target. An unset or invalid target keeps everything:
// unknown configuration never reduces rule coverage.
//
// # Registration
//
// Check packages register into the default registry from init():
//
//	import _ "github.com/leapstack-labs/leapcheck/pkg/lint/rules/modernize"
//
// Tests and embedders build their own with NewRegistry.
package lint
