// Package modernize provides lint rules that suggest newer language and
// standard library features. Every rule here is version-aware: it only runs
// when the target version is at least its minimum, or when no target version
// is configured.
//
// Rules in this package:
//   - GM01: interface{} can be any (go1.18)
//   - GM02: sort helpers can be slices helpers (go1.21)
//   - GM03: loop variable copies are redundant (go1.22)
//   - GM04: counting loops can range over an int (go1.22)
package modernize

import "github.com/leapstack-labs/leapcheck/pkg/lint"

// New returns fresh instances of every rule in this package.
func New() []lint.Check {
	return []lint.Check{
		newInterfaceAny(),
		newSortToSlices(),
		newLoopVarCopy(),
		newRangeOverInt(),
	}
}
