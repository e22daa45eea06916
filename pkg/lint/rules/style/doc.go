// Package style provides lint rules for everyday Go style. None of these
// rules depend on the target version.
//
// Rules in this package:
//   - GS01: Empty if, else or range block
//   - GS02: errors.New(fmt.Sprintf(...))
//   - GS03: context.Context is not the first parameter
package style

import "github.com/leapstack-labs/leapcheck/pkg/lint"

// New returns fresh instances of every rule in this package.
func New() []lint.Check {
	return []lint.Check{
		newEmptyBlock(),
		newErrorf(),
		newContextFirst(),
	}
}
