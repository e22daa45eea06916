// Package walk drives one shared traversal of a file's syntax tree and routes
// each node to the checks subscribed to its kind.
package walk

import (
	"go/ast"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
	"github.com/leapstack-labs/leapcheck/pkg/syntax"
)

// Dispatcher routes nodes to checks by kind. It is built once per eligible
// set and is read-only afterwards, so one Dispatcher may serve many files as
// long as its checks are safe to share.
type Dispatcher struct {
	checks []lint.Check
	index  map[syntax.Kind][]lint.Check
	filter []ast.Node
}

// NewDispatcher indexes checks by the node kinds they subscribe to. Within a
// kind, subscribers keep the order of checks. A check listing a kind twice is
// notified once per node.
func NewDispatcher(checks []lint.Check) *Dispatcher {
	d := &Dispatcher{checks: checks, index: make(map[syntax.Kind][]lint.Check)}
	for _, c := range checks {
		seen := make(map[syntax.Kind]bool)
		for _, k := range c.NodesToVisit() {
			if !k.Valid() || seen[k] {
				continue
			}
			seen[k] = true
			if len(d.index[k]) == 0 {
				d.filter = append(d.filter, k.Prototype())
			}
			d.index[k] = append(d.index[k], c)
		}
	}
	return d
}

// Checks returns the checks in notification order.
func (d *Dispatcher) Checks() []lint.Check { return d.checks }

// Subscribers returns the checks notified for nodes of kind k.
func (d *Dispatcher) Subscribers(k syntax.Kind) []lint.Check {
	return d.index[k]
}

// Kinds returns the subscribed kinds in first-subscription order.
func (d *Dispatcher) Kinds() []syntax.Kind {
	out := make([]syntax.Kind, len(d.filter))
	for i, proto := range d.filter {
		out[i] = syntax.KindOf(proto)
	}
	return out
}

// Walk visits the file's tree in pre-order and calls VisitNode on every
// subscriber of each node. The first failing check stops the walk and its
// *lint.CheckError is returned.
func (d *Dispatcher) Walk(fc *lint.FileContext, f *ast.File) error {
	if f == nil || len(d.filter) == 0 {
		return nil
	}
	in := inspector.New([]*ast.File{f})
	for n := range in.PreorderSeq(d.filter...) {
		for _, c := range d.index[syntax.KindOf(n)] {
			if err := lint.RunHook(c, lint.HookVisit, fc, n); err != nil {
				return err
			}
		}
	}
	return nil
}
