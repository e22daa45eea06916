// Package syntax is the boundary between leapcheck and the Go toolchain's
// parser. It names the node kinds checks subscribe to, parses source files
// into go/ast trees, discovers files on disk, and reads the go directive of a
// module so the target version can be inferred.
//
// Nothing here knows about checks; pkg/lint depends on this package, never the
// reverse.
package syntax
