package lint

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
)

// ErrDuplicateCheck is returned when a check ID is registered twice.
var ErrDuplicateCheck = errors.New("duplicate check")

// Hook names the notification a check was handling.
type Hook string

// Hooks.
const (
	HookStart Hook = "start"
	HookVisit Hook = "visit"
	HookEnd   Hook = "end"
)

// CheckError reports a check that failed while handling a notification.
// It is fatal for the file being scanned.
type CheckError struct {
	CheckID string
	Hook    Hook
	Path    string
	Pos     token.Position // zero unless Hook is HookVisit
	Err     error
}

func (e *CheckError) Error() string {
	where := e.Path
	if e.Pos.IsValid() {
		where = e.Pos.String()
	}
	return fmt.Sprintf("check %s failed in %s hook at %s: %v", e.CheckID, e.Hook, where, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking check.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RunHook invokes one hook of c, converting returned errors and panics into a
// *CheckError. n is only used for HookVisit.
func RunHook(c Check, hook Hook, fc *FileContext, n ast.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newCheckError(c, hook, fc, n, &PanicError{Value: r})
		}
	}()

	switch hook {
	case HookStart:
		err = c.StartFile(fc)
	case HookVisit:
		err = c.VisitNode(fc, n)
	case HookEnd:
		err = c.EndFile(fc)
	default:
		return fmt.Errorf("unknown hook %q", hook)
	}
	if err != nil {
		return newCheckError(c, hook, fc, n, err)
	}
	return nil
}

func newCheckError(c Check, hook Hook, fc *FileContext, n ast.Node, cause error) *CheckError {
	ce := &CheckError{CheckID: c.ID(), Hook: hook, Path: fc.Path(), Err: cause}
	if hook == HookVisit && n != nil {
		ce.Pos = fc.Position(n.Pos())
	}
	return ce
}
