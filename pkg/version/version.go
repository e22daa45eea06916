// Package version models the target language version a scan is configured for
// and the minimum version a check declares.
//
// Two types live here:
//
//   - Spec is what a check declares: either no constraint or "requires at least N".
//   - Setting is what a run is configured with: unset, an explicit but invalid
//     value, or a concrete version. Resolve collapses the three states into the
//     two behaviours filtering cares about.
//
// Versions are Go minor versions: 21 means go1.21.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec describes the minimum language version a check supports.
// The zero value is NoConstraint.
type Spec struct {
	min int
}

// NoConstraint is the Spec of a check that runs on any version.
var NoConstraint = Spec{}

// Min returns a Spec requiring at least version n.
// Non-positive n yields NoConstraint.
func Min(n int) Spec {
	if n <= 0 {
		return NoConstraint
	}
	return Spec{min: n}
}

// Minimum returns the declared minimum and true, or 0 and false for NoConstraint.
func (s Spec) Minimum() (int, bool) {
	return s.min, s.min > 0
}

// IsConstrained reports whether the spec declares a minimum.
func (s Spec) IsConstrained() bool {
	return s.min > 0
}

// Allows reports whether a project targeting version v satisfies the spec.
// The bound is inclusive.
func (s Spec) Allows(v int) bool {
	return s.min <= v
}

// String returns "any" or the go1.N form of the minimum.
func (s Spec) String() string {
	if s.min == 0 {
		return "any"
	}
	return fmt.Sprintf("go1.%d", s.min)
}

// state is the configuration-layer tri-state.
type state int

const (
	stateUnset state = iota
	stateInvalid
	stateValue
)

// Setting is the target version as supplied by configuration.
// The zero value is Unset.
type Setting struct {
	state state
	value int
	raw   string
}

// Unset returns a Setting with no target version.
func Unset() Setting {
	return Setting{}
}

// Invalid returns a Setting holding an explicit value that is not a usable version.
func Invalid(raw string) Setting {
	return Setting{state: stateInvalid, raw: raw}
}

// Value returns a Setting for version n. Non-positive n is Invalid.
func Value(n int) Setting {
	if n <= 0 {
		return Invalid(strconv.Itoa(n))
	}
	return Setting{state: stateValue, value: n, raw: strconv.Itoa(n)}
}

// ParseSetting reads a target version from configuration text.
//
// Accepted forms are "21", "1.21", "go1.21" and "1.21.3". The empty string is
// Unset; everything else is Invalid.
func ParseSetting(s string) Setting {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset()
	}
	n, ok := parseMinor(s)
	if !ok {
		return Invalid(s)
	}
	return Value(n)
}

func parseMinor(s string) (int, bool) {
	s = strings.TrimPrefix(strings.ToLower(s), "go")
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		// bare minor, e.g. "21"
	case 2, 3:
		if parts[0] != "1" {
			return 0, false
		}
		if len(parts) == 3 && !isDigits(parts[2]) {
			return 0, false
		}
		parts = parts[1:2]
	default:
		return 0, false
	}
	if !isDigits(parts[0]) {
		return 0, false
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// isDigits reports whether s is non-empty and only ASCII digits.
// strconv.Atoi alone would accept a sign.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsSet reports whether any value was supplied, valid or not.
func (s Setting) IsSet() bool {
	return s.state != stateUnset
}

// IsValid reports whether the setting holds a usable version.
func (s Setting) IsValid() bool {
	return s.state == stateValue
}

// Raw returns the value as it was supplied. Empty for Unset.
func (s Setting) Raw() string {
	return s.raw
}

// Resolve returns the effective version and true, or 0 and false when the
// setting is unset or invalid. Both of those mean "unconstrained".
func (s Setting) Resolve() (int, bool) {
	if s.state != stateValue {
		return 0, false
	}
	return s.value, true
}

// String describes the setting for logs.
func (s Setting) String() string {
	switch s.state {
	case stateValue:
		return fmt.Sprintf("go1.%d", s.value)
	case stateInvalid:
		return fmt.Sprintf("invalid(%q)", s.raw)
	default:
		return "unset"
	}
}
