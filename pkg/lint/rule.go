package lint

import (
	"go/ast"

	"github.com/leapstack-labs/leapcheck/pkg/syntax"
	"github.com/leapstack-labs/leapcheck/pkg/version"
)

// Check is the base contract every rule implements.
//
// Hooks receive the FileContext of the file being scanned. StartFile runs
// before any VisitNode for that file and EndFile after the last one. A check
// must not keep per-file state on the instance unless it is only ever used by
// one scan at a time; the FileContext is the place for it.
type Check interface {
	// ID returns the unique identifier, e.g., "GM01".
	ID() string

	// NodesToVisit returns the node kinds this check wants VisitNode for.
	NodesToVisit() []syntax.Kind

	StartFile(fc *FileContext) error
	VisitNode(fc *FileContext, n ast.Node) error
	EndFile(fc *FileContext) error
}

// VersionAware is implemented by checks that only apply from a given language
// version on.
type VersionAware interface {
	Check

	// MinVersion returns the minimum version the check supports.
	MinVersion() version.Spec
}

// Describer exposes documentation for tooling. Base implements it.
type Describer interface {
	Name() string
	Group() string
	Description() string
	DefaultSeverity() Severity

	Rationale() string
	BadExample() string
	GoodExample() string
	Fix() string
}

// RuleDef is the static metadata of a check.
type RuleDef struct {
	ID          string   // Unique identifier, e.g., "GM01"
	Name        string   // Human-readable name, e.g., "modernize.interface_any"
	Group       string   // Category, e.g., "modernize", "style"
	Description string   // Human-readable description
	Severity    Severity // Default severity
	ConfigKeys  []string // Options this rule accepts

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// Base carries a RuleDef and implements Describer plus no-op hooks.
// Embed it and override what the check needs.
type Base struct {
	def RuleDef
}

// NewBase returns a Base for def.
func NewBase(def RuleDef) Base {
	return Base{def: def}
}

func (b Base) ID() string                { return b.def.ID }
func (b Base) Name() string              { return b.def.Name }
func (b Base) Group() string             { return b.def.Group }
func (b Base) Description() string       { return b.def.Description }
func (b Base) DefaultSeverity() Severity { return b.def.Severity }
func (b Base) ConfigKeys() []string      { return b.def.ConfigKeys }

// Documentation methods
func (b Base) Rationale() string   { return b.def.Rationale }
func (b Base) BadExample() string  { return b.def.BadExample }
func (b Base) GoodExample() string { return b.def.GoodExample }
func (b Base) Fix() string         { return b.def.Fix }

// Def returns the underlying RuleDef.
func (b Base) Def() RuleDef { return b.def }

func (Base) StartFile(*FileContext) error          { return nil }
func (Base) VisitNode(*FileContext, ast.Node) error { return nil }
func (Base) EndFile(*FileContext) error            { return nil }

// RuleInfo provides metadata about a check for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Group           string   `json:"group" yaml:"group"`
	Description     string   `json:"description" yaml:"description"`
	DefaultSeverity Severity `json:"default_severity" yaml:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
	MinVersion      string   `json:"min_version" yaml:"min_version"` // "any" or go1.N
	Nodes           []string `json:"nodes" yaml:"nodes"`

	// Documentation fields
	Rationale   string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty" yaml:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty" yaml:"fix,omitempty"`
}

// GetRuleInfo extracts metadata from a check.
func GetRuleInfo(c Check) RuleInfo {
	info := RuleInfo{
		ID:              c.ID(),
		DefaultSeverity: SeverityWarning,
		MinVersion:      version.NoConstraint.String(),
	}
	for _, k := range c.NodesToVisit() {
		info.Nodes = append(info.Nodes, k.String())
	}
	if d, ok := c.(Describer); ok {
		info.Name = d.Name()
		info.Group = d.Group()
		info.Description = d.Description()
		info.DefaultSeverity = d.DefaultSeverity()
		info.Rationale = d.Rationale()
		info.BadExample = d.BadExample()
		info.GoodExample = d.GoodExample()
		info.Fix = d.Fix()
	}
	if ck, ok := c.(interface{ ConfigKeys() []string }); ok {
		info.ConfigKeys = ck.ConfigKeys()
	}
	if va, ok := c.(VersionAware); ok {
		info.MinVersion = va.MinVersion().String()
	}
	return info
}
