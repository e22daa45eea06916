package lint

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapcheck/pkg/version"
)

// entryKind records, once at registration, whether a check takes part in
// version gating.
type entryKind int

const (
	entryPlain entryKind = iota
	entryVersioned
)

type entry struct {
	check Check
	kind  entryKind
	min   version.Spec
}

func classify(c Check) entry {
	if va, ok := c.(VersionAware); ok {
		return entry{check: c, kind: entryVersioned, min: va.MinVersion()}
	}
	return entry{check: c, kind: entryPlain}
}

// eligible applies the version policy to one classified check.
// v and pinned come from version.Setting.Resolve.
func (e entry) eligible(v int, pinned bool) bool {
	if !pinned || e.kind == entryPlain {
		return true
	}
	return e.min.Allows(v)
}

// Registry holds the checks registered for a run, in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int // ID -> position in entries
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends checks in order. A check whose ID is already registered
// is rejected with ErrDuplicateCheck; checks before it stay registered.
func (r *Registry) Register(checks ...Check) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range checks {
		id := c.ID()
		if _, ok := r.index[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCheck, id)
		}
		r.index[id] = len(r.entries)
		r.entries = append(r.entries, classify(c))
	}
	return nil
}

// MustRegister is Register for init() functions.
func (r *Registry) MustRegister(checks ...Check) {
	if err := r.Register(checks...); err != nil {
		panic(err)
	}
}

// Filter returns the checks eligible for the target version, in registration
// order. It is a pure function of the registered checks and the setting: an
// unset or invalid target returns every check, a valid target V drops
// version-aware checks whose minimum is above V.
func (r *Registry) Filter(target version.Setting) []Check {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, pinned := target.Resolve()
	out := make([]Check, 0, len(r.entries))
	for _, e := range r.entries {
		if e.eligible(v, pinned) {
			out = append(out, e.check)
		}
	}
	return out
}

// Eligible is Filter packaged with the setting it was computed for.
func (r *Registry) Eligible(target version.Setting) *EligibleSet {
	return newEligibleSet(r.Filter(target), target)
}

// Get returns a check by ID.
func (r *Registry) Get(id string) (Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.entries[i].check, true
}

// All returns every registered check in registration order.
func (r *Registry) All() []Check {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Check, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.check
	}
	return out
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Rules returns metadata for every registered check in registration order.
func (r *Registry) Rules() []RuleInfo {
	checks := r.All()
	out := make([]RuleInfo, len(checks))
	for i, c := range checks {
		out[i] = GetRuleInfo(c)
	}
	return out
}

// Clear removes all registered checks. Used for testing.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.index = make(map[string]int)
}

// Filter applies the version policy to an ad hoc list of checks. Registries
// classify once at registration; this probes each check on every call.
func Filter(checks []Check, target version.Setting) []Check {
	v, pinned := target.Resolve()
	out := make([]Check, 0, len(checks))
	for _, c := range checks {
		if classify(c).eligible(v, pinned) {
			out = append(out, c)
		}
	}
	return out
}

// EligibleSet is the ordered set of checks selected for one configuration.
type EligibleSet struct {
	Checks []Check
	Target version.Setting
}

func newEligibleSet(checks []Check, target version.Setting) *EligibleSet {
	return &EligibleSet{Checks: checks, Target: target}
}

// IDs returns the IDs of the checks in order.
func (s *EligibleSet) IDs() []string {
	ids := make([]string, len(s.Checks))
	for i, c := range s.Checks {
		ids[i] = c.ID()
	}
	return ids
}

// Without returns a copy of the set minus the checks cfg disables.
func (s *EligibleSet) Without(cfg *Config) *EligibleSet {
	return newEligibleSet(cfg.Apply(s.Checks), s.Target)
}

// defaultRegistry receives checks registered from init().
var defaultRegistry = NewRegistry()

// Default returns the registry check packages register into.
func Default() *Registry {
	return defaultRegistry
}

// Register adds checks to the default registry.
// Call this from init() functions in check packages.
func Register(checks ...Check) {
	defaultRegistry.MustRegister(checks...)
}
