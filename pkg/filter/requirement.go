package filter

import (
	"github.com/arthur-debert/modselect/pkg/metadata"
)

const RequirementFilterName = "requirement"

// RequirementFilter rejects candidates whose named fact lists requirements
// outside a known universe. A candidate with no such fact always passes:
// absence of the fact means the module declared no requirements, not that
// its requirements are unmet.
//
// With fact "requires" and a universe of available capabilities, a module
// carrying "mod.web.requires=http,router" survives only when both "http"
// and "router" are in the universe.
type RequirementFilter struct {
	fact     string
	universe map[string]struct{}
}

// NewRequirementFilter creates a RequirementFilter checking the given fact
// against the given universe of satisfied requirement names.
func NewRequirementFilter(fact string, universe []string) *RequirementFilter {
	set := make(map[string]struct{}, len(universe))
	for _, u := range universe {
		set[u] = struct{}{}
	}
	return &RequirementFilter{fact: fact, universe: set}
}

// Name returns the unique name of this filter
func (f *RequirementFilter) Name() string {
	return RequirementFilterName
}

// Match returns one verdict per candidate
func (f *RequirementFilter) Match(candidates []string, meta *metadata.Store) []bool {
	verdicts := make([]bool, len(candidates))
	for i, candidate := range candidates {
		if candidate == "" {
			// Slot already rejected by an earlier filter
			continue
		}
		verdicts[i] = f.satisfied(candidate, meta)
	}
	return verdicts
}

func (f *RequirementFilter) satisfied(candidate string, meta *metadata.Store) bool {
	required := meta.GetSet(candidate, f.fact, nil)
	for _, req := range required {
		if _, ok := f.universe[req]; !ok {
			return false
		}
	}
	return true
}

// Func adapts a plain function to the Filter interface.
type Func struct {
	FilterName string
	MatchFunc  func(candidates []string, meta *metadata.Store) []bool
}

// Name returns the unique name of this filter
func (f Func) Name() string {
	return f.FilterName
}

// Match returns one verdict per candidate
func (f Func) Match(candidates []string, meta *metadata.Store) []bool {
	return f.MatchFunc(candidates, meta)
}
