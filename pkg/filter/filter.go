// Package filter implements the candidate filter chain: an ordered list of
// opaque boolean predicates applied to the whole candidate array at once.
// A candidate survives only when every filter in the chain accepts it.
package filter

import (
	"github.com/arthur-debert/modselect/pkg/metadata"
	"github.com/arthur-debert/modselect/pkg/registry"
)

// Filter decides, for an entire candidate array at once, which candidates
// may stay. The returned verdict slice is parallel to candidates: verdict[i]
// is false to reject candidates[i]. Receiving the whole array lets an
// implementation batch its own lookups instead of being called per
// candidate. A slot that an earlier filter already rejected is passed as
// the empty string; its verdict is ignored.
type Filter interface {
	// Name returns the unique name of this filter
	Name() string

	// Match returns one verdict per candidate
	Match(candidates []string, meta *metadata.Store) []bool
}

// filterRegistry holds globally registered filters in registration order.
var filterRegistry = registry.New[Filter]()

// Register adds a filter to the global chain. Filters run in registration
// order.
func Register(f Filter) error {
	return filterRegistry.Register(f.Name(), f)
}

// MustRegister registers a filter and panics on failure, for init() use.
func MustRegister(f Filter) {
	registry.MustRegister(filterRegistry, f.Name(), f)
}

// Registered returns the globally registered filters in registration order.
func Registered() []Filter {
	return filterRegistry.Items()
}

// Reset clears the global filter registry. Intended for tests and for the
// start of a new assembly pass.
func Reset() {
	filterRegistry.Clear()
}
