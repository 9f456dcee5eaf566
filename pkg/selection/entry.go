// Package selection implements the per-call-site activation decision and
// the aggregating group that merges decisions from many call sites into
// one final ordered activation list.
package selection

// Entry is one call site's computed activation decision: the module
// identifiers that survived exclusion and filtering, and the exclusions
// that were applied. An Entry is immutable once created.
type Entry struct {
	configurations []string
	exclusions     []string
	excluded       map[string]struct{}
}

// Empty is the entry returned when the engine is disabled for a call site.
var Empty = Entry{}

// NewEntry creates an Entry from the given configurations and exclusions.
// Both inputs are copied.
func NewEntry(configurations, exclusions []string) Entry {
	e := Entry{
		configurations: make([]string, len(configurations)),
		exclusions:     make([]string, len(exclusions)),
		excluded:       make(map[string]struct{}, len(exclusions)),
	}
	copy(e.configurations, configurations)
	copy(e.exclusions, exclusions)
	for _, x := range exclusions {
		e.excluded[x] = struct{}{}
	}
	return e
}

// Configurations returns the included module identifiers in order.
func (e Entry) Configurations() []string {
	out := make([]string, len(e.configurations))
	copy(out, e.configurations)
	return out
}

// Exclusions returns the excluded module identifiers in the order they
// were first named.
func (e Entry) Exclusions() []string {
	out := make([]string, len(e.exclusions))
	copy(out, e.exclusions)
	return out
}

// Excludes reports whether the entry excludes the given module.
func (e Entry) Excludes(moduleID string) bool {
	_, ok := e.excluded[moduleID]
	return ok
}

// IsEmpty reports whether the entry carries no decision at all.
func (e Entry) IsEmpty() bool {
	return len(e.configurations) == 0 && len(e.exclusions) == 0
}
