package metadata

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/logging"
)

// Fact names the store understands for ordering decisions. Filters may
// define additional facts of their own; the store does not restrict keys.
const (
	FactBefore   = "before"
	FactAfter    = "after"
	FactPriority = "priority"
)

// Store is a read-only snapshot of per-module facts, built once per
// assembly pass. Lookups are keyed by "<moduleID>.<factName>". The store
// is immutable after construction and safe for concurrent reads.
type Store struct {
	facts map[string]string
}

// NewStore builds a Store by merging the given key/value sources in order.
// A key already present from an earlier source is never clobbered by a
// later one (first-writer-wins).
func NewStore(sources ...map[string]string) *Store {
	logger := logging.GetLogger("metadata.store")
	facts := make(map[string]string)
	for _, source := range sources {
		for key, value := range source {
			if _, exists := facts[key]; exists {
				logger.Trace().Str("key", key).Msg("Skipping fact already present from earlier source")
				continue
			}
			facts[key] = value
		}
	}
	logger.Debug().Int("facts", len(facts)).Int("sources", len(sources)).Msg("Metadata store built")
	return &Store{facts: facts}
}

// WasProcessed reports whether any fact exists for the given module. It
// distinguishes an unknown module from a known module that simply has no
// matching fact.
func (s *Store) WasProcessed(moduleID string) bool {
	prefix := moduleID + "."
	for key := range s.facts {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Get returns the raw value of a fact and whether it is present.
func (s *Store) Get(moduleID, fact string) (string, bool) {
	value, ok := s.facts[moduleID+"."+fact]
	return value, ok
}

// GetString returns a fact as a string, or def when absent.
func (s *Store) GetString(moduleID, fact, def string) string {
	if value, ok := s.Get(moduleID, fact); ok {
		return value
	}
	return def
}

// GetInt returns a fact parsed as an integer, or def when absent. A value
// that is present but not a valid integer is invalid input, not a silent
// default.
func (s *Store) GetInt(moduleID, fact string, def int) (int, error) {
	value, ok := s.Get(moduleID, fact)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrMetadataParse,
			"fact %s.%s is not an integer: %q", moduleID, fact, value)
	}
	return n, nil
}

// GetSet returns a comma-separated fact as a set of strings, or def when
// absent. Empty elements are dropped.
func (s *Store) GetSet(moduleID, fact string, def []string) []string {
	value, ok := s.Get(moduleID, fact)
	if !ok {
		return def
	}
	return SplitList(value)
}

// Len returns the number of facts in the store.
func (s *Store) Len() int {
	return len(s.facts)
}

// SplitList splits a comma-separated value into trimmed, non-empty elements.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
