package filter

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modselect/pkg/logging"
	"github.com/arthur-debert/modselect/pkg/metadata"
)

// Chain applies an ordered list of filters over a candidate array using a
// fixed metadata store. Candidate identity and metadata are stable for one
// assembly pass, so a Chain may be built once and reused across sequential
// selection calls; build a fresh Chain at the start of the next pass.
type Chain struct {
	filters []Filter
	meta    *metadata.Store
	logger  zerolog.Logger
}

// NewChain creates a Chain over the given filters, applied in order.
func NewChain(filters []Filter, meta *metadata.Store) *Chain {
	return &Chain{
		filters: filters,
		meta:    meta,
		logger:  logging.GetLogger("filter.chain"),
	}
}

// NewRegisteredChain creates a Chain from the globally registered filters.
func NewRegisteredChain(meta *metadata.Store) *Chain {
	return NewChain(Registered(), meta)
}

// Filter returns the candidates every filter accepted, preserving their
// relative order. A candidate is dropped the moment any filter rejects it;
// later filters still see its (now empty) slot but their verdict for it is
// moot. When no filter rejects anything the original slice instance is
// returned unchanged.
func (c *Chain) Filter(candidates []string) []string {
	if len(c.filters) == 0 || len(candidates) == 0 {
		return candidates
	}

	start := time.Now()
	slots := make([]string, len(candidates))
	copy(slots, candidates)
	skipped := false

	for _, f := range c.filters {
		verdicts := f.Match(slots, c.meta)
		if len(verdicts) != len(slots) {
			c.logger.Error().
				Str("filter", f.Name()).
				Int("verdicts", len(verdicts)).
				Int("candidates", len(slots)).
				Msg("Filter returned wrong verdict count, ignoring its verdicts")
			continue
		}
		for i, ok := range verdicts {
			if !ok && slots[i] != "" {
				c.logger.Debug().
					Str("filter", f.Name()).
					Str("module", slots[i]).
					Msg("Filter rejected candidate")
				slots[i] = ""
				skipped = true
			}
		}
	}

	if !skipped {
		return candidates
	}

	result := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot != "" {
			result = append(result, slot)
		}
	}

	c.logger.Trace().
		Int("filtered", len(candidates)-len(result)).
		Dur("duration", time.Since(start)).
		Msg("Filtered candidates")

	return result
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int {
	return len(c.filters)
}
