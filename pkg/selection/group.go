package selection

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/logging"
	"github.com/arthur-debert/modselect/pkg/manifest"
	"github.com/arthur-debert/modselect/pkg/metadata"
	"github.com/arthur-debert/modselect/pkg/sorter"
)

// Activation pairs a surviving module with the call site that first
// requested it. The origin is diagnostic only and never drives decisions.
type Activation struct {
	Origin string
	Module string
}

// Group accumulates selection entries from many independent call sites and
// merges them into one final ordered activation list. Merging is deferred
// to Finalize because exclusions from a later call site must still veto
// modules an earlier call site included.
//
// The accumulate/finalize protocol is sequential; a mutex guards the
// internal state so call sites driven from multiple goroutines stay safe.
type Group struct {
	mu        sync.Mutex
	meta      *metadata.Store
	entries   []Entry
	origins   map[string]string
	finalized bool
	logger    zerolog.Logger
}

// NewGroup creates a Group for one assembly pass. The metadata store feeds
// the final priority sort.
func NewGroup(meta *metadata.Store) *Group {
	return &Group{
		meta:    meta,
		origins: make(map[string]string),
		logger:  logging.GetLogger("selection.group"),
	}
}

// Process runs one call site's selection computation and records the
// result. The first call site to request a module becomes its origin;
// later call sites never change it. A computation error aborts the pass
// and poisons the group: accumulated state must be discarded with it.
func (g *Group) Process(callSite string, compute func() (Entry, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finalized {
		return errors.New(errors.ErrGroupFinalized, "group has already been finalized")
	}

	entry, err := compute()
	if err != nil {
		g.logger.Error().Err(err).Str("callSite", callSite).Msg("Selection failed, pass must be discarded")
		return err
	}

	g.entries = append(g.entries, entry)
	for _, moduleID := range entry.configurations {
		if _, ok := g.origins[moduleID]; !ok {
			g.origins[moduleID] = callSite
		}
	}

	g.logger.Debug().
		Str("callSite", callSite).
		Int("configurations", len(entry.configurations)).
		Int("exclusions", len(entry.exclusions)).
		Msg("Recorded selection entry")

	return nil
}

// Finalize merges every recorded entry and returns the final ordered
// activation list. An exclusion from any entry removes a module even when
// another entry included it. Finalize may be called exactly once.
func (g *Group) Finalize() ([]Activation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finalized {
		return nil, errors.New(errors.ErrGroupFinalized, "group has already been finalized")
	}
	g.finalized = true

	if len(g.entries) == 0 {
		return nil, nil
	}

	excluded := make(map[string]struct{})
	for _, entry := range g.entries {
		for _, x := range entry.exclusions {
			excluded[x] = struct{}{}
		}
	}

	var all []string
	for _, entry := range g.entries {
		all = append(all, entry.configurations...)
	}
	all = manifest.Dedupe(all)

	final := make([]string, 0, len(all))
	for _, moduleID := range all {
		if _, ok := excluded[moduleID]; !ok {
			final = append(final, moduleID)
		}
	}

	sorted, err := sorter.Sort(final, g.meta)
	if err != nil {
		return nil, err
	}

	activations := make([]Activation, 0, len(sorted))
	for _, moduleID := range sorted {
		activations = append(activations, Activation{
			Origin: g.origins[moduleID],
			Module: moduleID,
		})
	}

	g.logger.Info().
		Int("entries", len(g.entries)).
		Int("excluded", len(excluded)).
		Int("activated", len(activations)).
		Msg("Finalized activation list")

	return activations, nil
}
