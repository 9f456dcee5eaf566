package selection

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modselect/pkg/config"
	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/filter"
	"github.com/arthur-debert/modselect/pkg/logging"
	"github.com/arthur-debert/modselect/pkg/manifest"
	"github.com/arthur-debert/modselect/pkg/metadata"
)

// Resolver reports whether a module identifier is resolvable in the
// current environment. Excluding a resolvable identifier that is absent
// from the catalogue is a configuration error; excluding an unresolvable
// one is a silent no-op.
type Resolver interface {
	Resolvable(moduleID string) bool
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(moduleID string) bool

func (f ResolverFunc) Resolvable(moduleID string) bool { return f(moduleID) }

// Selector computes selection entries against a fixed catalogue, metadata
// store and environment. All collaborators are handed over at construction
// and treated as immutable for the selector's lifetime, so one Selector
// serves every call site of an assembly pass.
type Selector struct {
	catalogue []string
	env       *config.Environment
	chain     *filter.Chain
	resolver  Resolver
	listeners []Listener
	logger    zerolog.Logger
}

// SelectorConfig carries the collaborators a Selector needs.
type SelectorConfig struct {
	// Catalogue is the raw candidate catalogue, possibly with duplicates.
	Catalogue []string

	// Environment supplies the override and property-driven exclusions.
	Environment *config.Environment

	// Metadata backs the filter chain.
	Metadata *metadata.Store

	// Filters overrides the globally registered filter chain when non-nil.
	Filters []filter.Filter

	// Resolver decides exclude validity. Nil resolves nothing, making all
	// excludes soft.
	Resolver Resolver

	// Listeners are notified in addition to the globally registered ones.
	Listeners []Listener
}

// NewSelector creates a Selector. The filter chain is built once here and
// memoized for the lifetime of the selector (one assembly pass).
func NewSelector(cfg SelectorConfig) *Selector {
	filters := cfg.Filters
	if filters == nil {
		filters = filter.Registered()
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = ResolverFunc(func(string) bool { return false })
	}

	listeners := append([]Listener{}, RegisteredListeners()...)
	listeners = append(listeners, cfg.Listeners...)

	return &Selector{
		catalogue: cfg.Catalogue,
		env:       cfg.Environment,
		chain:     filter.NewChain(filters, cfg.Metadata),
		resolver:  resolver,
		listeners: listeners,
		logger:    logging.GetLogger("selection.selector"),
	}
}

// Select computes one call site's entry. excludes and excludeNames are the
// call site's explicit exclusion directives; the environment contributes a
// third, property-sourced list. Exclusion beats inclusion: an excluded
// module never survives even when the catalogue lists it.
func (s *Selector) Select(excludes, excludeNames []string) (Entry, error) {
	if !s.enabled() {
		s.logger.Debug().Msg("Selection disabled by override property, returning empty entry")
		return Empty, nil
	}

	candidates := manifest.Dedupe(s.catalogue)
	exclusions := s.exclusions(excludes, excludeNames)

	if err := s.checkExcluded(candidates, exclusions); err != nil {
		return Empty, err
	}

	configurations := subtract(candidates, exclusions)
	configurations = s.chain.Filter(configurations)

	entry := NewEntry(configurations, exclusions)
	s.fireImportEvent(entry)

	s.logger.Info().
		Int("configurations", len(configurations)).
		Int("exclusions", len(exclusions)).
		Msg("Selection entry computed")

	return entry, nil
}

// enabled reads the global override property, defaulting to true.
func (s *Selector) enabled() bool {
	if s.env == nil {
		return true
	}
	return s.env.Bool(config.PropertyEnabled, true)
}

// exclusions merges the three exclusion sources into one deduplicated
// list, preserving first-mention order.
func (s *Selector) exclusions(excludes, excludeNames []string) []string {
	var merged []string
	merged = append(merged, excludes...)
	merged = append(merged, excludeNames...)
	if s.env != nil {
		merged = append(merged, s.env.Strings(config.PropertyExclude)...)
	}
	return manifest.Dedupe(merged)
}

// checkExcluded flags every excluded identifier that is resolvable in the
// environment yet absent from the catalogue. All offenders are gathered
// into one error so the caller sees the full list at once.
func (s *Selector) checkExcluded(candidates, exclusions []string) error {
	inCatalogue := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		inCatalogue[c] = struct{}{}
	}

	var invalid []string
	for _, x := range exclusions {
		if _, ok := inCatalogue[x]; ok {
			continue
		}
		if s.resolver.Resolvable(x) {
			invalid = append(invalid, x)
		}
	}

	if len(invalid) == 0 {
		return nil
	}
	return errors.Newf(errors.ErrInvalidExclude,
		"the following modules could not be excluded because they are not catalogue candidates: %s",
		strings.Join(invalid, ", ")).
		WithDetail("modules", invalid)
}

func (s *Selector) fireImportEvent(entry Entry) {
	if len(s.listeners) == 0 {
		return
	}
	event := ImportEvent{
		Configurations: entry.Configurations(),
		Exclusions:     entry.Exclusions(),
	}
	for _, l := range s.listeners {
		l.OnImport(event)
	}
}

// subtract returns the candidates not named in exclusions, in order.
func subtract(candidates, exclusions []string) []string {
	excluded := make(map[string]struct{}, len(exclusions))
	for _, x := range exclusions {
		excluded[x] = struct{}{}
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := excluded[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}
