// Package sorter produces a deterministic total order over a set of module
// identifiers from partial "before"/"after" ordering hints plus a numeric
// priority fallback, both read from the metadata store.
package sorter

import (
	"sort"
	"strings"

	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/logging"
	"github.com/arthur-debert/modselect/pkg/metadata"
)

// DefaultPriority is assumed for modules without a priority fact.
const DefaultPriority = 0

// Sort orders ids deterministically. Explicit "before"/"after" hints are
// authoritative: they form a must-precede relation over pairs where both
// endpoints are present, and the result is a stable topological order of
// that relation. Where the relation leaves two modules unordered, the
// lower numeric priority sorts first; equal priorities keep the input
// order. A cycle in the relation is a fatal error.
//
// Every id in the input appears exactly once in the output.
func Sort(ids []string, meta *metadata.Store) ([]string, error) {
	logger := logging.GetLogger("sorter")

	if len(ids) <= 1 {
		return ids, nil
	}

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	priorities := make([]int, len(ids))
	for i, id := range ids {
		p, err := meta.GetInt(id, metadata.FactPriority, DefaultPriority)
		if err != nil {
			return nil, err
		}
		priorities[i] = p
	}

	// successors[i] lists modules that must come after ids[i]
	successors := make([][]int, len(ids))
	indegree := make([]int, len(ids))
	addEdge := func(from, to int) {
		successors[from] = append(successors[from], to)
		indegree[to]++
	}
	for i, id := range ids {
		for _, b := range meta.GetSet(id, metadata.FactBefore, nil) {
			if j, ok := index[b]; ok && j != i {
				addEdge(i, j)
			}
		}
		for _, a := range meta.GetSet(id, metadata.FactAfter, nil) {
			if j, ok := index[a]; ok && j != i {
				addEdge(j, i)
			}
		}
	}

	// Stable topological order: among the ready modules always emit the
	// one with the lowest priority, then the earliest base position.
	ready := make([]int, 0, len(ids))
	for i := range ids {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]string, 0, len(ids))
	for len(ready) > 0 {
		best := 0
		for k := 1; k < len(ready); k++ {
			if less(priorities, ready[k], ready[best]) {
				best = k
			}
		}
		next := ready[best]
		ready = append(ready[:best], ready[best+1:]...)

		result = append(result, ids[next])
		for _, succ := range successors[next] {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	if len(result) != len(ids) {
		var stuck []string
		for i, id := range ids {
			if indegree[i] > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, errors.Newf(errors.ErrOrderingCycle,
			"ordering cycle detected among modules: %s", strings.Join(stuck, ", ")).
			WithDetail("modules", stuck)
	}

	logger.Debug().Int("modules", len(result)).Msg("Sorted modules")
	return result, nil
}

// less orders ready module i before j when it has lower priority, or equal
// priority and an earlier base position.
func less(priorities []int, i, j int) bool {
	if priorities[i] != priorities[j] {
		return priorities[i] < priorities[j]
	}
	return i < j
}
