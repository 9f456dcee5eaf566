package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/metadata"
)

func position(t *testing.T, ids []string, id string) int {
	t.Helper()
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	t.Fatalf("module %s missing from %v", id, ids)
	return -1
}

func TestSortNoHints(t *testing.T) {
	meta := metadata.NewStore()

	got, err := Sort([]string{"mod.a", "mod.b", "mod.c"}, meta)
	require.NoError(t, err)
	assert.Equal(t, []string{"mod.a", "mod.b", "mod.c"}, got, "no hints keeps input order")
}

func TestSortEmpty(t *testing.T) {
	meta := metadata.NewStore()

	got, err := Sort(nil, meta)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Sort([]string{"mod.a"}, meta)
	require.NoError(t, err)
	assert.Equal(t, []string{"mod.a"}, got)
}

func TestSortBeforeHint(t *testing.T) {
	meta := metadata.NewStore(map[string]string{
		"mod.c.before": "mod.a",
	})

	got, err := Sort([]string{"mod.a", "mod.b", "mod.c"}, meta)
	require.NoError(t, err)

	assert.Len(t, got, 3)
	assert.Less(t, position(t, got, "mod.c"), position(t, got, "mod.a"),
		"before hint must place mod.c ahead of mod.a")
}

func TestSortAfterHint(t *testing.T) {
	meta := metadata.NewStore(map[string]string{
		"mod.a.after": "mod.c",
	})

	got, err := Sort([]string{"mod.a", "mod.b", "mod.c"}, meta)
	require.NoError(t, err)
	assert.Less(t, position(t, got, "mod.c"), position(t, got, "mod.a"))
}

func TestSortPriorityTieBreak(t *testing.T) {
	meta := metadata.NewStore(map[string]string{
		"mod.c.priority": "-10",
		"mod.b.priority": "5",
	})

	got, err := Sort([]string{"mod.a", "mod.b", "mod.c"}, meta)
	require.NoError(t, err)
	// c has the lowest priority, a sits at the default, b is highest
	assert.Equal(t, []string{"mod.c", "mod.a", "mod.b"}, got)
}

func TestSortHintsBeatPriority(t *testing.T) {
	// mod.a has the lowest priority but an explicit hint forces it after
	// mod.c: explicit precedence is authoritative, priority only breaks
	// ties the relation leaves open.
	meta := metadata.NewStore(map[string]string{
		"mod.a.priority": "-100",
		"mod.a.after":    "mod.c",
		"mod.c.priority": "50",
	})

	got, err := Sort([]string{"mod.a", "mod.b", "mod.c"}, meta)
	require.NoError(t, err)
	assert.Less(t, position(t, got, "mod.c"), position(t, got, "mod.a"))
}

func TestSortChain(t *testing.T) {
	meta := metadata.NewStore(map[string]string{
		"mod.c.before": "mod.b",
		"mod.b.before": "mod.a",
	})

	got, err := Sort([]string{"mod.a", "mod.b", "mod.c"}, meta)
	require.NoError(t, err)
	assert.Equal(t, []string{"mod.c", "mod.b", "mod.a"}, got)
}

func TestSortHintOutsideInputSetIgnored(t *testing.T) {
	meta := metadata.NewStore(map[string]string{
		"mod.a.after": "mod.ghost",
	})

	got, err := Sort([]string{"mod.a", "mod.b"}, meta)
	require.NoError(t, err)
	assert.Equal(t, []string{"mod.a", "mod.b"}, got)
}

func TestSortTotalityAndDeterminism(t *testing.T) {
	meta := metadata.NewStore(map[string]string{
		"mod.e.before":   "mod.b",
		"mod.d.after":    "mod.c",
		"mod.b.priority": "3",
		"mod.c.priority": "-1",
	})
	ids := []string{"mod.a", "mod.b", "mod.c", "mod.d", "mod.e"}

	first, err := Sort(ids, meta)
	require.NoError(t, err)

	// Totality: each input appears exactly once
	assert.Len(t, first, len(ids))
	seen := map[string]int{}
	for _, id := range first {
		seen[id]++
	}
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "module %s must appear exactly once", id)
	}

	// Determinism: identical result on repeat
	second, err := Sort(ids, meta)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSortCycleDetection(t *testing.T) {
	t.Run("two module cycle", func(t *testing.T) {
		meta := metadata.NewStore(map[string]string{
			"mod.a.before": "mod.b",
			"mod.b.before": "mod.a",
		})

		_, err := Sort([]string{"mod.a", "mod.b", "mod.c"}, meta)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrOrderingCycle))
		assert.Contains(t, err.Error(), "mod.a")
		assert.Contains(t, err.Error(), "mod.b")
	})

	t.Run("self cycle via mixed hints", func(t *testing.T) {
		meta := metadata.NewStore(map[string]string{
			"mod.a.before": "mod.b",
			"mod.a.after":  "mod.b",
		})

		_, err := Sort([]string{"mod.a", "mod.b"}, meta)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrOrderingCycle))
	})
}

func TestSortMalformedPriorityIsFatal(t *testing.T) {
	meta := metadata.NewStore(map[string]string{
		"mod.a.priority": "high",
	})

	_, err := Sort([]string{"mod.a", "mod.b"}, meta)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMetadataParse))
}
