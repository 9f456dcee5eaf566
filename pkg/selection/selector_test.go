package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modselect/pkg/config"
	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/filter"
	"github.com/arthur-debert/modselect/pkg/metadata"
)

func testEnv(t *testing.T, properties map[string]interface{}) *config.Environment {
	t.Helper()
	env, err := config.NewEnvironmentFromMap(properties)
	require.NoError(t, err)
	return env
}

func TestSelect(t *testing.T) {
	t.Run("no exclusions or filters keeps catalogue order", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a", "mod.b", "mod.c"},
			Metadata:  metadata.NewStore(),
			Filters:   []filter.Filter{},
		})

		entry, err := sel.Select(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.a", "mod.b", "mod.c"}, entry.Configurations())
		assert.Empty(t, entry.Exclusions())
	})

	t.Run("catalogue duplicates collapse to first occurrence", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a", "mod.b", "mod.a", "mod.c", "mod.b"},
			Metadata:  metadata.NewStore(),
			Filters:   []filter.Filter{},
		})

		entry, err := sel.Select(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.a", "mod.b", "mod.c"}, entry.Configurations())
	})

	t.Run("explicit excludes are removed", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a", "mod.b", "mod.c"},
			Metadata:  metadata.NewStore(),
			Filters:   []filter.Filter{},
		})

		entry, err := sel.Select([]string{"mod.b"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.a", "mod.c"}, entry.Configurations())
		assert.Equal(t, []string{"mod.b"}, entry.Exclusions())
	})

	t.Run("exclusion sources union with duplicates collapsing", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue:   []string{"mod.a", "mod.b", "mod.c", "mod.d"},
			Environment: testEnv(t, map[string]interface{}{"modselect.exclude": "mod.c,mod.b"}),
			Metadata:    metadata.NewStore(),
			Filters:     []filter.Filter{},
		})

		entry, err := sel.Select([]string{"mod.b"}, []string{"mod.d", "mod.b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.a"}, entry.Configurations())
		assert.Equal(t, []string{"mod.b", "mod.d", "mod.c"}, entry.Exclusions())
	})

	t.Run("filter chain runs after exclusion", func(t *testing.T) {
		meta := metadata.NewStore(map[string]string{
			"mod.c.requires": "missing-capability",
		})
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a", "mod.b", "mod.c"},
			Metadata:  meta,
			Filters:   []filter.Filter{filter.NewRequirementFilter("requires", nil)},
		})

		entry, err := sel.Select([]string{"mod.a"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.b"}, entry.Configurations())
	})
}

func TestSelectExcludeValidation(t *testing.T) {
	resolver := ResolverFunc(func(id string) bool {
		return id != "mod.unknown"
	})

	t.Run("resolvable but absent exclude is fatal", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a", "mod.b"},
			Metadata:  metadata.NewStore(),
			Filters:   []filter.Filter{},
			Resolver:  resolver,
		})

		_, err := sel.Select([]string{"mod.ghost"}, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidExclude))
	})

	t.Run("all offenders reported in one error", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a"},
			Metadata:  metadata.NewStore(),
			Filters:   []filter.Filter{},
			Resolver:  resolver,
		})

		_, err := sel.Select([]string{"mod.ghost", "mod.phantom"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mod.ghost")
		assert.Contains(t, err.Error(), "mod.phantom")
	})

	t.Run("unresolvable exclude is a silent no-op", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a"},
			Metadata:  metadata.NewStore(),
			Filters:   []filter.Filter{},
			Resolver:  resolver,
		})

		entry, err := sel.Select([]string{"mod.unknown"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.a"}, entry.Configurations())
	})

	t.Run("resolvable exclude present in catalogue is valid", func(t *testing.T) {
		sel := NewSelector(SelectorConfig{
			Catalogue: []string{"mod.a", "mod.b"},
			Metadata:  metadata.NewStore(),
			Filters:   []filter.Filter{},
			Resolver:  resolver,
		})

		entry, err := sel.Select([]string{"mod.b"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.a"}, entry.Configurations())
	})
}

func TestSelectOverrideDisabled(t *testing.T) {
	events := 0
	sel := NewSelector(SelectorConfig{
		Catalogue:   []string{"mod.a", "mod.b"},
		Environment: testEnv(t, map[string]interface{}{"modselect.enabled": false}),
		Metadata:    metadata.NewStore(),
		Filters:     []filter.Filter{},
		Resolver:    ResolverFunc(func(string) bool { return true }),
		Listeners: []Listener{ListenerFunc{
			ListenerName: "counter",
			Func:         func(ImportEvent) { events++ },
		}},
	})

	// Invalid excludes must not be validated when the engine is disabled
	entry, err := sel.Select([]string{"mod.ghost"}, nil)
	require.NoError(t, err)
	assert.True(t, entry.IsEmpty())
	assert.Equal(t, 0, events, "disabled selection must fire no events")
}

func TestSelectUnparseableOverrideFallsBack(t *testing.T) {
	sel := NewSelector(SelectorConfig{
		Catalogue:   []string{"mod.a"},
		Environment: testEnv(t, map[string]interface{}{"modselect.enabled": "maybe"}),
		Metadata:    metadata.NewStore(),
		Filters:     []filter.Filter{},
	})

	entry, err := sel.Select(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"mod.a"}, entry.Configurations())
}

func TestSelectImportEvents(t *testing.T) {
	var got []ImportEvent
	sel := NewSelector(SelectorConfig{
		Catalogue: []string{"mod.a", "mod.b"},
		Metadata:  metadata.NewStore(),
		Filters:   []filter.Filter{},
		Listeners: []Listener{ListenerFunc{
			ListenerName: "recorder",
			Func:         func(e ImportEvent) { got = append(got, e) },
		}},
	})

	_, err := sel.Select([]string{"mod.b"}, nil)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"mod.a"}, got[0].Configurations)
	assert.Equal(t, []string{"mod.b"}, got[0].Exclusions)
}

func TestGlobalListeners(t *testing.T) {
	ResetListeners()
	defer ResetListeners()

	events := 0
	require.NoError(t, RegisterListener(ListenerFunc{
		ListenerName: "global",
		Func:         func(ImportEvent) { events++ },
	}))

	sel := NewSelector(SelectorConfig{
		Catalogue: []string{"mod.a"},
		Metadata:  metadata.NewStore(),
		Filters:   []filter.Filter{},
	})

	_, err := sel.Select(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, events)
}

func TestEntryImmutability(t *testing.T) {
	entry := NewEntry([]string{"mod.a", "mod.b"}, []string{"mod.c"})

	configurations := entry.Configurations()
	configurations[0] = "tampered"
	assert.Equal(t, []string{"mod.a", "mod.b"}, entry.Configurations())

	exclusions := entry.Exclusions()
	exclusions[0] = "tampered"
	assert.Equal(t, []string{"mod.c"}, entry.Exclusions())

	assert.True(t, entry.Excludes("mod.c"))
	assert.False(t, entry.Excludes("mod.a"))
}
