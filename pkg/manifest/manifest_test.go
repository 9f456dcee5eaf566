package manifest

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modselect/pkg/errors"
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"manifests/core.modules": &fstest.MapFile{
			Data: []byte("# core modules\nmod.cache\nmod.web\n\nmod.db\n"),
		},
		"manifests/extra.modules": &fstest.MapFile{
			Data: []byte("mod.web\nmod.auth\n"),
		},
		"manifests/empty.modules": &fstest.MapFile{
			Data: []byte("# nothing here\n\n"),
		},
	}

	t.Run("single manifest", func(t *testing.T) {
		got, err := Load(fsys, "manifests/core.modules")
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.cache", "mod.web", "mod.db"}, got)
	})

	t.Run("multiple manifests concatenate then dedupe", func(t *testing.T) {
		got, err := Load(fsys, "manifests/core.modules", "manifests/extra.modules")
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.cache", "mod.web", "mod.db", "mod.auth"}, got)
	})

	t.Run("unreadable manifest is fatal", func(t *testing.T) {
		_, err := Load(fsys, "manifests/missing.modules")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestLoad))
	})

	t.Run("empty catalogue is fatal", func(t *testing.T) {
		_, err := Load(fsys, "manifests/empty.modules")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrManifestEmpty))
	})

	t.Run("comments and whitespace are skipped", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m": &fstest.MapFile{Data: []byte("  mod.a  \n#mod.b\n   \nmod.c")},
		}
		got, err := Load(fsys, "m")
		require.NoError(t, err)
		assert.Equal(t, []string{"mod.a", "mod.c"}, got)
	})
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "no duplicates",
			input: []string{"a", "b", "c"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "first occurrence wins",
			input: []string{"a", "b", "a", "c", "b"},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedupe(tt.input))
		})
	}
}
