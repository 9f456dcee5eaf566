package metadata

import (
	"io/fs"

	"github.com/magiconair/properties"

	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/logging"
)

// LoadStore reads flat key/value metadata files from the given filesystem
// and merges them into a Store. Each file holds keys of the shape
// "<moduleID>.<factName>". Files are merged in the order given; within the
// merge the first file to define a key wins.
//
// A path that does not exist is skipped: metadata is optional and a module
// set with no facts at all is a valid (if unordered) configuration.
func LoadStore(fsys fs.FS, paths ...string) (*Store, error) {
	logger := logging.GetLogger("metadata.loader")

	var sources []map[string]string
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			logger.Debug().Str("path", path).Msg("Metadata file not readable, skipping")
			continue
		}

		props, err := properties.Load(data, properties.UTF8)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMetadataLoad,
				"failed to parse metadata file %s", path)
		}

		source := make(map[string]string, props.Len())
		for _, key := range props.Keys() {
			value, _ := props.Get(key)
			source[key] = value
		}
		logger.Debug().Str("path", path).Int("facts", len(source)).Msg("Loaded metadata file")
		sources = append(sources, source)
	}

	return NewStore(sources...), nil
}
