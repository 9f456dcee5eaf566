// Package manifest loads the candidate catalogue: newline-delimited lists
// of module identifiers, one identifier per line. Multiple manifest files
// are concatenated in discovery order and deduplicated preserving first
// occurrence, which later serves as the sort tie-break base order.
package manifest

import (
	"bufio"
	"bytes"
	"io/fs"
	"strings"

	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/logging"
)

// Load reads the given manifest files from fsys and returns the merged,
// deduplicated candidate catalogue. Lines starting with '#' and blank
// lines are skipped. An unreadable file or a merge that produces zero
// candidates is a fatal configuration error.
func Load(fsys fs.FS, paths ...string) ([]string, error) {
	logger := logging.GetLogger("manifest")

	var candidates []string
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestLoad,
				"failed to read candidate manifest %s", path)
		}

		entries := parse(data)
		logger.Debug().Str("path", path).Int("candidates", len(entries)).Msg("Loaded candidate manifest")
		candidates = append(candidates, entries...)
	}

	candidates = Dedupe(candidates)
	if len(candidates) == 0 {
		return nil, errors.Newf(errors.ErrManifestEmpty,
			"no module candidates found in %d manifest file(s)", len(paths))
	}

	logger.Info().Int("candidates", len(candidates)).Msg("Candidate catalogue built")
	return candidates, nil
}

// parse extracts module identifiers from one manifest file.
func parse(data []byte) []string {
	var entries []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

// Dedupe removes duplicate identifiers preserving first-occurrence order.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
