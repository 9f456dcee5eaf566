// Package config provides the environment property layer the selection
// engine reads its override and exclusion properties from. Properties are
// layered: built-in defaults, then an optional modselect.toml file, then
// MODSELECT_* environment variables, each layer overriding the previous.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/modselect/pkg/errors"
	"github.com/arthur-debert/modselect/pkg/logging"
)

// Well-known property keys.
const (
	// PropertyEnabled gates the whole engine for a call site. Boolean,
	// defaults to true; an unparseable value falls back to the default.
	PropertyEnabled = "modselect.enabled"

	// PropertyExclude holds a comma-separated list of module identifiers
	// excluded at every call site.
	PropertyExclude = "modselect.exclude"
)

const envPrefix = "MODSELECT_"

// Environment is an immutable snapshot of the engine's configuration
// properties, built once per assembly pass.
type Environment struct {
	k *koanf.Koanf
}

// NewEnvironment loads the layered property set. configPath names an
// optional modselect.toml; when empty or missing that layer is skipped.
func NewEnvironment(configPath string) (*Environment, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	// 2. Optional config file
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad,
					"failed to load configuration from %s", configPath)
			}
			logger.Debug().Str("path", configPath).Msg("Loaded configuration file")
		}
	}

	// 3. Environment variables: MODSELECT_EXCLUDE -> modselect.exclude
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, envPrefix)
		key = strings.ReplaceAll(strings.ToLower(key), "_", ".")
		return "modselect." + key
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	return &Environment{k: k}, nil
}

// NewEnvironmentFromMap builds an Environment from explicit properties on
// top of the built-in defaults. Used by embedding callers and tests.
func NewEnvironmentFromMap(properties map[string]interface{}) (*Environment, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	if len(properties) > 0 {
		if err := k.Load(confmap.Provider(properties, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load property map")
		}
	}

	return &Environment{k: k}, nil
}

// Has reports whether the property is present in any layer.
func (e *Environment) Has(key string) bool {
	return e.k.Exists(key)
}

// String returns a string property, or def when absent.
func (e *Environment) String(key, def string) string {
	if !e.k.Exists(key) {
		return def
	}
	return e.k.String(key)
}

// Bool returns a boolean property. Absent or unparseable values fall back
// to def rather than erroring.
func (e *Environment) Bool(key string, def bool) bool {
	if !e.k.Exists(key) {
		return def
	}
	switch v := e.k.Get(key).(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// Strings returns a list property. A plain string value is interpreted as
// a comma-separated list; an absent or empty property yields nil.
func (e *Environment) Strings(key string) []string {
	if !e.k.Exists(key) {
		return nil
	}
	switch v := e.k.Get(key).(type) {
	case string:
		return splitList(v)
	default:
		values := e.k.Strings(key)
		if len(values) == 0 {
			return nil
		}
		return values
	}
}

// splitList splits a comma-separated value into trimmed, non-empty elements.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
