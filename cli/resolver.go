package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads flag defaults from a
// YAML configuration file.
//
// The file is a flat mapping of flag names to values. Flag names with
// hyphens (e.g. "log-level") may use underscores in the config file
// (e.g. "log_level"). Command-line flags override config file values.
//
// Example config file:
//
//	log_level: debug
//	log_format: text
//	ignore_warnings: true
//	enum_numbering: ordinal
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config{}, nil //nolint:nilerr // unreadable config is ignored
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		// Malformed config - fall back to flag defaults
		return config{}, nil //nolint:nilerr
	}

	cfg := make(config, len(values))
	for key, val := range values {
		// Kong parses numbers from strings
		switch v := val.(type) {
		case int64:
			cfg[key] = strconv.FormatInt(v, 10)
		case uint64:
			cfg[key] = strconv.FormatUint(v, 10)
		case float64:
			cfg[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			cfg[key] = val
		}
	}

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g. "log-level") but config keys may use
	// underscores. Try both forms.
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - let Kong use defaults
	return nil, nil
}
