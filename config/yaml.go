// Package config feeds flag defaults from YAML files into kong.
//
// Top-level keys match flag names; a mapping named after a command only
// applies while that command runs and wins over top-level keys:
//
//	workers: 4
//	upscale:
//	  scale: 3
//	  filter: mitchell
//	erase:
//	  brush: 30
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "~/.config/pixelstudio.yaml"

// Loader is a kong.ConfigurationLoader for YAML documents.
func Loader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse configuration: %w", err)
	}
	values = normalize(values)

	return kong.ResolverFunc(func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if cmd := kctx.Selected(); cmd != nil {
			if section, ok := values[cmd.Name].(map[string]any); ok {
				if v, ok := scalar(section[flag.Name]); ok {
					return v, nil
				}
			}
		}
		if v, ok := scalar(values[flag.Name]); ok {
			return v, nil
		}
		return nil, nil
	}), nil
}

// normalize accepts snake_case keys for kebab-case flags.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			v = normalize(sub)
		}
		out[strings.ReplaceAll(k, "_", "-")] = v
	}
	return out
}

func scalar(v any) (string, bool) {
	switch v := v.(type) {
	case nil, map[string]any, []any:
		return "", false
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}
