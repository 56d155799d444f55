package main

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ftml"
	"gopkg.in/yaml.v3"
)

// YAMLLoader is a kong.ConfigurationLoader for YAML files. Keys are flag
// names; command flags may be nested under the command name:
//
//	db: /var/lib/ftml.db
//	log-level: info
//	build:
//	  concurrency: 8
var YAMLLoader kong.ConfigurationLoader = func(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, ftml.Errorf(ftml.EINVALID, "invalid configuration: %v", err)
	}

	return kong.ResolverFunc(func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if cmd := parent.Command; cmd != nil {
			if section, ok := values[cmd.Name].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		v, _ := lookup(values, flag.Name)
		return v, nil
	}), nil
}

// lookup finds name in values, accepting dashes or underscores.
func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	v, ok := values[strings.ReplaceAll(name, "-", "_")]
	return v, ok
}
