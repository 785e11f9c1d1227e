package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/feedmerge/internal/config"
	"github.com/ppiankov/feedmerge/internal/source"
)

// buildRegistry assembles the catalog from the selected built-ins followed by
// the configured feeds. sources.default picks the default source; otherwise
// the built-in default is kept, or the first source when it was not selected.
func buildRegistry(cfg *config.Config) (*source.Registry, error) {
	builtin := make(map[string]source.Descriptor)
	for _, d := range source.Builtin() {
		builtin[d.Name] = d
	}

	var descs []source.Descriptor
	for _, name := range cfg.Sources.Builtin {
		d, ok := builtin[strings.TrimSpace(name)]
		if !ok {
			return nil, &source.ConfigurationError{
				Reason: fmt.Sprintf("unknown built-in source %q (known: %s)", name, strings.Join(source.BuiltinNames(), ", ")),
			}
		}
		descs = append(descs, d)
	}

	for _, f := range cfg.Sources.Feeds {
		descs = append(descs, source.Descriptor{
			Name:          f.Name,
			Endpoint:      f.URL,
			RequiresRelay: f.Relay,
			Normalizer:    source.Feed{},
		})
	}

	if len(descs) == 0 {
		return nil, &source.ConfigurationError{Reason: "at least one source is required"}
	}

	var err error
	switch {
	case cfg.Sources.Default != "":
		descs, err = source.SetDefault(descs, cfg.Sources.Default)
	case !hasDefault(descs):
		descs, err = source.SetDefault(descs, descs[0].Name)
	}
	if err != nil {
		return nil, err
	}

	return source.NewRegistry(descs...)
}

func hasDefault(descs []source.Descriptor) bool {
	for _, d := range descs {
		if d.IsDefault {
			return true
		}
	}
	return false
}
