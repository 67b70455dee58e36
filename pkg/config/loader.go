package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/appstage/pkg/errors"
)

// EnvPrefix namespaces appstage environment overrides. A single
// underscore separates words inside a key, a double underscore descends
// into a section: APPSTAGE_RUNTIME_VERSION, APPSTAGE_ARCHIVE__FORMAT.
const EnvPrefix = "APPSTAGE_"

// candidate project config files, checked in order; the first hit wins.
var projectFiles = []struct {
	name   string
	parser koanf.Parser
}{
	{".appstage.toml", toml.Parser()},
	{"appstage.toml", toml.Parser()},
	{".appstage.yaml", yaml.Parser()},
	{"appstage.yaml", yaml.Parser()},
}

// Load builds the effective configuration for sourceDir. Embedded
// defaults load first, then the project config file found in sourceDir,
// then APPSTAGE_* environment variables.
func Load(sourceDir string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "loading built-in defaults")
	}

	for _, candidate := range projectFiles {
		path := filepath.Join(sourceDir, candidate.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), candidate.parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"loading project config from %s", path).WithDetail("path", path)
		}
		break
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "loading environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "decoding configuration")
	}

	// The source defaults to where the config was found
	if cfg.Source == "" {
		cfg.Source = sourceDir
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	return strings.ReplaceAll(key, "_", "-")
}
