package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/appstage/pkg/errors"
)

// GenerateContent returns a starter project config: the built-in
// defaults with every value line commented out, so dropping the file
// into a project changes nothing until lines are uncommented.
func GenerateContent() string {
	lines := strings.Split(DefaultsContent(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			out = append(out, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			out = append(out, line)
		default:
			out = append(out, "# "+line)
		}
	}
	return strings.Join(out, "\n")
}

// Marshal renders the effective configuration as TOML.
func Marshal(cfg *Config) (string, error) {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "encoding configuration")
	}
	return string(data), nil
}
