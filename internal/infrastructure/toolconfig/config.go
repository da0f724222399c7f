// Package toolconfig loads the optional tools.yml file that lets operators
// disable tools, reword their descriptions and block unwanted search
// results.
package toolconfig

import (
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"webscout-server/internal/domain/catalog"
)

// ToolSetting adjusts one tool.
type ToolSetting struct {
	Enabled     *bool  `yaml:"enabled"`
	Description string `yaml:"description"`
}

// File is the on-disk tool configuration.
type File struct {
	Tools           map[string]ToolSetting `yaml:"tools"`
	BlockedPatterns []string               `yaml:"blocked_patterns"`
}

// Load reads the tool configuration from a YAML file. Environment variables
// are expanded in both the path and the file content. A missing file is not
// an error: the server runs with every tool enabled and nothing blocked.
func Load(path string) (*File, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("No tools config file found, using defaults")
			return &File{}, nil
		}
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	var f File
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, err
	}

	log.Info().
		Str("path", path).
		Int("tool_settings", len(f.Tools)).
		Int("blocked_patterns", len(f.BlockedPatterns)).
		Msg("Tools config loaded")
	return &f, nil
}

// Overrides converts the file's tool settings into catalog overrides.
func (f *File) Overrides() catalog.Overrides {
	if len(f.Tools) == 0 {
		return nil
	}
	overrides := make(catalog.Overrides, len(f.Tools))
	for name, setting := range f.Tools {
		overrides[name] = catalog.Override{
			Enabled:     setting.Enabled,
			Description: setting.Description,
		}
	}
	return overrides
}
