package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectConfigFile is the name of the per-project config file.
const ProjectConfigFile = "treenav.yaml"

// Config is the flattened view of everything the tool needs at startup.
type Config struct {
	Server ServerConfig   `yaml:"server"`
	Tree   TreeConfig     `yaml:"tree"`
	Docs   DocsConfig     `yaml:"docs"`
	Init   map[string]any `yaml:"initializationOptions"`
}

// ServerConfig locates the analysis server binary.
type ServerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type TreeConfig struct {
	DoubleClickThresholdMs int `yaml:"doubleClickThresholdMs"`
}

// DoubleClickThreshold returns the configured threshold as a duration;
// zero or negative values fall back to the engine default at the call site.
func (t TreeConfig) DoubleClickThreshold() time.Duration {
	return time.Duration(t.DoubleClickThresholdMs) * time.Millisecond
}

type DocsConfig struct {
	CacheSize int `yaml:"cacheSize"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{Command: "treenav-server"},
		Tree:   TreeConfig{DoubleClickThresholdMs: 500},
		Docs:   DocsConfig{CacheSize: 64},
	}
}

// Load reads the config file at path, falling back to defaults when it does
// not exist. The TREENAV_SERVER environment variable overrides the server
// command either way.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return config, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if override := os.Getenv("TREENAV_SERVER"); override != "" {
		config.Server.Command = override
	}
	return config, nil
}

// FlattenInit converts the nested initializationOptions map into dotted-key
// form, which is what the analysis server expects: {"index": {"threads": 4}}
// becomes {"index.threads": 4}. Non-map values, including slices, pass
// through unchanged.
func FlattenInit(options map[string]any) map[string]any {
	out := make(map[string]any, len(options))
	flattenInto(out, "", options)
	return out
}

func flattenInto(out map[string]any, prefix string, value map[string]any) {
	for _, key := range sortedKeys(value) {
		flatKey := key
		if prefix != "" {
			flatKey = prefix + "." + key
		}
		switch nested := value[key].(type) {
		case map[string]any:
			flattenInto(out, flatKey, nested)
		default:
			out[flatKey] = value[key]
		}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
