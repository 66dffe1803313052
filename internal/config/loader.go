package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Load loads configuration from an optional YAML file, then overrides
// with environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SERVER_PORT, LLM_MODEL, VECTORSTORE_URL, ...)
//  2. YAML config file (configPath; skipped when empty or absent)
//  3. Hardcoded defaults
//
// Environment variables use underscore separators and are uppercased.
// The mapping splits on the first underscore: SERVER_PORT becomes
// server.port, VECTORSTORE_API_KEY becomes vectorstore.api_key.
//
// Load validates the result; a validation error wraps ErrInvalidConfig
// and the caller must refuse to start.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
			}
		} else {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", envToPath), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// knownSections are the top-level config sections an environment
// variable may address. Anything else (PATH, HOME, ...) is ignored.
var knownSections = map[string]bool{
	"server":      true,
	"logging":     true,
	"llm":         true,
	"embeddings":  true,
	"vectorstore": true,
	"agent":       true,
	"ingest":      true,
}

// envToPath maps an environment variable name to a koanf path.
// SERVER_PORT -> server.port; VECTORSTORE_GRPC_PORT -> vectorstore.grpc_port.
func envToPath(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) != 2 || !knownSections[parts[0]] {
		return "" // not a shopchat variable, drop it
	}
	return parts[0] + "." + parts[1]
}
