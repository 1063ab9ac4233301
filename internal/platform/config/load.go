package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "APP_"
	profileEnv       = envPrefix + "PROFILE"
	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	configDir string
}

// WithConfigDir reads the YAML layers from dir instead of ./configs.
func WithConfigDir(dir string) Option {
	return func(o *loadOptions) {
		o.configDir = dir
	}
}

// ProfileFromEnv returns APP_PROFILE, or fallback when it is unset or blank.
func ProfileFromEnv(fallback string) string {
	if p := strings.TrimSpace(os.Getenv(profileEnv)); p != "" {
		return p
	}
	return fallback
}

// Load builds the configuration for profile. Later layers win:
//
//  1. built-in defaults
//  2. {configDir}/base.yaml
//  3. {configDir}/{profile}.yaml
//  4. APP_* environment variables
//
// Environment names are matched against the keys already loaded, so
// APP_SERVER_ROUTE_PREFIX sets server.route_prefix rather than
// server.route.prefix. The result is validated before it is returned.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	o := &loadOptions{configDir: defaultConfigDir}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	for _, name := range []string{"base", profile} {
		path := filepath.Join(o.configDir, name+".yaml")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envTransform(buildEnvLookup(k.Keys())),
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// envTransform maps APP_CLIENT_RETRY_MAX_ATTEMPTS style names to koanf keys.
// Names that match no known key fall back to replacing every underscore.
func envTransform(lookup map[string]string) func(string, string) (string, any) {
	return func(name, value string) (string, any) {
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if known, ok := lookup[key]; ok {
			return known, value
		}
		return strings.ReplaceAll(key, "_", "."), value
	}
}

// validateProfile rejects names that would escape the config directory.
func validateProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`):
		return fmt.Errorf("profile must not contain path separators, got %q", profile)
	case strings.Contains(profile, ".."):
		return fmt.Errorf("profile must not contain path traversal, got %q", profile)
	}
	return nil
}

// buildEnvLookup indexes every loaded key by its underscore form.
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}
	return lookup
}
