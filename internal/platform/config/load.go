package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment variables that override configuration.
	EnvPrefix = "APP_"

	configDir = "configs"
)

// Load builds the configuration for profile ("" loads base.yaml only).
// Missing files are skipped; a file that exists but does not parse fails.
// The result is not validated; call Validate.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	for _, name := range layerFiles(profile) {
		err := k.Load(file.Provider(name), yaml.Parser())

		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

func layerFiles(profile string) []string {
	files := []string{filepath.Join(configDir, "base.yaml")}
	if profile != "" {
		files = append(files, filepath.Join(configDir, profile+".yaml"))
	}

	return files
}

// envKeyMapper maps APP_SERVER_MAX_REQUEST_SIZE onto server.max_request_size.
// Variables are matched against the keys already loaded so underscores inside
// a key survive; unknown variables, such as a new feature flag, get every
// underscore turned into a dot.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name string) string {
		name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// ProfileFromEnv picks the profile file from APP_ENVIRONMENT, the same
// variable that overrides app.environment, falling back to def.
func ProfileFromEnv(def string) string {
	if p := os.Getenv(EnvPrefix + "ENVIRONMENT"); p != "" {
		return p
	}

	return def
}
