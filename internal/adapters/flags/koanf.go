// Package flags provides a configuration-backed ports.FeatureFlags.
package flags

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Config serves flags from the features section of the service config.
// Keys are dot paths, so {"consent": {"strict": true}} and
// {"consent.strict": true} both define consent.strict.
type Config struct {
	mu sync.RWMutex
	k  *koanf.Koanf
}

// New loads values, which may be nested or flat.
func New(values map[string]any) (*Config, error) {
	c := &Config{}
	if err := c.Replace(values); err != nil {
		return nil, err
	}

	return c, nil
}

// Replace swaps the whole flag set atomically.
func (c *Config) Replace(values map[string]any) error {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return fmt.Errorf("loading feature flags: %w", err)
	}

	c.mu.Lock()
	c.k = k
	c.mu.Unlock()

	return nil
}

// Set overrides a single flag.
func (c *Config) Set(flag string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.k.Set(flag, value); err != nil {
		return fmt.Errorf("setting flag %s: %w", flag, err)
	}

	return nil
}

// All returns the flattened flag set.
func (c *Config) All() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.k.All()
}

func (c *Config) lookup(flag string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.k.Exists(flag) {
		return nil, false
	}

	return c.k.Get(flag), true
}

// IsEnabled implements ports.FeatureFlags. Strings such as "false" from
// environment overrides are parsed.
func (c *Config) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	v, ok := c.lookup(flag)
	if !ok {
		return defaultValue
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}

	return defaultValue
}

// GetString implements ports.FeatureFlags.
func (c *Config) GetString(_ context.Context, flag string, defaultValue string) string {
	v, ok := c.lookup(flag)
	if !ok {
		return defaultValue
	}

	switch s := v.(type) {
	case string:
		return s
	case bool, int, int64, float64:
		return fmt.Sprint(s)
	}

	return defaultValue
}

// GetInt implements ports.FeatureFlags.
func (c *Config) GetInt(_ context.Context, flag string, defaultValue int) int {
	v, ok := c.lookup(flag)
	if !ok {
		return defaultValue
	}

	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}

	return defaultValue
}
