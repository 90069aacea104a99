// Copyright 2025 The Blas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/blas/urlmask/config/source"
)

// Option is a functional option that can be used to configure a Config instance.
type Option func(c *Config) error

// Config loads configuration data from an ordered list of sources.
// Later sources override earlier ones. All keys are case-insensitive.
//
// Config is safe for concurrent use by multiple goroutines.
type Config struct {
	values  *map[string]any
	sources []Source
	tagName string
	mu      sync.RWMutex

	decoderConfig *mapstructure.DecoderConfig
	decoderOnce   sync.Once
}

// WithSource adds a source to the configuration loader.
func WithSource(loader Source) Option {
	return func(c *Config) error {
		if loader == nil {
			return errors.New("config: source cannot be nil")
		}
		c.sources = append(c.sources, loader)
		return nil
	}
}

// WithEnv adds the process environment as a source. Only variables starting
// with prefix are read and the prefix is stripped.
//
// Example:
//
//	cfg := config.MustNew(config.WithEnv(config.EnvPrefix))
func WithEnv(prefix string) Option {
	return WithSource(source.NewOSEnvVar(prefix))
}

// WithMap adds a fixed set of environment-style variables as a source.
//
// Example:
//
//	cfg := config.MustNew(config.WithMap(config.EnvPrefix, map[string]string{
//	    config.EnvPrefix + config.EnvMaskedTags: "token,sig",
//	}))
func WithMap(prefix string, entries map[string]string) Option {
	return WithSource(source.NewMap(prefix, entries))
}

// WithLookup adds a source that reads the variables named by [EnvNames]
// through lookup. A nil lookup reads the process environment.
func WithLookup(prefix string, lookup source.LookupFunc) Option {
	return WithSource(source.NewLookup(prefix, EnvNames(), lookup))
}

// WithTag sets the struct tag used when decoding into structs.
// The default is "config".
func WithTag(tagName string) Option {
	return func(c *Config) error {
		if tagName == "" {
			return errors.New("config: tag name cannot be empty")
		}
		c.tagName = tagName
		return nil
	}
}

// New creates a Config and applies the given options.
// Option errors are collected and returned together with the partially
// initialized Config.
func New(options ...Option) (*Config, error) {
	var errs error
	c := &Config{
		values:  &map[string]any{},
		sources: []Source{},
		tagName: "config",
	}

	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return c, errs
}

// MustNew creates a new Config instance with the provided options.
// It panics if any option returns an error.
func MustNew(options ...Option) *Config {
	cfg, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create config: %v", err))
	}
	return cfg
}

// Load is a shortcut for New, [Config.Load] and [Config.Settings].
// With no options it reads the process environment under [EnvPrefix].
//
// Example:
//
//	settings, err := config.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(settings.Masked.Tags)
func Load(ctx context.Context, options ...Option) (Settings, error) {
	if len(options) == 0 {
		options = []Option{WithEnv(EnvPrefix)}
	}

	cfg, err := New(options...)
	if err != nil {
		return Settings{}, err
	}
	if err = cfg.Load(ctx); err != nil {
		return Settings{}, err
	}
	return cfg.Settings()
}

func (c *Config) getDecoderConfig() *mapstructure.DecoderConfig {
	c.decoderOnce.Do(func() {
		c.decoderConfig = &mapstructure.DecoderConfig{
			TagName:          c.tagName,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		}
	})
	return c.decoderConfig
}

// normalizeMapKeys recursively converts all map keys to lowercase for case-insensitive merging
func normalizeMapKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		lowerKey := strings.ToLower(k)
		if nestedMap, ok := v.(map[string]any); ok {
			normalized[lowerKey] = normalizeMapKeys(nestedMap)
		} else {
			normalized[lowerKey] = v
		}
	}
	return normalized
}

// loadSourcesSequential loads and merges all sources in order.
func (c *Config) loadSourcesSequential(ctx context.Context) (map[string]any, error) {
	newValues := make(map[string]any)
	for i, src := range c.sources {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err = mergo.Map(&newValues, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}

	return newValues, nil
}

// Load loads configuration data from the registered sources and replaces the
// current values. Load is safe to call concurrently.
//
// Errors:
//   - Returns error if ctx is nil or done
//   - Returns [*Error] if any source fails to load or merge
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	newValues, err := c.loadSourcesSequential(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.values = &newValues
	c.mu.Unlock()

	return nil
}

// MustLoad loads configuration or panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic(err)
	}
}

// Settings decodes the loaded values into [Settings].
//
// Errors:
//   - Returns [*Error] if a value has an incompatible type
func (c *Config) Settings() (Settings, error) {
	var s Settings

	dc := *c.getDecoderConfig()
	dc.Result = &s
	decoder, err := mapstructure.NewDecoder(&dc)
	if err != nil {
		return Settings{}, NewError("settings", "decode", err)
	}

	c.mu.RLock()
	values := *c.values
	c.mu.RUnlock()

	if err = decoder.Decode(values); err != nil {
		return Settings{}, NewError("settings", "decode", err)
	}

	s.normalize()
	return s, nil
}

// Values returns a pointer to the loaded values.
func (c *Config) Values() *map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values
}

// getValueFromMap walks a dot separated, case-insensitive path.
func (c *Config) getValueFromMap(path string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.values == nil {
		return nil
	}

	current := *c.values
	segments := strings.Split(strings.ToLower(path), ".")
	for i, segment := range segments {
		val, ok := current[segment]
		if !ok {
			return nil
		}
		if i == len(segments)-1 {
			return val
		}
		nested, isMap := val.(map[string]any)
		if !isMap {
			return nil
		}
		current = nested
	}
	return nil
}

// Get returns the value associated with the given key as an any type.
// If the key is not found, it returns nil.
func (c *Config) Get(key string) any {
	if c == nil || key == "" {
		return nil
	}
	return c.getValueFromMap(key)
}

// String returns the value associated with the given key as a string.
// If the value is not found or cannot be converted to a string, an empty string is returned.
//
// Example:
//
//	merge := cfg.String("masked.merge")
func (c *Config) String(key string) string {
	if c == nil {
		return ""
	}
	return cast.ToString(c.Get(key))
}

// StringSlice returns the value associated with the given key as a slice of
// strings. String values are split on commas; entries are trimmed and empty
// entries dropped.
//
// Example:
//
//	tags := cfg.StringSlice("masked.tags")
func (c *Config) StringSlice(key string) []string {
	if c == nil {
		return []string{}
	}
	switch v := c.Get(key).(type) {
	case nil:
		return []string{}
	case string:
		return splitList(v)
	default:
		return cleanList(cast.ToStringSlice(v))
	}
}
