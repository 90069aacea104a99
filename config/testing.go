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
	"testing"

	"github.com/stretchr/testify/require"
)

// mockSource is a Source returning fixed data.
type mockSource struct {
	conf map[string]any
	err  error
}

func (m *mockSource) Load(_ context.Context) (map[string]any, error) {
	return m.conf, m.err //nolint:nilnil // Test mock intentionally returns (nil, nil) for certain test cases
}

// TestSource creates a mock source for testing with the given configuration map.
func TestSource(conf map[string]any) Source {
	return &mockSource{conf: conf}
}

// TestSourceWithError creates a mock source that returns an error on Load.
func TestSourceWithError(err error) Source {
	return &mockSource{err: err}
}

// TestConfig creates a new Config instance with the given options for testing.
// It fails the test if creation fails.
func TestConfig(t testing.TB, opts ...Option) *Config {
	t.Helper()
	cfg, err := New(opts...)
	require.NoError(t, err, "failed to create test config")
	return cfg
}

// TestSettings loads [Settings] from the given environment-style variables,
// relative to [EnvPrefix]. It fails the test on any error.
//
// Example:
//
//	s := config.TestSettings(t, map[string]string{config.EnvMaskedTags: "token"})
func TestSettings(t testing.TB, vars map[string]string) Settings {
	t.Helper()
	s, err := Load(t.Context(), WithMap("", vars))
	require.NoError(t, err, "failed to load test settings")
	return s
}
