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

package masking

import (
	"context"
	"fmt"
	"sync"

	"github.com/blas/urlmask/config"
)

// FromSettings creates a Masker from decoded configuration. opts are
// applied after the settings, so they can add to them.
//
// Errors:
//   - Returns an error wrapping [ErrInvalidMergeMode] for an unknown merge mode
//   - Returns an error wrapping [ErrInvalidPattern] for a pattern that does not compile
func FromSettings(s config.MaskedSettings, opts ...Option) (*Masker, error) {
	mode, err := ParseMergeMode(s.Merge)
	if err != nil {
		return nil, fmt.Errorf("masking configuration: %w", err)
	}

	base := []Option{
		WithSensitiveKeys(s.Tags...),
		WithMergeMode(mode),
		WithPatterns(s.Patterns...),
	}

	return New(append(base, opts...)...)
}

// FromEnv creates a Masker from the OTEL_INSTRUMENTATION_BLAS_MASKED_*
// environment variables.
//
// Example:
//
//	masker, err := masking.FromEnv(ctx, masking.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
func FromEnv(ctx context.Context, opts ...Option) (*Masker, error) {
	settings, err := config.Load(ctx, config.WithEnv(config.EnvPrefix))
	if err != nil {
		return nil, fmt.Errorf("loading masking configuration: %w", err)
	}
	return FromSettings(settings.Masked, opts...)
}

var loadDefault = sync.OnceValues(func() (*Masker, error) {
	return FromEnv(context.Background())
})

// Default returns the process-wide Masker built from the environment on
// first use. Every call returns the same Masker, or the same error.
func Default() (*Masker, error) {
	return loadDefault()
}

// MustDefault is like [Default] but panics if the configuration is invalid.
func MustDefault() *Masker {
	m, err := Default()
	if err != nil {
		panic("masking initialization failed: " + err.Error())
	}
	return m
}
