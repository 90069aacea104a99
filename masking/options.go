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
	"fmt"
	"log/slog"
	"strings"
)

// Option defines functional options for Masker configuration.
// Options are applied during Masker creation via New().
type Option func(*Masker)

// MergeMode controls how configured sensitive keys combine with the defaults.
type MergeMode string

const (
	// MergeExtend adds configured keys to the default keys (default).
	MergeExtend MergeMode = "extend"

	// MergeReplace uses only the configured keys when at least one is given.
	// With no configured keys the defaults still apply.
	MergeReplace MergeMode = "replace"
)

// ParseMergeMode parses a merge mode name. The empty string means [MergeExtend].
//
// Errors:
//   - Returns [ErrInvalidMergeMode] for any other value
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergeExtend:
		return MergeExtend, nil
	case MergeReplace:
		return MergeReplace, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMergeMode, s, MergeExtend, MergeReplace)
	}
}

// WithSensitiveKeys adds query parameter names whose values are always masked.
// Names are matched case-insensitively. Can be given several times.
//
// Example:
//
//	masker := masking.MustNew(masking.WithSensitiveKeys("token", "sig"))
func WithSensitiveKeys(keys ...string) Option {
	return func(m *Masker) {
		m.extraKeys = append(m.extraKeys, keys...)
	}
}

// WithMergeMode sets how keys from [WithSensitiveKeys] combine with the
// built-in defaults. Invalid modes make New() return an error.
//
// Example:
//
//	// Only "token" is sensitive; apiKey, password, ... are not.
//	masker := masking.MustNew(
//	    masking.WithSensitiveKeys("token"),
//	    masking.WithMergeMode(masking.MergeReplace),
//	)
func WithMergeMode(mode MergeMode) Option {
	return func(m *Masker) {
		if mode != MergeExtend && mode != MergeReplace {
			m.validationErrors = append(m.validationErrors,
				fmt.Errorf("%w: %q", ErrInvalidMergeMode, mode))
			return
		}
		m.mergeMode = mode
	}
}

// WithPatterns adds regular expressions (RE2 syntax) whose capture groups are
// masked wherever they match. Patterns always extend the defaults.
//
// Patterns are compiled once in New(); an invalid pattern makes New() fail
// with [ErrInvalidPattern].
//
// Example:
//
//	// Mask the Slack webhook secret but keep the workspace id.
//	masker := masking.MustNew(
//	    masking.WithPatterns(`hooks\.slack\.com/services/T[A-Z0-9]+/([A-Z0-9]+)/([a-zA-Z0-9]+)`),
//	)
func WithPatterns(patterns ...string) Option {
	return func(m *Masker) {
		m.extraPatterns = append(m.extraPatterns, patterns...)
	}
}

// WithoutDefaultPatterns drops the built-in patterns, leaving only those
// given through [WithPatterns].
func WithoutDefaultPatterns() Option {
	return func(m *Masker) {
		m.skipDefaultPatterns = true
	}
}

// WithEventHandler sets a custom event handler for internal operational events.
//
// Example:
//
//	masking.New(masking.WithEventHandler(func(e masking.Event) {
//	    if e.Type == masking.EventError {
//	        alerting.Notify(e.Message)
//	    }
//	}))
func WithEventHandler(handler EventHandler) Option {
	return func(m *Masker) {
		m.eventHandler = handler
	}
}

// WithLogger sets the logger for internal operational events using the default event handler.
// This is a convenience wrapper around WithEventHandler.
//
// Example:
//
//	masking.New(masking.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(DefaultEventHandler(logger))
}
