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
	"errors"
	"fmt"
	"regexp"
)

// Masker redacts sensitive query values and pattern captures from URLs.
//
// Important: Masker is immutable after creation via New(). The key set and
// the compiled patterns are never written again, which makes concurrent use
// safe without locks.
type Masker struct {
	sensitiveKeys KeySet
	patterns      []*regexp.Regexp
	mergeMode     MergeMode
	eventHandler  EventHandler

	// Collected from options, consumed by New
	extraKeys           []string
	extraPatterns       []string
	skipDefaultPatterns bool
	validationErrors    []error
}

// New creates a Masker from the built-in defaults and the given options.
//
// Errors:
//   - Returns an error wrapping [ErrInvalidPattern] for each pattern that does not compile
//   - Returns an error wrapping [ErrInvalidMergeMode] for an unknown merge mode
func New(opts ...Option) (*Masker, error) {
	m := &Masker{mergeMode: MergeExtend}

	for _, opt := range opts {
		opt(m)
	}

	m.sensitiveKeys = m.buildKeySet()

	var sources []string
	if !m.skipDefaultPatterns {
		sources = append(sources, defaultSensitivePatterns...)
	}
	sources = append(sources, m.extraPatterns...)

	patterns, errs := compilePatterns(sources)
	for _, err := range errs {
		m.emitError("Invalid sensitive pattern", "error", err)
	}
	m.validationErrors = append(m.validationErrors, errs...)

	if len(m.validationErrors) > 0 {
		return nil, fmt.Errorf("masking configuration: %w", errors.Join(m.validationErrors...))
	}

	m.patterns = patterns
	m.extraKeys, m.extraPatterns, m.validationErrors = nil, nil, nil

	m.emitInfo("URL masking configured",
		"sensitive_keys", len(m.sensitiveKeys),
		"patterns", len(m.patterns),
		"merge_mode", string(m.mergeMode),
	)

	return m, nil
}

// MustNew creates a Masker or panics on error.
func MustNew(opts ...Option) *Masker {
	m, err := New(opts...)
	if err != nil {
		panic("masking initialization failed: " + err.Error())
	}
	return m
}

// buildKeySet always starts from a fresh set; the package defaults are
// never used as a merge target.
func (m *Masker) buildKeySet() KeySet {
	configured := NewKeySet(m.extraKeys...)
	if m.mergeMode == MergeReplace {
		if len(configured) > 0 {
			return configured
		}
		m.emitWarning("Replace merge mode without sensitive keys, keeping defaults")
	}

	set := NewKeySet(defaultSensitiveKeys...)
	for k := range configured {
		set[k] = struct{}{}
	}
	return set
}

// Mask returns raw with sensitive query values and pattern captures replaced
// by asterisks. If raw cannot be parsed it is returned unchanged.
func (m *Masker) Mask(raw string) string {
	masked, err := m.MaskURL(raw)
	if err != nil {
		m.emitDebug("URL left unmasked", "error", err, "length", len(raw))
		return raw
	}
	return masked
}

// MaskURL is like [Masker.Mask] but reports why a URL could not be masked.
// On error the returned string is raw, unchanged.
//
// Errors:
//   - Returns [*ParseError] (matching [ErrMalformedURL]) if raw cannot be decomposed
func (m *Masker) MaskURL(raw string) (string, error) {
	d, err := Decompose(raw)
	if err != nil {
		return raw, err
	}

	if d.HasQuery && d.Query != "" {
		d.Query = RedactQuery(d.Query, m.sensitiveKeys)
	}

	return RedactPatterns(d.String(), m.patterns), nil
}

// IsSensitiveKey reports whether values of the query parameter key are masked.
func (m *Masker) IsSensitiveKey(key string) bool {
	return m.sensitiveKeys.Contains(key)
}

// SensitiveKeys returns the lowercased sensitive keys in sorted order.
func (m *Masker) SensitiveKeys() []string {
	return m.sensitiveKeys.Keys()
}

// Patterns returns the source text of the configured patterns in order.
func (m *Masker) Patterns() []string {
	out := make([]string, len(m.patterns))
	for i, re := range m.patterns {
		out[i] = re.String()
	}
	return out
}

// MergeMode returns how configured keys were combined with the defaults.
func (m *Masker) MergeMode() MergeMode {
	return m.mergeMode
}

