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

import "strings"

// EnvPrefix is the prefix shared by every masking environment variable.
const EnvPrefix = "OTEL_INSTRUMENTATION_BLAS_"

// Variable names below are relative to [EnvPrefix].
const (
	// EnvMaskedTags lists extra sensitive query keys, comma separated.
	EnvMaskedTags = "MASKED_TAGS"

	// EnvMaskedPatterns lists extra sensitive regular expressions, comma separated.
	EnvMaskedPatterns = "MASKED_PATTERNS"

	// EnvMaskedMerge selects "extend" (default) or "replace" for the keys.
	EnvMaskedMerge = "MASKED_MERGE"

	// EnvMaskedAttributes lists span attribute keys to mask besides http.url.
	EnvMaskedAttributes = "MASKED_ATTRIBUTES"
)

// EnvNames returns the variable names understood by [Settings], without prefix.
func EnvNames() []string {
	return []string{EnvMaskedTags, EnvMaskedPatterns, EnvMaskedMerge, EnvMaskedAttributes}
}

// Settings is the decoded masking configuration.
type Settings struct {
	Masked MaskedSettings `config:"masked"`
}

// MaskedSettings holds the values of the MASKED_* variables.
// List entries are trimmed and empty entries dropped.
type MaskedSettings struct {
	Tags       []string `config:"tags"`
	Patterns   []string `config:"patterns"`
	Merge      string   `config:"merge"`
	Attributes []string `config:"attributes"`
}

func (s *Settings) normalize() {
	s.Masked.Tags = cleanList(s.Masked.Tags)
	s.Masked.Patterns = cleanList(s.Masked.Patterns)
	s.Masked.Attributes = cleanList(s.Masked.Attributes)
	s.Masked.Merge = strings.TrimSpace(s.Masked.Merge)
}

// cleanList trims every entry and drops the empty ones.
func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// splitList splits a comma separated value with the same rules as [Settings].
func splitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}
