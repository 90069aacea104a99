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

package source

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/blas/urlmask/config/codec"
)

// Map is a configuration source backed by a fixed set of variables.
// Names are interpreted exactly like environment variable names.
type Map struct {
	prefix  string
	entries map[string]string
	decoder codec.Decoder
}

// NewMap creates a Map source. Entries whose name does not start with prefix
// are ignored; the prefix is stripped from the rest. The entries map is copied.
//
// Example:
//
//	src := source.NewMap("OTEL_INSTRUMENTATION_BLAS_", map[string]string{
//	    "OTEL_INSTRUMENTATION_BLAS_MASKED_TAGS": "token",
//	})
func NewMap(prefix string, entries map[string]string) *Map {
	return &Map{
		prefix:  prefix,
		entries: maps.Clone(entries),
		decoder: codec.EnvVarCodec{},
	}
}

// Load decodes the entries.
//
// Errors:
//   - Returns error if decoding fails
func (m *Map) Load(_ context.Context) (map[string]any, error) {
	lines := make([]string, 0, len(m.entries))
	for _, name := range slices.Sorted(maps.Keys(m.entries)) {
		rest, ok := strings.CutPrefix(name, m.prefix)
		if !ok {
			continue
		}
		lines = append(lines, rest+"="+m.entries[name])
	}

	conf, err := decodeLines(m.decoder, lines)
	if err != nil {
		return nil, fmt.Errorf("failed to decode map entries: %w", err)
	}

	return conf, nil
}
