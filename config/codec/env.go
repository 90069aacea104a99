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

package codec

import (
	"bytes"
	"fmt"
	"strings"
)

// TypeEnvVar identifies the environment variable codec.
const TypeEnvVar Type = "env_var"

// EnvVarCodec decodes NAME=value lines into a nested map[string]any.
// Names are lowercased and split on underscores; values are trimmed.
type EnvVarCodec struct{}

// Decode decodes data into v, which must be a *map[string]any.
// Lines without '=' and names made only of underscores are skipped.
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)

	for line := range bytes.SplitSeq(data, []byte("\n")) {
		name, value, found := strings.Cut(string(line), "=")
		if !found {
			continue
		}

		parts := splitName(name)
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, isMap := current[part].(map[string]any)
			if !isMap {
				// A scalar at an intermediate level is replaced by a map.
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}

		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*ptr = conf

	return nil
}

// splitName lowercases name and splits it on underscores, dropping empty parts.
func splitName(name string) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}

	parts := make([]string, 0, strings.Count(name, "_")+1)
	for part := range strings.SplitSeq(name, "_") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
