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
	"os"

	"github.com/blas/urlmask/config/codec"
)

// LookupFunc returns the value of the named variable and whether it is set.
// [os.LookupEnv] satisfies it.
type LookupFunc func(name string) (string, bool)

// Lookup is a configuration source that reads a known list of variables
// through a [LookupFunc]. Unlike [OSEnvVar] it never scans the whole
// environment, so it also works with lookups that cannot enumerate.
type Lookup struct {
	prefix  string
	names   []string
	lookup  LookupFunc
	decoder codec.Decoder
}

// NewLookup creates a Lookup source that reads prefix+name for every name.
// A nil lookup means [os.LookupEnv].
//
// Example:
//
//	src := source.NewLookup("OTEL_INSTRUMENTATION_BLAS_",
//	    []string{"MASKED_TAGS", "MASKED_PATTERNS"}, os.LookupEnv)
func NewLookup(prefix string, names []string, lookup LookupFunc) *Lookup {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Lookup{
		prefix:  prefix,
		names:   append([]string(nil), names...),
		lookup:  lookup,
		decoder: codec.EnvVarCodec{},
	}
}

// Load reads every configured name that is set.
//
// Errors:
//   - Returns error if decoding fails
func (l *Lookup) Load(_ context.Context) (map[string]any, error) {
	lines := make([]string, 0, len(l.names))
	for _, name := range l.names {
		if value, ok := l.lookup(l.prefix + name); ok {
			lines = append(lines, name+"="+value)
		}
	}

	conf, err := decodeLines(l.decoder, lines)
	if err != nil {
		return nil, fmt.Errorf("failed to decode looked up variables: %w", err)
	}

	return conf, nil
}
