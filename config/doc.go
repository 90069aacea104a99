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

// Package config loads the URL masking configuration.
//
// Configuration comes from an ordered list of sources. Each source yields
// NAME=value pairs that are decoded into a nested, lowercased map; later
// sources override earlier ones. The merged map is then decoded into
// [Settings] with comma separated values split into lists.
//
// # Quick Start
//
// Read OTEL_INSTRUMENTATION_BLAS_* from the process environment:
//
//	settings, err := config.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Variables
//
//	OTEL_INSTRUMENTATION_BLAS_MASKED_TAGS        extra sensitive query keys
//	OTEL_INSTRUMENTATION_BLAS_MASKED_PATTERNS    extra regular expressions
//	OTEL_INSTRUMENTATION_BLAS_MASKED_MERGE       extend (default) or replace
//	OTEL_INSTRUMENTATION_BLAS_MASKED_ATTRIBUTES  span attributes besides http.url
//
// Lists are comma separated, so a pattern cannot contain a literal comma.
// Entries are trimmed and empty entries are ignored.
//
// # Sources
//
// Several sources can be combined:
//
//	cfg := config.MustNew(
//	    config.WithEnv(config.EnvPrefix),
//	    config.WithMap(config.EnvPrefix, overrides),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	settings, err := cfg.Settings()
//
// Raw values stay reachable through dot notation:
//
//	merge := cfg.String("masked.merge")
//	tags := cfg.StringSlice("masked.tags")
package config
