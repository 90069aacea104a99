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

// Package source provides configuration source implementations.
//
// Every source produces NAME=value pairs, strips an optional prefix from the
// names and decodes them with [codec.EnvVarCodec], so all of them yield the
// same nested map shape:
//
//	OTEL_INSTRUMENTATION_BLAS_MASKED_TAGS=token  -> masked.tags = "token"
//
// # Available Sources
//
//   - OSEnvVar: the process environment
//   - Map: a fixed set of entries, for tests and embedding
//   - Lookup: named variables read through a lookup function
//
// # Example
//
//	envSource := source.NewOSEnvVar("OTEL_INSTRUMENTATION_BLAS_")
//	conf, err := envSource.Load(context.Background())
package source
