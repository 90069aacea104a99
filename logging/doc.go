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

// Package logging provides slog-based structured logging that masks URL
// attributes before they are written.
//
// Attributes keyed http.url, url.full or url (and keys added with
// [WithMaskedKeys]) are passed through a [masking.Masker], so a log line
// never carries the secrets the span processor keeps out of traces.
//
// # Basic Usage
//
//	logger := logging.MustNew(
//	    logging.WithConsoleHandler(),
//	    logging.WithServiceName("checkout"),
//	)
//	logger.Info("calling upstream", "http.url", rawURL)
//
// # Handlers
//
//   - [JSONHandler]: one JSON object per line (default)
//   - [TextHandler]: key=value pairs
//   - [ConsoleHandler]: colored, human-readable output for development
//
// [ContextLogger] adds trace_id and span_id from the active span.
package logging
