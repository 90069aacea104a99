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

// Package masking redacts secrets embedded in URLs before they are recorded
// as telemetry. It is independent of any tracing framework; the spanprocessor
// package plugs it into an OpenTelemetry SDK pipeline.
//
// # Basic Usage
//
//	masker, err := masking.New(
//	    masking.WithSensitiveKeys("token", "session"),
//	    masking.WithPatterns(`/hooks/([a-zA-Z0-9]+)`),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	masker.Mask("https://api.example.com/v1/users?apiKey=ABC123&name=bob")
//	// https://api.example.com/v1/users?apiKey=******&name=bob
//
// # Pipeline
//
// [Masker.Mask] runs three stages:
//
//   - Decomposition: the input is split into scheme, authority, path, query
//     and fragment using the raw text of each component. Anything outside the
//     query is reassembled byte for byte.
//   - Query redaction: the query is split on '&' and each pair on '='. Values
//     of sensitive keys (case-insensitive) are replaced with asterisks of the
//     same length. Pairs without exactly one '=' are dropped. Duplicate keys
//     keep their first position and their last value.
//   - Pattern redaction: every configured regular expression is matched
//     globally against the reassembled URL, and each capture group is replaced
//     with asterisks of the same length. The rest of the match is kept.
//     Patterns without capture groups redact nothing.
//
// # Defaults
//
// Sensitive keys: apiKey, pass, password, key, user, username, secret.
// Sensitive patterns: Telegram bot URLs (bot id and token are redacted).
// Options extend the defaults; [WithMergeMode]([MergeReplace]) makes the
// configured keys replace the default keys instead.
//
// # Environment
//
// [FromEnv] and [Default] read OTEL_INSTRUMENTATION_BLAS_MASKED_TAGS,
// OTEL_INSTRUMENTATION_BLAS_MASKED_PATTERNS and
// OTEL_INSTRUMENTATION_BLAS_MASKED_MERGE. Both lists are comma-separated,
// so a pattern cannot contain a literal comma.
//
// # Failure Behavior
//
// Masking fails open: a URL that cannot be parsed is returned unchanged so
// that telemetry keeps flowing. Such a URL is exported without redaction.
// [Masker.MaskURL] reports the parse error for callers that want to count or
// drop those values instead. An invalid pattern is a construction error and
// never a per-call one.
//
// # Thread Safety
//
// A [Masker] is immutable after [New] returns and can be shared by any number
// of goroutines without synchronization.
package masking
