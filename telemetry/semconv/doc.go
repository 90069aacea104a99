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

// Package semconv defines the attribute and field names shared by the
// masking, tracing, metrics and logging packages.
//
// URL attribute names follow the OpenTelemetry semantic conventions:
// http.url is the legacy name that instrumentation still emits, url.full
// its current replacement.
//
//	logger.Info("outgoing request", semconv.URLFull, masker.Mask(u))
package semconv
