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

package semconv

// URL attribute constants.
const (
	// HTTPURL is the legacy OpenTelemetry attribute holding the full request URL.
	// It is the attribute masked by default.
	HTTPURL = "http.url"

	// URLFull is the current OpenTelemetry attribute for the absolute URL.
	URLFull = "url.full"

	// URL is the plain log field name commonly used for URLs.
	URL = "url"
)

// Service metadata constants.
const (
	// ServiceName identifies the service that generated the telemetry data.
	ServiceName = "service.name"

	// ServiceVersion identifies the version of the service.
	ServiceVersion = "service.version"
)

// Masking attribute constants.
const (
	// AttributeKey names the span attribute a masking measurement refers to.
	AttributeKey = "urlmask.attribute"

	// Error holds the reason a URL was left unmasked.
	Error = "error"
)

// URLKeys returns the attribute and log field names that carry URLs.
func URLKeys() []string {
	return []string{HTTPURL, URLFull, URL}
}
